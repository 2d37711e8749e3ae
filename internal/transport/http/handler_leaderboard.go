package httptransport

import (
	"errors"
	"net/http"
	"time"

	appleaderboard "simon-pi/internal/app/leaderboard"
	"simon-pi/internal/store"

	"github.com/go-chi/chi/v5"
)

type LeaderboardHandlers struct {
	svc *appleaderboard.Service
}

func NewLeaderboardHandlers(svc *appleaderboard.Service) *LeaderboardHandlers {
	return &LeaderboardHandlers{svc: svc}
}

type leaderboardEntryJSON struct {
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func toEntries(scores []store.Score) []leaderboardEntryJSON {
	out := make([]leaderboardEntryJSON, 0, len(scores))
	for _, sc := range scores {
		out = append(out, leaderboardEntryJSON{
			Username:  sc.Username,
			Score:     sc.Score,
			CreatedAt: sc.CreatedAt,
		})
	}
	return out
}

func (h *LeaderboardHandlers) Top() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := h.svc.Top(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		WriteJSON(w, http.StatusOK, toEntries(scores))
	}
}

func (h *LeaderboardHandlers) ForUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := h.svc.ForUser(r.Context(), chi.URLParam(r, "user_id"))
		if err != nil {
			if errors.Is(err, appleaderboard.ErrInvalidRequest) {
				WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		WriteJSON(w, http.StatusOK, toEntries(scores))
	}
}
