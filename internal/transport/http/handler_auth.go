package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appauth "simon-pi/internal/app/auth"
)

type AuthHandlers struct {
	svc *appauth.Service
}

func NewAuthHandlers(svc *appauth.Service) *AuthHandlers {
	return &AuthHandlers{svc: svc}
}

func (h *AuthHandlers) Verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UID         string `json:"uid"`
			Username    string `json:"username"`
			AccessToken string `json:"accessToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		u, err := h.svc.Verify(r.Context(), appauth.VerifyRequest{
			UID:         body.UID,
			Username:    body.Username,
			AccessToken: body.AccessToken,
		})
		if err != nil {
			switch {
			case errors.Is(err, appauth.ErrInvalidRequest):
				WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, appauth.ErrUnauthorized):
				WriteError(w, http.StatusUnauthorized, "invalid access token")
			default:
				WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "user verified",
			"user":    map[string]any{"uid": u.UID, "username": u.Username},
		})
	}
}
