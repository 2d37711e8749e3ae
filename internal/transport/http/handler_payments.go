package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apppayments "simon-pi/internal/app/payments"
	"simon-pi/internal/store"

	"github.com/go-chi/chi/v5"
)

type PaymentHandlers struct {
	svc *apppayments.Service
}

func NewPaymentHandlers(svc *apppayments.Service) *PaymentHandlers {
	return &PaymentHandlers{svc: svc}
}

type paymentJSON struct {
	PaymentID   string     `json:"paymentId"`
	UserID      string     `json:"userId"`
	Amount      float64    `json:"amount"`
	Memo        string     `json:"memo"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type scoreJSON struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPaymentJSON(p *store.Payment) paymentJSON {
	return paymentJSON{
		PaymentID:   p.PaymentID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		Memo:        p.Memo,
		Status:      string(p.Status),
		CompletedAt: p.CompletedAt,
	}
}

func (h *PaymentHandlers) Complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PaymentID string         `json:"paymentId"`
			UserID    string         `json:"userId"`
			Username  string         `json:"username"`
			Score     int64          `json:"score"`
			Amount    float64        `json:"amount"`
			Memo      string         `json:"memo"`
			Metadata  map[string]any `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		p, sc, err := h.svc.Complete(r.Context(), apppayments.CompleteRequest{
			PaymentID: body.PaymentID,
			UserID:    body.UserID,
			Username:  body.Username,
			Score:     body.Score,
			Amount:    body.Amount,
			Memo:      body.Memo,
			Metadata:  body.Metadata,
		})
		if err != nil {
			switch {
			case errors.Is(err, apppayments.ErrInvalidRequest):
				WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, apppayments.ErrScoreNotRecorded):
				WriteError(w, http.StatusInternalServerError, "payment completed but score could not be saved")
			case errors.Is(err, store.ErrNotFound):
				WriteError(w, http.StatusNotFound, "payment not found")
			default:
				WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		resp := map[string]any{
			"success": true,
			"message": "payment completed and score saved",
			"payment": toPaymentJSON(p),
		}
		if sc != nil {
			resp["score"] = scoreJSON{
				UserID:    sc.UserID,
				Username:  sc.Username,
				Score:     sc.Score,
				CreatedAt: sc.CreatedAt,
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *PaymentHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.svc.Payment(r.Context(), chi.URLParam(r, "payment_id"))
		if err != nil {
			switch {
			case errors.Is(err, apppayments.ErrInvalidRequest):
				WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, store.ErrNotFound):
				WriteError(w, http.StatusNotFound, "payment not found")
			default:
				WriteError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"payment": toPaymentJSON(p),
		})
	}
}
