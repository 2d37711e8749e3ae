package httptransport

import (
	"net/http"

	"simon-pi/internal/store"
)

type AdminHandlers struct {
	st store.Store
}

func NewAdminHandlers(st store.Store) *AdminHandlers {
	return &AdminHandlers{st: st}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.st.Ping(r.Context()); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}
