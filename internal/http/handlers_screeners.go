package httpx

import (
	"net/http"

	"github.com/bountylab/scoring-api/internal/core"
)

// ScreenerHandlers provides HTTP handlers for the read-only screener registry.
type ScreenerHandlers struct {
	Registry core.ScreenerRegistry
}

// List returns all registered screeners, highest priority first.
func (h *ScreenerHandlers) List(w http.ResponseWriter, r *http.Request) {
	screeners, err := h.Registry.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"screeners": screeners})
}
