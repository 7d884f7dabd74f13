package httpapi

import (
	"net/http"

	"leadsnap-engine/internal/pipeline"
)

type LeadsHandler struct {
	Dashboard *pipeline.Dashboard
}

// List always answers 200; a store failure shows as an empty pipeline.
func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Dashboard.Load(r.Context()))
}
