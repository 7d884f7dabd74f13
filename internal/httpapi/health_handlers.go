package httpapi

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	KeyStatus func() (bool, string)
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	configured := false
	if h.KeyStatus != nil {
		configured, _ = h.KeyStatus()
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":                true,
		"time":              time.Now().Format(time.RFC3339),
		"openai_configured": configured,
	})
}
