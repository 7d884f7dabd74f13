package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// NewMux registers the side-panel routes.
func NewMux(d Deps) *http.ServeMux {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.KeyStatus == nil {
		d.KeyStatus = func() (bool, string) { return false, "" }
	}
	mux := http.NewServeMux()

	hh := HealthHandler{KeyStatus: d.KeyStatus}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Content-script messaging
	sch := ScrapeHandler{ContentScript: d.ContentScript}
	mux.HandleFunc("/scrape", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Scrape,
	}))

	// Snap view
	snh := SnapHandler{Snapper: d.Snapper, ContentScript: d.ContentScript}
	mux.HandleFunc("/snap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: snh.Snap,
	}))
	mux.HandleFunc("/snap/reset", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: snh.Reset,
	}))
	mux.HandleFunc("/snap/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: snh.Status,
	}))

	// Dashboard view
	lh := LeadsHandler{Dashboard: d.Dashboard}
	mux.HandleFunc("/leads", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Reload:      d.Reload,
		Log:         d.Log,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal, Reload: d.Reload, KeyStatus: d.KeyStatus}
	mux.HandleFunc("/api/secrets/openai", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    sh.Status,
		http.MethodPost:   sh.SetOpenAIKey,
		http.MethodDelete: sh.DeleteOpenAIKey,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// NewHandler is NewMux behind the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return Chain(NewMux(d), RequestID, Recover(d.Log), AccessLog(d.Log), Cors)
}
