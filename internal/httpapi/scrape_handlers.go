package httpapi

import (
	"errors"
	"net/http"

	"leadsnap-engine/internal/scrape"
	"leadsnap-engine/internal/tabs"
)

// pushedPage is a page snapshot sent by the extension instead of being
// captured from the debugger.
type pushedPage struct {
	Action string `json:"action"`
	URL    string `json:"url"`
	HTML   string `json:"html"`
}

type ScrapeHandler struct {
	ContentScript func(src tabs.PageSource) tabs.ContentScript
}

// Scrape answers one content-script message against the pushed page.
func (h ScrapeHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	var req pushedPage
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if req.Action == "" {
		req.Action = scrape.ActionScrapeChat
	}

	cs := h.ContentScript(tabs.StaticSource{Page: tabs.Page{URL: req.URL, HTML: req.HTML}})
	resp, err := cs.SendMessage(r.Context(), scrape.Request{Action: req.Action})
	switch {
	case errors.Is(err, tabs.ErrNoActiveTab):
		WriteError(w, r, http.StatusUnprocessableEntity, "no_active_tab", err.Error())
		return
	case errors.Is(err, tabs.ErrNoResponse):
		WriteError(w, r, http.StatusBadRequest, "no_response", "unsupported action "+req.Action)
		return
	case err != nil:
		WriteError(w, r, http.StatusInternalServerError, "scrape_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}
