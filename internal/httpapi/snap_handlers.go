package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"leadsnap-engine/internal/pipeline"
	"leadsnap-engine/internal/tabs"
)

type SnapHandler struct {
	Snapper       *pipeline.Snapper
	ContentScript func(src tabs.PageSource) tabs.ContentScript
}

func (h SnapHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Snapper.Status())
}

// Snap runs one cycle. With an html body the pushed page is used, otherwise
// the live browser tab.
func (h SnapHandler) Snap(w http.ResponseWriter, r *http.Request) {
	var req pushedPage
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}

	// once started a snap runs to completion even if the client goes away
	ctx := context.WithoutCancel(r.Context())

	var err error
	if strings.TrimSpace(req.HTML) != "" {
		cs := h.ContentScript(tabs.StaticSource{Page: tabs.Page{URL: req.URL, HTML: req.HTML}})
		_, err = h.Snapper.SnapFrom(ctx, cs)
	} else {
		_, err = h.Snapper.Snap(ctx)
	}

	var alert *pipeline.Alert
	switch {
	case errors.Is(err, pipeline.ErrSnapInProgress):
		WriteError(w, r, http.StatusConflict, "snap_in_progress", err.Error())
		return
	case errors.As(err, &alert):
		WriteError(w, r, http.StatusUnprocessableEntity, "alert", alert.Message)
		return
	case err != nil:
		WriteError(w, r, http.StatusInternalServerError, "snap_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.Snapper.Status())
}

func (h SnapHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Snapper.Reset(); err != nil {
		WriteError(w, r, http.StatusConflict, "snap_in_progress", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.Snapper.Status())
}
