package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"leadsnap-engine/internal/events"
)

const defaultKeepAlive = 25 * time.Second

// EventsHandler streams hub events (lead_created, snap_state) to the side
// panel so an open dashboard can refresh without polling.
type EventsHandler struct {
	Hub *events.Hub
	// KeepAlive is the interval of SSE comment lines; zero uses 25s.
	KeepAlive time.Duration
}

func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}
	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")

	sub := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(sub)

	send := func(data string) {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
		flusher.Flush()
	}
	send(events.MakeEvent(RequestIDFrom(r.Context()), "ping", 1, nil))

	every := h.KeepAlive
	if every <= 0 {
		every = defaultKeepAlive
	}
	tick := time.NewTicker(every)
	defer tick.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case evt, open := <-sub:
			if !open {
				return
			}
			send(evt)
		}
	}
}
