package scrape

import (
	"fmt"

	"leadsnap-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const ActionScrapeChat = "SCRAPE_CHAT"

type Request struct {
	Action string `json:"action"`
}

type Response struct {
	Success bool                 `json:"success"`
	Data    *domain.ScrapeResult `json:"data,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// Handler answers scrape requests against a page snapshot.
type Handler struct {
	opts Options
	log  *zap.Logger
}

func NewHandler(opts Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{opts: opts, log: log}
}

// Handle runs the extraction for SCRAPE_CHAT. Any other action is left
// unhandled. A panic while walking the document becomes a failure response.
func (h *Handler) Handle(doc *goquery.Document, req Request) (resp Response, handled bool) {
	if req.Action != ActionScrapeChat {
		return Response{}, false
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("scraping failed", zap.Any("panic", rec))
			resp = Response{Success: false, Error: fmt.Sprint(rec)}
			handled = true
		}
	}()

	rep := Run(doc, h.opts)
	h.log.Debug("scraped chat",
		zap.String("contact", rep.Result.ContactName),
		zap.Int("messages", len(rep.Result.Messages)),
		zap.String("name_tier", rep.NameStrategy),
		zap.String("message_tier", rep.MessageStrategy),
	)
	return Response{Success: true, Data: &rep.Result}, true
}
