package tabs

import (
	"context"
	"fmt"
	"strings"

	"leadsnap-engine/internal/scrape"

	"github.com/PuerkitoBio/goquery"
)

// ContentScript delivers a message to the scrape handler running against
// the active page, the way the extension messages its content script.
type ContentScript struct {
	Source   PageSource
	Handler  *scrape.Handler
	MatchURL string
}

func (c ContentScript) SendMessage(ctx context.Context, req scrape.Request) (scrape.Response, error) {
	page, err := c.Source.ActivePage(ctx)
	if err != nil {
		return scrape.Response{}, err
	}
	if page.URL != "" && !Compatible(page.URL, c.MatchURL) {
		return scrape.Response{}, fmt.Errorf("%w: %s", ErrNoActiveTab, page.URL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return scrape.Response{}, fmt.Errorf("parse page html: %w", err)
	}

	resp, handled := c.Handler.Handle(doc, req)
	if !handled {
		return scrape.Response{}, ErrNoResponse
	}
	return resp, nil
}
