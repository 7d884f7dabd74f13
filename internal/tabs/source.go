package tabs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNoActiveTab means there is no open page the content script can run in.
	ErrNoActiveTab = errors.New("no compatible chat tab is open")
	// ErrNoResponse means the page was found but nothing answered the message.
	ErrNoResponse = errors.New("content script did not respond")
)

// Page is a snapshot of one browser tab.
type Page struct {
	URL  string
	HTML string
}

// PageSource finds the page a scrape should run against.
type PageSource interface {
	ActivePage(ctx context.Context) (Page, error)
}

// FileSource serves a saved HTML snapshot of a chat page.
type FileSource struct {
	Path string
	URL  string
}

func (s FileSource) ActivePage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return Page{}, fmt.Errorf("read snapshot %s: %w", s.Path, err)
	}
	return Page{URL: s.URL, HTML: string(b)}, nil
}

// StaticSource wraps HTML that was pushed to the engine, e.g. by an extension.
type StaticSource struct {
	Page Page
}

func (s StaticSource) ActivePage(ctx context.Context) (Page, error) {
	if strings.TrimSpace(s.Page.HTML) == "" {
		return Page{}, ErrNoActiveTab
	}
	return s.Page, ctx.Err()
}
