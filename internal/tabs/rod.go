package tabs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodSource reads the chat tab out of a running Chrome through the DevTools
// protocol. Chrome must be started with --remote-debugging-port.
type RodSource struct {
	DebuggerURL string
	MatchURL    string
	Timeout     time.Duration
	Log         *zap.Logger
}

func (s RodSource) ActivePage(ctx context.Context) (Page, error) {
	var cancel context.CancelFunc
	if s.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	// Cancelling drops the DevTools connection. Browser.Close would quit the
	// user's Chrome instead.
	defer cancel()
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	wsURL, err := launcher.ResolveURL(s.DebuggerURL)
	if err != nil {
		log.Warn("devtools endpoint unreachable", zap.String("debugger_url", s.DebuggerURL), zap.Error(err))
		return Page{}, fmt.Errorf("%w: %v", ErrNoActiveTab, err)
	}

	browser := rod.New().ControlURL(wsURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return Page{}, fmt.Errorf("%w: connect: %v", ErrNoActiveTab, err)
	}

	pages, err := browser.Pages()
	if err != nil {
		return Page{}, fmt.Errorf("list tabs: %w", err)
	}

	for _, p := range pages {
		info, err := p.Info()
		if err != nil {
			continue
		}
		if info.Type != proto.TargetTargetInfoTypePage || !Compatible(info.URL, s.MatchURL) {
			continue
		}
		html, err := p.HTML()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return Page{}, err
			}
			log.Warn("read tab html failed", zap.String("url", info.URL), zap.Error(err))
			continue
		}
		log.Debug("captured tab", zap.String("url", info.URL), zap.Int("bytes", len(html)))
		return Page{URL: info.URL, HTML: html}, nil
	}
	return Page{}, ErrNoActiveTab
}

// Compatible reports whether the content script is allowed to run on url.
// An empty match accepts every page.
func Compatible(url, match string) bool {
	match = strings.TrimSpace(match)
	if match == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(url)), strings.ToLower(match))
}
