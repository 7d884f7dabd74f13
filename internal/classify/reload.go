package classify

import (
	"context"
	"sync/atomic"

	"leadsnap-engine/internal/domain"
)

// Reloadable lets the key or model change while snaps keep a stable
// Analyzer. An empty Reloadable behaves like a client with no key.
type Reloadable struct {
	cur atomic.Pointer[Client]
}

func (r *Reloadable) Store(c *Client) { r.cur.Store(c) }

func (r *Reloadable) Load() *Client {
	if c := r.cur.Load(); c != nil {
		return c
	}
	return NewWithModel(nil, Options{}, nil)
}

func (r *Reloadable) Analyze(ctx context.Context, chatText string) domain.LeadAnalysis {
	return r.Load().Analyze(ctx, chatText)
}

func (r *Reloadable) Configured() bool { return r.Load().Configured() }
