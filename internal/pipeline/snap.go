package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"leadsnap-engine/internal/domain"
	"leadsnap-engine/internal/scrape"
	"leadsnap-engine/internal/store"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

type Messenger interface {
	SendMessage(ctx context.Context, req scrape.Request) (scrape.Response, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, chatText string) domain.LeadAnalysis
}

type LeadWriter interface {
	Insert(ctx context.Context, in store.LeadInsert) (domain.LeadRecord, error)
}

// Status is what the snap view renders. Alert is the last user-facing
// message and survives the reset to idle that follows a failed insert.
type Status struct {
	State     State     `json:"state"`
	Card      *LeadCard `json:"card,omitempty"`
	Alert     string    `json:"alert,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SnapperOptions struct {
	// LockPath, when set, serializes snaps across processes sharing a data dir.
	LockPath string
	OnLead   func(domain.LeadRecord)
	OnState  func(State)
}

// Snapper runs one scrape, classify, persist cycle at a time.
type Snapper struct {
	messenger Messenger
	analyzer  Analyzer
	leads     LeadWriter
	lock      *flock.Flock
	onLead    func(domain.LeadRecord)
	onState   func(State)
	log       *zap.Logger

	mu     sync.Mutex
	status Status
}

func NewSnapper(m Messenger, a Analyzer, w LeadWriter, opts SnapperOptions, log *zap.Logger) *Snapper {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Snapper{
		messenger: m,
		analyzer:  a,
		leads:     w,
		onLead:    opts.OnLead,
		onState:   opts.OnState,
		log:       log,
		status:    Status{State: StateIdle, UpdatedAt: time.Now().UTC()},
	}
	if opts.LockPath != "" {
		s.lock = flock.New(opts.LockPath)
	}
	return s
}

func (s *Snapper) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Reset is "scan next": back to idle from any finished state.
func (s *Snapper) Reset() error {
	s.mu.Lock()
	if s.status.State == StateLoading {
		s.mu.Unlock()
		return ErrSnapInProgress
	}
	s.status = Status{State: StateIdle, UpdatedAt: time.Now().UTC()}
	s.mu.Unlock()
	s.notify(StateIdle)
	return nil
}

// Snap captures the open chat, classifies it and stores the lead. Failures
// the user must see come back as *Alert.
func (s *Snapper) Snap(ctx context.Context) (LeadCard, error) {
	return s.SnapFrom(ctx, s.messenger)
}

// SnapFrom is Snap against a specific page, e.g. one pushed by the extension.
func (s *Snapper) SnapFrom(ctx context.Context, m Messenger) (LeadCard, error) {
	if err := s.begin(); err != nil {
		return LeadCard{}, err
	}

	unlock, err := s.acquire()
	if err != nil {
		s.finish(StateIdle, nil, "")
		return LeadCard{}, err
	}
	defer unlock()

	resp, err := m.SendMessage(ctx, scrape.Request{Action: scrape.ActionScrapeChat})
	if err == nil && (!resp.Success || resp.Data == nil) {
		err = errors.New(resp.Error)
		if resp.Error == "" {
			err = errors.New("scrape failed")
		}
	}
	if err != nil {
		a := openChatAlert(err)
		s.log.Warn("snap: no chat captured", zap.Error(err))
		s.finish(StateError, nil, a.Message)
		return LeadCard{}, a
	}

	data := *resp.Data
	analysis := s.analyzer.Analyze(ctx, strings.Join(data.Messages, "\n"))

	rec, err := s.leads.Insert(ctx, store.LeadInsert{
		ContactName: data.ContactName,
		Summary:     analysis,
		Messages:    data.Messages,
	})
	if err != nil {
		a := errorAlert(err)
		s.log.Error("snap: saving lead failed", zap.String("contact", data.ContactName), zap.Error(err))
		s.finish(StateIdle, nil, a.Message)
		return LeadCard{}, a
	}

	card := NewSnapCard(rec)
	s.log.Info("lead captured",
		zap.Int64("id", rec.ID),
		zap.String("contact", rec.ContactName),
		zap.String("status", analysis.Status),
		zap.Int("messages", len(data.Messages)),
	)
	s.finish(StateSuccess, &card, "")
	if s.onLead != nil {
		s.onLead(rec)
	}
	return card, nil
}

func (s *Snapper) begin() error {
	s.mu.Lock()
	if s.status.State == StateLoading {
		s.mu.Unlock()
		return ErrSnapInProgress
	}
	s.status = Status{State: StateLoading, UpdatedAt: time.Now().UTC()}
	s.mu.Unlock()
	s.notify(StateLoading)
	return nil
}

func (s *Snapper) finish(st State, card *LeadCard, alert string) {
	s.mu.Lock()
	s.status = Status{State: st, Card: card, Alert: alert, UpdatedAt: time.Now().UTC()}
	s.mu.Unlock()
	s.notify(st)
}

func (s *Snapper) notify(st State) {
	if s.onState != nil {
		s.onState(st)
	}
}

func (s *Snapper) acquire() (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSnapInProgress
	}
	return func() { _ = s.lock.Unlock() }, nil
}
