package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"leadsnap-engine/internal/classify"
	"leadsnap-engine/internal/domain"
	"leadsnap-engine/internal/scrape"
	"leadsnap-engine/internal/store"
	"leadsnap-engine/internal/tabs"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const chatPage = `<html><body><div id="main">
<header><span title="John">John</span></header>
<div data-pre-plain-text="[10:00] John: "><span class="selectable-text">Need a website</span></div>
<div data-pre-plain-text="[10:01] John: "><span class="selectable-text">Budget is 20k</span></div>
</div></body></html>`

func openLeads(t *testing.T) store.Leads {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.Leads{DB: db.Pool}
}

func contentScript(html string) tabs.ContentScript {
	return tabs.ContentScript{
		Source:  tabs.StaticSource{Page: tabs.Page{URL: "https://web.whatsapp.com/", HTML: html}},
		Handler: scrape.NewHandler(scrape.DefaultOptions(), nil),
	}
}

type fakeMessenger struct {
	resp scrape.Response
	err  error
	wait chan struct{}
}

func (f *fakeMessenger) SendMessage(ctx context.Context, _ scrape.Request) (scrape.Response, error) {
	if f.wait != nil {
		<-f.wait
	}
	return f.resp, f.err
}

type recordingAnalyzer struct {
	got string
	out domain.LeadAnalysis
}

func (r *recordingAnalyzer) Analyze(_ context.Context, text string) domain.LeadAnalysis {
	r.got = text
	return r.out
}

type failingWriter struct{}

func (failingWriter) Insert(context.Context, store.LeadInsert) (domain.LeadRecord, error) {
	return domain.LeadRecord{}, errors.New("insert rejected")
}

type failingReader struct{}

func (failingReader) List(context.Context) ([]domain.LeadRecord, error) {
	return nil, errors.New("db down")
}

func okResponse(name string, msgs ...string) scrape.Response {
	return scrape.Response{Success: true, Data: &domain.ScrapeResult{ContactName: name, Messages: msgs}}
}

func TestSnap_NoKeyPersistsColdLead(t *testing.T) {
	leads := openLeads(t)
	cl, err := classify.New(classify.Options{}, nil)
	require.NoError(t, err)

	var created []domain.LeadRecord
	s := NewSnapper(contentScript(chatPage), cl, leads, SnapperOptions{
		OnLead: func(r domain.LeadRecord) { created = append(created, r) },
	}, nil)

	card, err := s.Snap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "John", card.Name)
	assert.Equal(t, "Cold", card.Status)
	assert.Equal(t, ToneCold, card.Tone)
	assert.Equal(t, "Configure OpenAI API key", card.NextStep)
	assert.Empty(t, card.DealValue)

	st := s.Status()
	assert.Equal(t, StateSuccess, st.State)
	require.NotNil(t, st.Card)
	assert.Equal(t, card, *st.Card)

	recs, err := leads.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "John", recs[0].ContactName)
	assert.Equal(t, "Cold", recs[0].Summary.Status)
	assert.Equal(t, "Configure OpenAI API key", recs[0].Summary.NextStep)
	assert.Equal(t, []string{"Need a website", "Budget is 20k"}, recs[0].Messages)

	require.Len(t, created, 1)
	assert.Equal(t, recs[0].ID, created[0].ID)
}

func TestSnap_JoinsMessagesWithNewline(t *testing.T) {
	leads := openLeads(t)
	an := &recordingAnalyzer{out: domain.LeadAnalysis{Summary: "s", Status: "Hot Lead", NextStep: "n", DealValue: "$500"}}
	s := NewSnapper(&fakeMessenger{resp: okResponse("Jane", "Hi", "Quote sent: $500")}, an, leads, SnapperOptions{}, nil)

	card, err := s.Snap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hi\nQuote sent: $500", an.got)
	assert.Equal(t, "$500", card.DealValue)
	assert.Equal(t, ToneHot, card.Tone)
}

func TestSnap_NoTabAlerts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	leads := openLeads(t)
	an := &recordingAnalyzer{}

	var states []State
	s := NewSnapper(&fakeMessenger{err: tabs.ErrNoActiveTab}, an, leads, SnapperOptions{
		OnState: func(st State) { states = append(states, st) },
	}, zap.New(core))

	_, err := s.Snap(context.Background())
	var alert *Alert
	require.ErrorAs(t, err, &alert)
	assert.Equal(t, MsgOpenChat, alert.Message)
	assert.ErrorIs(t, err, tabs.ErrNoActiveTab)

	assert.Equal(t, StateError, s.Status().State)
	assert.Equal(t, MsgOpenChat, s.Status().Alert)
	assert.Equal(t, []State{StateLoading, StateError}, states)
	assert.Empty(t, an.got)
	assert.Equal(t, 1, logs.FilterMessage("snap: no chat captured").Len())

	recs, err := leads.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSnap_UnsuccessfulScrapeAlerts(t *testing.T) {
	s := NewSnapper(&fakeMessenger{resp: scrape.Response{Success: false, Error: "detached node"}},
		&recordingAnalyzer{}, openLeads(t), SnapperOptions{}, nil)

	_, err := s.Snap(context.Background())
	var alert *Alert
	require.ErrorAs(t, err, &alert)
	assert.Equal(t, MsgOpenChat, alert.Message)
	assert.Equal(t, StateError, s.Status().State)
}

func TestSnap_InsertFailureResetsToIdle(t *testing.T) {
	s := NewSnapper(&fakeMessenger{resp: okResponse("Jane", "Hi")},
		&recordingAnalyzer{out: classify.NotConfigured()}, failingWriter{}, SnapperOptions{}, nil)

	_, err := s.Snap(context.Background())
	var alert *Alert
	require.ErrorAs(t, err, &alert)
	assert.Equal(t, "Error: insert rejected", alert.Message)

	st := s.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.Nil(t, st.Card)
	assert.Equal(t, "Error: insert rejected", st.Alert)
}

func TestSnap_RejectsConcurrentSnap(t *testing.T) {
	m := &fakeMessenger{resp: okResponse("Jane", "Hi"), wait: make(chan struct{})}
	s := NewSnapper(m, &recordingAnalyzer{out: classify.NotConfigured()}, openLeads(t), SnapperOptions{}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.Snap(context.Background())
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return s.Status().State == StateLoading }, time.Second, 5*time.Millisecond)
	_, err := s.Snap(context.Background())
	assert.ErrorIs(t, err, ErrSnapInProgress)
	assert.ErrorIs(t, s.Reset(), ErrSnapInProgress)

	close(m.wait)
	wg.Wait()
	assert.Equal(t, StateSuccess, s.Status().State)

	require.NoError(t, s.Reset())
	assert.Equal(t, StateIdle, s.Status().State)
	assert.Nil(t, s.Status().Card)
}

func TestSnap_FileLockHeldElsewhere(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "snap.lock")
	other := flock.New(lockPath)
	ok, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	s := NewSnapper(&fakeMessenger{resp: okResponse("Jane", "Hi")},
		&recordingAnalyzer{out: classify.NotConfigured()}, openLeads(t), SnapperOptions{LockPath: lockPath}, nil)

	_, err = s.Snap(context.Background())
	assert.ErrorIs(t, err, ErrSnapInProgress)
	assert.Equal(t, StateIdle, s.Status().State)

	require.NoError(t, other.Unlock())
	_, err = s.Snap(context.Background())
	require.NoError(t, err)
}

func TestDashboard_Empty(t *testing.T) {
	v := NewDashboard(openLeads(t), nil).Load(context.Background())
	assert.Equal(t, "Total Pipeline", v.Title)
	assert.Equal(t, "~ 0 Active Leads", v.Headline)
	assert.Equal(t, 0, v.Count)
	assert.NotNil(t, v.Leads)
	assert.Empty(t, v.Leads)
}

func TestDashboard_StoreFailureIsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	v := NewDashboard(failingReader{}, zap.New(core)).Load(context.Background())
	assert.Equal(t, "~ 0 Active Leads", v.Headline)
	assert.Empty(t, v.Leads)
	assert.Equal(t, 1, logs.Len())
}

func TestDashboard_NewestFirst(t *testing.T) {
	leads := openLeads(t)
	ctx := context.Background()
	_, err := leads.Insert(ctx, store.LeadInsert{ContactName: "Old", Summary: domain.LeadAnalysis{Status: "Warm Lead", DealValue: "Unknown"}})
	require.NoError(t, err)
	_, err = leads.Insert(ctx, store.LeadInsert{ContactName: "New", Summary: domain.LeadAnalysis{Summary: "Paid in full", Status: "Closed", DealValue: "$900"}})
	require.NoError(t, err)

	v := NewDashboard(leads, nil).Load(ctx)
	assert.Equal(t, "~ 2 Active Leads", v.Headline)
	require.Len(t, v.Leads, 2)

	assert.Equal(t, "New", v.Leads[0].Name)
	assert.Equal(t, ToneClosed, v.Leads[0].Tone)
	assert.Equal(t, "$900", v.Leads[0].DealValue)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), v.Leads[0].Date)

	assert.Equal(t, "Old", v.Leads[1].Name)
	assert.Empty(t, v.Leads[1].DealValue)
	// no summary text: the stored summary is shown instead
	assert.Contains(t, v.Leads[1].Summary, `"status":"Warm Lead"`)
}

func TestDashboard_NumericDealValueKeepsStatus(t *testing.T) {
	leads := openLeads(t)
	ctx := context.Background()
	_, err := leads.DB.Exec(`
INSERT INTO leads(contact_name, summary, messages, created_at) VALUES
('Jane', '{"summary":"Wants a quote","status":"Hot Lead","next_step":"Send quote","deal_value":500}', '[]', '2024-02-03T10:00:00.000000000Z');`)
	require.NoError(t, err)

	v := NewDashboard(leads, nil).Load(ctx)
	require.Len(t, v.Leads, 1)
	c := v.Leads[0]
	assert.Equal(t, "Hot Lead", c.Status)
	assert.Equal(t, ToneHot, c.Tone)
	assert.Equal(t, "Wants a quote", c.Summary)
	assert.Equal(t, "500", c.DealValue)
	assert.Equal(t, "2024-02-03", c.Date)
}

func TestCardFromRecord_UnreadableSummary(t *testing.T) {
	c := CardFromRecord(domain.LeadRecord{
		ID:          3,
		ContactName: "Ravi",
		RawSummary:  "free text from an old client",
		CreatedAt:   time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "Unknown", c.Status)
	assert.Equal(t, ToneNeutral, c.Tone)
	assert.Equal(t, "free text from an old client", c.Summary)
	assert.Equal(t, "2024-05-06", c.Date)
}

func TestStatusTone(t *testing.T) {
	tests := map[string]Tone{
		"Hot Lead":        ToneHot,
		"URGENT":          ToneHot,
		"Warm Lead":       ToneWarm,
		"In negotiation":  ToneWarm,
		"Closed":          ToneClosed,
		"Won":             ToneClosed,
		"Pending Payment": ToneNeutral,
		"Paid":            ToneClosed,
		"Cold":            ToneCold,
		"junk":            ToneCold,
		"":                ToneNeutral,
		"Unknown":         ToneNeutral,
	}
	for in, want := range tests {
		assert.Equal(t, want, StatusTone(in), in)
	}
}
