package pipeline

import (
	"encoding/json"
	"strings"

	"leadsnap-engine/internal/domain"
)

type Tone string

const (
	ToneHot     Tone = "hot"
	ToneWarm    Tone = "warm"
	ToneClosed  Tone = "closed"
	ToneCold    Tone = "cold"
	ToneNeutral Tone = "neutral"
)

// StatusTone maps a free-form status to a display colour family.
func StatusTone(status string) Tone {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "hot"), strings.Contains(s, "urgent"):
		return ToneHot
	case strings.Contains(s, "warm"), strings.Contains(s, "negotiation"):
		return ToneWarm
	case strings.Contains(s, "closed"), strings.Contains(s, "won"), strings.Contains(s, "paid"):
		return ToneClosed
	case strings.Contains(s, "cold"), strings.Contains(s, "junk"):
		return ToneCold
	default:
		return ToneNeutral
	}
}

// LeadCard is the display shape of one lead, for both the snap result and
// the dashboard list. DealValue is empty when it should not be shown.
type LeadCard struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Tone      Tone   `json:"tone"`
	Summary   string `json:"summary"`
	NextStep  string `json:"next_step,omitempty"`
	DealValue string `json:"deal_value,omitempty"`
	Date      string `json:"date,omitempty"`
}

const dateLayout = "2006-01-02"

func visibleDeal(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == domain.UnknownValue {
		return ""
	}
	return v
}

// NewSnapCard builds the card shown right after a snap.
func NewSnapCard(r domain.LeadRecord) LeadCard {
	return LeadCard{
		ID:        r.ID,
		Name:      r.ContactName,
		Status:    r.Summary.Status,
		Tone:      StatusTone(r.Summary.Status),
		Summary:   r.Summary.Summary,
		NextStep:  r.Summary.NextStep,
		DealValue: visibleDeal(r.Summary.DealValue),
		Date:      dateOf(r),
	}
}

// CardFromRecord builds a dashboard card from a stored row. A row whose
// summary could not be read still renders, with "Unknown" status and the
// stored text as its summary.
func CardFromRecord(r domain.LeadRecord) LeadCard {
	status := strings.TrimSpace(r.Summary.Status)
	if status == "" {
		status = domain.UnknownValue
	}
	text := r.Summary.Summary
	if text == "" {
		text = r.RawSummary
	}
	if text == "" {
		b, _ := json.Marshal(r.Summary)
		text = string(b)
	}
	return LeadCard{
		ID:        r.ID,
		Name:      r.ContactName,
		Status:    status,
		Tone:      StatusTone(status),
		Summary:   text,
		NextStep:  r.Summary.NextStep,
		DealValue: visibleDeal(r.Summary.DealValue),
		Date:      dateOf(r),
	}
}

func dateOf(r domain.LeadRecord) string {
	if r.CreatedAt.IsZero() {
		return ""
	}
	return r.CreatedAt.UTC().Format(dateLayout)
}
