package domain

import "time"

const (
	UnknownContact = "Unknown Contact"
	UnknownValue   = "Unknown"
)

// Status vocabulary the classifier is asked to pick from. Not enforced on read.
const (
	StatusHot            = "Hot Lead"
	StatusWarm           = "Warm Lead"
	StatusCold           = "Cold"
	StatusClosed         = "Closed"
	StatusPendingPayment = "Pending Payment"
)

var Statuses = []string{StatusHot, StatusWarm, StatusCold, StatusClosed, StatusPendingPayment}

// ScrapeResult is what the content script hands back for one open chat.
// Messages are oldest first and never longer than the extraction window.
type ScrapeResult struct {
	ContactName string   `json:"contactName"`
	Messages    []string `json:"messages"`
}

type LeadAnalysis struct {
	Summary   string `json:"summary"`
	Status    string `json:"status"`
	NextStep  string `json:"next_step"`
	DealValue string `json:"deal_value"`
}

// LeadRecord is one persisted row of the leads table.
type LeadRecord struct {
	ID          int64        `json:"id"`
	ContactName string       `json:"contact_name"`
	Summary     LeadAnalysis `json:"summary"`
	RawSummary  string       `json:"-"`
	Messages    []string     `json:"messages"`
	CreatedAt   time.Time    `json:"created_at"`
}
