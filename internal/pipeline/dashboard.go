package pipeline

import (
	"context"
	"fmt"

	"leadsnap-engine/internal/domain"

	"go.uber.org/zap"
)

const (
	DashboardTitle = "Total Pipeline"
	LoadingText    = "Loading Pipeline..."
)

type LeadReader interface {
	List(ctx context.Context) ([]domain.LeadRecord, error)
}

type DashboardView struct {
	Title    string     `json:"title"`
	Headline string     `json:"headline"`
	Count    int        `json:"count"`
	Leads    []LeadCard `json:"leads"`
}

type Dashboard struct {
	leads LeadReader
	log   *zap.Logger
}

func NewDashboard(leads LeadReader, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{leads: leads, log: log}
}

// Load reads every lead, newest first. A failed read is logged and shows as
// an empty pipeline.
func (d *Dashboard) Load(ctx context.Context) DashboardView {
	recs, err := d.leads.List(ctx)
	if err != nil {
		d.log.Error("error fetching leads", zap.Error(err))
		recs = nil
	}

	cards := make([]LeadCard, 0, len(recs))
	for _, r := range recs {
		cards = append(cards, CardFromRecord(r))
	}
	return DashboardView{
		Title:    DashboardTitle,
		Headline: fmt.Sprintf("~ %d Active Leads", len(cards)),
		Count:    len(cards),
		Leads:    cards,
	}
}
