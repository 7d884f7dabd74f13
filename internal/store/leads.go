package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadsnap-engine/internal/domain"
)

// created_at is stored as fixed-width UTC text so lexical order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var ErrBadSummary = errors.New("summary is not a JSON object")

type LeadInsert struct {
	ContactName string
	Summary     domain.LeadAnalysis
	Messages    []string
}

// InsertLead writes one lead. created_at is assigned here, never by the caller.
func InsertLead(ctx context.Context, db *sql.DB, in LeadInsert) (domain.LeadRecord, error) {
	msgs := in.Messages
	if msgs == nil {
		msgs = []string{}
	}
	summaryB, err := json.Marshal(in.Summary)
	if err != nil {
		return domain.LeadRecord{}, err
	}
	msgsB, err := json.Marshal(msgs)
	if err != nil {
		return domain.LeadRecord{}, err
	}

	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `
INSERT INTO leads(contact_name, summary, messages, created_at)
VALUES(?,?,?,?);`,
		in.ContactName, string(summaryB), string(msgsB), now.Format(timeLayout))
	if err != nil {
		return domain.LeadRecord{}, fmt.Errorf("insert lead: %w", err)
	}
	id, _ := res.LastInsertId()

	return domain.LeadRecord{
		ID:          id,
		ContactName: in.ContactName,
		Summary:     in.Summary,
		RawSummary:  string(summaryB),
		Messages:    msgs,
		CreatedAt:   now,
	}, nil
}

// ListLeads returns every lead, newest first.
func ListLeads(ctx context.Context, db *sql.DB) ([]domain.LeadRecord, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, contact_name, summary, messages, created_at
FROM leads
ORDER BY created_at DESC, id DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	out := []domain.LeadRecord{}
	for rows.Next() {
		var (
			r         domain.LeadRecord
			summary   string
			messages  string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.ContactName, &summary, &messages, &createdAt); err != nil {
			return nil, err
		}
		r.RawSummary = summary
		// a row with an unreadable summary still lists; the card falls back to RawSummary
		r.Summary, _ = ParseSummary(summary)
		_ = json.Unmarshal([]byte(messages), &r.Messages)
		if r.Messages == nil {
			r.Messages = []string{}
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseSummary reads a stored summary that is either a JSON object or a JSON
// string holding a serialized object. Absent fields stay empty and non-string
// values are kept as text, so one odd field does not hide the others.
func ParseSummary(raw string) (domain.LeadAnalysis, error) {
	var a domain.LeadAnalysis
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return a, ErrBadSummary
	}
	if strings.HasPrefix(raw, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return a, fmt.Errorf("%w: %v", ErrBadSummary, err)
		}
		raw = strings.TrimSpace(inner)
	}
	if !strings.HasPrefix(raw, "{") {
		return a, ErrBadSummary
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return a, fmt.Errorf("%w: %v", ErrBadSummary, err)
	}
	return domain.AnalysisFromMap(m, a), nil
}

// Leads binds the lead queries to one database.
type Leads struct {
	DB *sql.DB
}

func (l Leads) Insert(ctx context.Context, in LeadInsert) (domain.LeadRecord, error) {
	return InsertLead(ctx, l.DB, in)
}

func (l Leads) List(ctx context.Context) ([]domain.LeadRecord, error) {
	return ListLeads(ctx, l.DB)
}
