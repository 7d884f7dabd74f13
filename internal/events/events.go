package events

import (
	"encoding/json"
	"time"

	"leadsnap-engine/internal/domain"
)

const (
	TypeLeadCreated = "lead_created"
	TypeSnapState   = "snap_state"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

type LeadCreated struct {
	ID          int64  `json:"id"`
	ContactName string `json:"contact_name"`
	Status      string `json:"status"`
}

func NewLeadCreated(reqID string, r domain.LeadRecord) string {
	return MakeEvent(reqID, TypeLeadCreated, 1, LeadCreated{
		ID:          r.ID,
		ContactName: r.ContactName,
		Status:      r.Summary.Status,
	})
}

func NewSnapState(reqID, state string) string {
	return MakeEvent(reqID, TypeSnapState, 1, map[string]string{"state": state})
}
