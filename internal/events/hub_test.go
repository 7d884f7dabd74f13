package events

import (
	"encoding/json"
	"testing"

	"leadsnap-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSubscribe(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	assert.Equal(t, 2, h.Len())

	assert.Equal(t, 2, h.Publish("x"))
	assert.Equal(t, "x", <-a)
	assert.Equal(t, "x", <-b)

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	assert.Equal(t, 1, h.Len())
	_, open := <-a
	assert.False(t, open)
}

func TestHub_DropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 10; i++ {
		require.Equal(t, 1, h.Publish("e"))
	}
	assert.Equal(t, 0, h.Publish("overflow"))
	assert.Len(t, ch, 10)
}

func TestNewLeadCreated(t *testing.T) {
	s := NewLeadCreated("req-1", domain.LeadRecord{
		ID:          7,
		ContactName: "Jane",
		Summary:     domain.LeadAnalysis{Status: "Hot Lead"},
	})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(s), &e))
	assert.Equal(t, TypeLeadCreated, e.Type)
	assert.Equal(t, "req-1", e.RequestID)

	var d LeadCreated
	require.NoError(t, json.Unmarshal(e.Data, &d))
	assert.Equal(t, LeadCreated{ID: 7, ContactName: "Jane", Status: "Hot Lead"}, d)
}
