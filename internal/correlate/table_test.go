package correlate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/internal/workflow"
)

func newID() gateway.MessageID {
	return gateway.MessageID(uuid.NewString())
}

func TestRecordAndLookup(t *testing.T) {
	tbl := NewTable()
	id := newID()
	tbl.Record(id, Entry{
		Chat:      "41790000000@s.whatsapp.net",
		Kind:      workflow.KindModification,
		Snapshot:  workflow.Form{Page: "Home"},
		CreatedAt: time.Now(),
	})

	e, ok := tbl.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, gateway.ChatID("41790000000@s.whatsapp.net"), e.Chat)
	assert.Equal(t, workflow.KindModification, e.Kind)
	assert.Equal(t, "Home", e.Snapshot.Page)
}

func TestLookupUnknownID(t *testing.T) {
	tbl := NewTable()
	_, ok := tbl.Lookup(newID())
	assert.False(t, ok)
}

func TestLookupDoesNotConsumeEntry(t *testing.T) {
	tbl := NewTable()
	id := newID()
	tbl.Record(id, Entry{Chat: "a", Kind: workflow.KindDelete, CreatedAt: time.Now()})

	for i := 0; i < 3; i++ {
		_, ok := tbl.Lookup(id)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, tbl.Len())
}

func TestRecordOverwritesSameID(t *testing.T) {
	tbl := NewTable()
	id := newID()
	tbl.Record(id, Entry{Chat: "first", Kind: workflow.KindAddJob})
	tbl.Record(id, Entry{Chat: "second", Kind: workflow.KindAddJob})

	e, ok := tbl.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, gateway.ChatID("second"), e.Chat)
	assert.Equal(t, 1, tbl.Len())
}

func TestSweepRespectsTTL(t *testing.T) {
	tbl := NewTable()
	now := time.Now()
	tbl.Record(newID(), Entry{Chat: "old", CreatedAt: now.Add(-8 * 24 * time.Hour)})
	tbl.Record(newID(), Entry{Chat: "fresh", CreatedAt: now.Add(-time.Minute)})

	assert.Equal(t, 1, tbl.Sweep(now, 7*24*time.Hour))
	assert.Equal(t, 1, tbl.Len())

	// TTL zero keeps entries for the process lifetime.
	assert.Zero(t, tbl.Sweep(now, 0))
	assert.Equal(t, 1, tbl.Len())
}
