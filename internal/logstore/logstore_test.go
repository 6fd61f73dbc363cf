package logstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlatch/smartlatch/internal/model"
)

func TestAppendAndList(t *testing.T) {
	store := New()
	now := time.Now().UTC()

	store.Append("LOCK1", model.LogEntry{User: "alice@test.com", Action: "opened", Timestamp: now})
	store.Append("LOCK1", model.LogEntry{User: "bob@test.com", Action: "closed", Timestamp: now.Add(time.Second)})
	store.Append("LOCK2", model.LogEntry{User: "carol@test.com", Action: "opened", Timestamp: now})

	entries := store.ListByCode("LOCK1")
	require.Len(t, entries, 2)
	assert.Equal(t, "opened", entries[0].Action)
	assert.Equal(t, "closed", entries[1].Action)
	assert.Len(t, store.ListByCode("LOCK2"), 1)
}

func TestListUnknownCodeIsEmpty(t *testing.T) {
	store := New()
	entries := store.ListByCode("NOPE")
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestDiscardByCode(t *testing.T) {
	store := New()
	store.Append("LOCK1", model.LogEntry{User: "alice@test.com", Action: "opened", Timestamp: time.Now()})
	store.Append("LOCK2", model.LogEntry{User: "bob@test.com", Action: "opened", Timestamp: time.Now()})

	store.DiscardByCode("LOCK1")

	assert.Empty(t, store.ListByCode("LOCK1"))
	assert.Len(t, store.ListByCode("LOCK2"), 1)

	// discarding again is a no-op
	store.DiscardByCode("LOCK1")
}

func TestListReturnsCopy(t *testing.T) {
	store := New()
	store.Append("LOCK1", model.LogEntry{User: "alice@test.com", Action: "opened", Timestamp: time.Now()})

	entries := store.ListByCode("LOCK1")
	entries[0].Action = "tampered"

	assert.Equal(t, "opened", store.ListByCode("LOCK1")[0].Action)
}
