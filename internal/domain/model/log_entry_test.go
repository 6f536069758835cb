package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogEntry_Key(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 500, time.UTC)

	a := LogEntry{Timestamp: ts, Message: "compiling"}
	b := LogEntry{Timestamp: ts, Message: "compiling"}
	c := LogEntry{Timestamp: ts, Message: "linking"}
	d := LogEntry{Timestamp: ts.Add(time.Millisecond), Message: "compiling"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, a.Key(), d.Key())
}

func TestSortLogEntries(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []LogEntry{
		{Timestamp: base.Add(2 * time.Second), Message: "third"},
		{Timestamp: base, Message: "first"},
		{Timestamp: base.Add(time.Second), Message: "second"},
	}

	SortLogEntries(entries)

	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, "third", entries[2].Message)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp),
			"entries must be non-decreasing by timestamp")
	}
}

func TestSortLogEntries_TieBreakByMessage(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []LogEntry{
		{Timestamp: ts, Message: "b"},
		{Timestamp: ts, Message: "a"},
	}

	SortLogEntries(entries)

	assert.Equal(t, "a", entries[0].Message)
	assert.Equal(t, "b", entries[1].Message)
}
