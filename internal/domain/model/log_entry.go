package model

import (
	"sort"
	"time"
)

// LogEntry is one line from the external append-only log source, scoped to a
// job and optionally to one task name. Entries are immutable; the source
// guarantees no persistent id, so (timestamp, message) is the identity key.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	TaskName  string    `json:"task_name,omitempty"`
}

// Key returns the de-duplication key for an entry. The source provides no
// stable id, so identity is the timestamp plus the message content.
func (e LogEntry) Key() string {
	return e.Timestamp.UTC().Format(time.RFC3339Nano) + "\x00" + e.Message
}

// SortLogEntries orders entries ascending by timestamp, with message as the
// tie-breaker so the order is stable across re-fetches.
func SortLogEntries(entries []LogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Message < entries[j].Message
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// LogQuery describes one fetch against the log source.
type LogQuery struct {
	JobID string
	// TaskName scopes the fetch to lines emitted for one task.
	TaskName string
	// Limit is the page size; ignored when Full is set.
	Limit int
	// Page selects a window counted from the newest entries.
	Page int
	// Before filters to entries strictly older than the given timestamp.
	Before *time.Time
	// Full bypasses pagination and returns the complete set. Used only for export.
	Full bool
}
