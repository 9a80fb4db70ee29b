package model

import "time"

const EventSnapshotRunCompleted = "SnapshotRunCompleted"

// RunCompletedEvent is published after a run appended its rows.
type RunCompletedEvent struct {
	Type       string     `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	Summary    RunSummary `json:"summary"`
}
