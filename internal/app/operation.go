package app

import "time"

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation tracks a CLI operation. Operations live in memory; only commands
// that mutate the catalog persist them as run records.
type Operation struct {
	ID         string // UUID, also tags every log line
	Name       string
	Parameters string
	StartedAt  time.Time
	Status     string // "success" or "error" once finished
	persisted  bool
}

// NewOperation creates a new in-memory operation that will finish as a success
// unless Fail is called.
func NewOperation(id, name string, startedAt time.Time) *Operation {
	return &Operation{
		ID:        id,
		Name:      name,
		StartedAt: startedAt,
		Status:    StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.persisted
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = StatusError
}
