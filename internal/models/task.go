package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusFailed  TaskStatus = "failed"
)

type TaskKind string

const (
	TaskKindMemoryWrite TaskKind = "memory_write"
)

// Task is an outbox entry for best-effort work that must not block the
// primary write, currently only embedding generation for new transactions.
type Task struct {
	ID            uuid.UUID  `db:"id"`
	UserID        uuid.UUID  `db:"user_id"`
	Kind          TaskKind   `db:"kind"`
	TransactionID *uuid.UUID `db:"transaction_id"`
	Status        TaskStatus `db:"status"`
	Attempts      int        `db:"attempts"`
	LastError     string     `db:"last_error"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}
