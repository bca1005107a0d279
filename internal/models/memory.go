package models

import (
	"time"

	"github.com/google/uuid"
)

type MemoryKind string

const (
	MemoryKindTransaction  MemoryKind = "transaction"
	MemoryKindConversation MemoryKind = "conversation"
)

// MemoryEntry is a semantic record derived from a transaction or a
// conversation, retrieved by vector similarity to ground advisor replies.
// Entries are write-once; they are removed only when their source data is.
type MemoryEntry struct {
	ID            uuid.UUID           `db:"id"`
	UserID        uuid.UUID           `db:"user_id"`
	Content       string              `db:"content"`
	Embedding     []float32           `db:"embedding"`
	Kind          MemoryKind          `db:"kind"`
	Category      TransactionCategory `db:"category"`
	TransactionID *uuid.UUID          `db:"transaction_id"`
	CreatedAt     time.Time           `db:"created_at"`

	// Similarity is populated by vector search results only, it is not a column.
	Similarity float64 `db:"-"`
}
