package models

import (
	"time"

	"github.com/google/uuid"
)

// ImportBatch groups the transactions created from one uploaded statement.
// Deleting a batch cascades to its transactions.
type ImportBatch struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Currency  string    `db:"currency"`
	CreatedAt time.Time `db:"created_at"`
}
