package repository

import (
	"context"
	"strconv"
	"strings"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MemoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMemoryRepository(db *pgxpool.Pool, logger *zap.Logger) *MemoryRepository {
	return &MemoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, entry *models.MemoryEntry) error {
	embedding := squirrel.Expr("?::vector", vectorLiteral(entry.Embedding))

	query := squirrel.Insert("financial_memory").
		Columns("id", "user_id", "content", "embedding", "kind", "category", "transaction_id", "created_at").
		Values(entry.ID, entry.UserID, entry.Content, embedding, entry.Kind, entry.Category, entry.TransactionID, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// SearchSimilar returns the user's memory entries ranked by cosine
// similarity to the query embedding, keeping only entries at or above the
// threshold. Uses the pgvector <=> cosine distance operator.
func (r *MemoryRepository) SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, topK int, threshold float64) ([]*models.MemoryEntry, error) {
	queryVec := vectorLiteral(embedding)

	query := squirrel.Select("id", "user_id", "content", "kind", "category", "transaction_id", "created_at").
		Column(squirrel.Alias(squirrel.Expr("1 - (embedding <=> ?::vector)", queryVec), "similarity")).
		From("financial_memory").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Expr("1 - (embedding <=> ?::vector) >= ?", queryVec, threshold)).
		OrderBy("similarity DESC").
		Limit(uint64(topK)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.MemoryEntry
	for rows.Next() {
		var entry models.MemoryEntry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Content, &entry.Kind, &entry.Category,
			&entry.TransactionID, &entry.CreatedAt, &entry.Similarity,
		); err != nil {
			return nil, err
		}
		results = append(results, &entry)
	}

	return results, rows.Err()
}

// vectorLiteral renders an embedding in pgvector's input format, e.g.
// "[0.1,0.2,0.3]". Passing the slice directly would make pgx fall back to
// Postgres array encoding ("{...}"), which vector_in rejects, so the value is
// sent as text and cast with ::vector.
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
