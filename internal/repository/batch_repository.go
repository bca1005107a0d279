package repository

import (
	"context"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BatchRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBatchRepository(db *pgxpool.Pool, logger *zap.Logger) *BatchRepository {
	return &BatchRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BatchRepository) Create(ctx context.Context, batch *models.ImportBatch) error {
	query := squirrel.Insert("import_batches").
		Columns("id", "user_id", "name", "currency", "created_at").
		Values(batch.ID, batch.UserID, batch.Name, batch.Currency, batch.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Delete removes a batch; its transactions go with it through the
// ON DELETE CASCADE foreign key.
func (r *BatchRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("import_batches").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
