package repository

import (
	"context"
	"time"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "user_id", "date", "description", "category", "type", "scope",
	"original_amount", "original_currency", "exchange_rate", "amount_usd",
	"import_batch_id", "created_at", "updated_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a transaction with conflict-ignore semantics on the
// composite dedup key (user_id, date, description, original_amount, type).
// It returns false when the row was silently dropped as a duplicate. This is
// the authoritative consistency guarantee against double-importing the same
// statement; consistency is pushed down to Postgres upsert atomicity.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) (bool, error) {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(tx.ID, tx.UserID, tx.Date, tx.Description, tx.Category, tx.Type, tx.Scope,
			tx.OriginalAmount, tx.OriginalCurrency, tx.ExchangeRate, tx.AmountUSD,
			tx.ImportBatchID, tx.CreatedAt, tx.UpdatedAt).
		Suffix("ON CONFLICT (user_id, date, description, original_amount, type) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Category, &tx.Type, &tx.Scope,
		&tx.OriginalAmount, &tx.OriginalCurrency, &tx.ExchangeRate, &tx.AmountUSD,
		&tx.ImportBatchID, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

// ListByUser returns the user's transactions, newest first. A zero time
// bound is ignored.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC, created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if !from.IsZero() {
		query = query.Where(squirrel.GtOrEq{"date": from})
	}
	if !to.IsZero() {
		query = query.Where(squirrel.LtOrEq{"date": to})
	}

	return r.queryTransactions(ctx, query)
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("date", tx.Date).
		Set("description", tx.Description).
		Set("category", tx.Category).
		Set("type", tx.Type).
		Set("scope", tx.Scope).
		Set("original_amount", tx.OriginalAmount).
		Set("original_currency", tx.OriginalCurrency).
		Set("exchange_rate", tx.ExchangeRate).
		Set("amount_usd", tx.AmountUSD).
		Set("updated_at", tx.UpdatedAt).
		Where(squirrel.Eq{"id": tx.ID, "user_id": tx.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Category, &tx.Type, &tx.Scope,
			&tx.OriginalAmount, &tx.OriginalCurrency, &tx.ExchangeRate, &tx.AmountUSD,
			&tx.ImportBatchID, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}
