package repository

import (
	"context"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProfileRepository(db *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := squirrel.Insert("profiles").
		Columns("user_id", "base_currency", "current_cash", "annual_budget", "monthly_income", "created_at", "updated_at").
		Values(p.UserID, p.BaseCurrency, p.CurrentCash, p.AnnualBudget, p.MonthlyIncome, p.CreatedAt, p.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := squirrel.Select("user_id", "base_currency", "current_cash", "annual_budget", "monthly_income", "created_at", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.UserID, &p.BaseCurrency, &p.CurrentCash, &p.AnnualBudget, &p.MonthlyIncome, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	query := squirrel.Update("profiles").
		Set("base_currency", p.BaseCurrency).
		Set("current_cash", p.CurrentCash).
		Set("annual_budget", p.AnnualBudget).
		Set("monthly_income", p.MonthlyIncome).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"user_id": p.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
