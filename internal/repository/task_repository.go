package repository

import (
	"context"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TaskRepository) Enqueue(ctx context.Context, task *models.Task) error {
	query := squirrel.Insert("tasks").
		Columns("id", "user_id", "kind", "transaction_id", "status", "attempts", "last_error", "created_at", "updated_at").
		Values(task.ID, task.UserID, task.Kind, task.TransactionID, task.Status, task.Attempts, task.LastError, task.CreatedAt, task.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListPending returns pending tasks oldest first, capped at limit.
func (r *TaskRepository) ListPending(ctx context.Context, limit int) ([]*models.Task, error) {
	query := squirrel.Select("id", "user_id", "kind", "transaction_id", "status", "attempts", "last_error", "created_at", "updated_at").
		From("tasks").
		Where(squirrel.Eq{"status": models.TaskStatusPending}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
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

	var tasks []*models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Kind, &task.TransactionID, &task.Status,
			&task.Attempts, &task.LastError, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, models.TaskStatusDone, "")
}

// MarkFailed bumps the attempt counter and either requeues the task or,
// past maxAttempts, parks it as failed.
func (r *TaskRepository) MarkFailed(ctx context.Context, task *models.Task, cause string, maxAttempts int) error {
	status := models.TaskStatusPending
	if task.Attempts+1 >= maxAttempts {
		status = models.TaskStatusFailed
	}

	query := squirrel.Update("tasks").
		Set("status", status).
		Set("attempts", task.Attempts+1).
		Set("last_error", cause).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": task.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TaskRepository) setStatus(ctx context.Context, id uuid.UUID, status models.TaskStatus, lastError string) error {
	query := squirrel.Update("tasks").
		Set("status", status).
		Set("last_error", lastError).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
