package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/saad/internal/db"
	"github.com/alexanderramin/saad/internal/domain"
)

const taskColumns = `id, project_id, code, title, category, description, column_name, squad, dev_done_at, prod_done_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteTaskRepo creates a task repository. uow backs UpsertMany; when nil
// (a repository already scoped to a transaction) the writes go straight to conn.
func NewSQLiteTaskRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn, uow: uow}
}

func (r *SQLiteTaskRepo) Upsert(ctx context.Context, projectID string, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			title = excluded.title,
			category = excluded.category,
			description = excluded.description,
			column_name = excluded.column_name,
			squad = excluded.squad,
			dev_done_at = excluded.dev_done_at,
			prod_done_at = excluded.prod_done_at
		WHERE tasks.project_id = excluded.project_id`
	res, err := r.db.ExecContext(ctx, query,
		t.ID,
		projectID,
		t.Code,
		t.Title,
		t.Category,
		t.Description,
		string(t.Column),
		string(t.Squad),
		nullableTimeToString(t.DevDoneAt),
		nullableTimeToString(t.ProdDoneAt),
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("upserting task %s: %w", t.ID, err)
	}
	// A zero count means the ID is taken by another project's task.
	return affectedOne(res, fmt.Sprintf("upserting task %s into project %s", t.ID, projectID))
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET code = ?, title = ?, category = ?, description = ?,
		column_name = ?, squad = ?, dev_done_at = ?, prod_done_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Code,
		t.Title,
		t.Category,
		t.Description,
		string(t.Column),
		string(t.Squad),
		nullableTimeToString(t.DevDoneAt),
		nullableTimeToString(t.ProdDoneAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return affectedOne(res, "task "+t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return affectedOne(res, "task "+id)
}

func (r *SQLiteTaskRepo) UpsertMany(ctx context.Context, projectID string, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if r.uow == nil {
		return r.upsertAll(ctx, projectID, tasks)
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteTaskRepo(tx, nil).upsertAll(ctx, projectID, tasks)
	})
}

func (r *SQLiteTaskRepo) upsertAll(ctx context.Context, projectID string, tasks []domain.Task) error {
	for i := range tasks {
		if err := r.Upsert(ctx, projectID, &tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	byProject, err := listTasks(ctx, r.db, projectID)
	if err != nil {
		return nil, err
	}
	return byProject[projectID], nil
}

// listTasks loads tasks grouped by project in insertion order. An empty
// projectID loads every project's tasks.
func listTasks(ctx context.Context, conn db.DBTX, projectID string) (map[string][]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY rowid`

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Task)
	for rows.Next() {
		pid, t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out[pid] = append(out[pid], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

func scanTask(row rowScanner) (string, domain.Task, error) {
	var t domain.Task
	var projectID, column, squad string
	var devDone, prodDone sql.NullString

	err := row.Scan(
		&t.ID, &projectID, &t.Code, &t.Title, &t.Category, &t.Description,
		&column, &squad, &devDone, &prodDone,
	)
	if err != nil {
		return "", t, fmt.Errorf("scanning task row: %w", err)
	}
	t.Column = domain.Column(column)
	t.Squad = domain.Squad(squad)
	t.DevDoneAt = parseNullableTime(devDone)
	t.ProdDoneAt = parseNullableTime(prodDone)
	return projectID, t, nil
}
