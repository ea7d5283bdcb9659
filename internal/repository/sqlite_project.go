package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/saad/internal/db"
	"github.com/alexanderramin/saad/internal/domain"
)

const projectColumns = `id, name, description, status, insights, created_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

// Create inserts the project row. Children (tasks, timeline, messages) are
// written through their own repositories.
func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	insights, err := encodeInsights(p.Insights)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		string(p.Status),
		insights,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) ListWithChildren(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		projects = append(projects, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	if err := r.attachChildren(ctx, "", projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) GetWithChildren(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, id, []*domain.Project{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// attachChildren fills tasks, timeline and chat history with one query per
// child table. The project rows must already be fully read since a
// single-connection pool cannot serve nested queries.
func (r *SQLiteProjectRepo) attachChildren(ctx context.Context, projectID string, projects []*domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	tasks, err := listTasks(ctx, r.db, projectID)
	if err != nil {
		return err
	}
	timelines, err := listTimelines(ctx, r.db, projectID)
	if err != nil {
		return err
	}
	messages, err := listMessages(ctx, r.db, projectID)
	if err != nil {
		return err
	}
	for _, p := range projects {
		p.Tasks = tasks[p.ID]
		p.Timeline = timelines[p.ID]
		p.ChatHistory = messages[p.ID]
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return affectedOne(res, "project "+id)
}

func (r *SQLiteProjectRepo) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating project status: %w", err)
	}
	return affectedOne(res, "project "+id)
}

func (r *SQLiteProjectRepo) UpdateDetails(ctx context.Context, id, name, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ? WHERE id = ?`, name, description, id)
	if err != nil {
		return fmt.Errorf("updating project details: %w", err)
	}
	return affectedOne(res, "project "+id)
}

func (r *SQLiteProjectRepo) ReplaceInsights(ctx context.Context, id string, insights []string) error {
	encoded, err := encodeInsights(insights)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET insights = ? WHERE id = ?`, encoded, id)
	if err != nil {
		return fmt.Errorf("replacing project insights: %w", err)
	}
	return affectedOne(res, "project "+id)
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var status, insights, createdAt string

	err := row.Scan(&p.ID, &p.Name, &p.Description, &status, &insights, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning project row: %w", err)
	}

	p.Status = domain.ProjectStatus(status)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.Insights, err = decodeInsights(insights); err != nil {
		return nil, err
	}
	return &p, nil
}

// NewSQLiteStore wires every SQLite repository against one database.
func NewSQLiteStore(database *sql.DB) *Store {
	uow := db.NewSQLiteUnitOfWork(database)
	return &Store{
		Projects:  NewSQLiteProjectRepo(database),
		Tasks:     NewSQLiteTaskRepo(database, uow),
		Timelines: NewSQLiteTimelineRepo(database),
		Messages:  NewSQLiteMessageRepo(database),
	}
}
