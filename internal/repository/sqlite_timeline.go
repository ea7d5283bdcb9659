package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/saad/internal/db"
	"github.com/alexanderramin/saad/internal/domain"
)

const timelineColumns = `project_id, start_date, end_date, total_weeks, current_week, progress_message`

// SQLiteTimelineRepo implements TimelineRepo using a SQLite database.
type SQLiteTimelineRepo struct {
	db db.DBTX
}

// NewSQLiteTimelineRepo creates a new SQLiteTimelineRepo.
func NewSQLiteTimelineRepo(conn db.DBTX) *SQLiteTimelineRepo {
	return &SQLiteTimelineRepo{db: conn}
}

func (r *SQLiteTimelineRepo) Upsert(ctx context.Context, projectID string, tl *domain.Timeline) error {
	if err := tl.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO timelines (` + timelineColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			total_weeks = excluded.total_weeks,
			current_week = excluded.current_week,
			progress_message = excluded.progress_message`
	_, err := r.db.ExecContext(ctx, query,
		projectID, tl.StartDate, tl.EndDate, tl.TotalWeeks, tl.CurrentWeek, tl.ProgressMessage,
	)
	if err != nil {
		return fmt.Errorf("upserting timeline: %w", err)
	}
	return nil
}

func (r *SQLiteTimelineRepo) GetByProject(ctx context.Context, projectID string) (*domain.Timeline, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timelineColumns+` FROM timelines WHERE project_id = ?`, projectID)
	_, tl, err := scanTimeline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("timeline for project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return tl, nil
}

// listTimelines loads timelines keyed by project. An empty projectID loads all.
func listTimelines(ctx context.Context, conn db.DBTX, projectID string) (map[string]*domain.Timeline, error) {
	query := `SELECT ` + timelineColumns + ` FROM timelines`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing timelines: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Timeline)
	for rows.Next() {
		pid, tl, err := scanTimeline(rows)
		if err != nil {
			return nil, err
		}
		out[pid] = tl
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timelines: %w", err)
	}
	return out, nil
}

func scanTimeline(row rowScanner) (string, *domain.Timeline, error) {
	var projectID string
	var tl domain.Timeline
	err := row.Scan(&projectID, &tl.StartDate, &tl.EndDate, &tl.TotalWeeks, &tl.CurrentWeek, &tl.ProgressMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, err
	}
	if err != nil {
		return "", nil, fmt.Errorf("scanning timeline row: %w", err)
	}
	return projectID, &tl, nil
}
