package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/saad/internal/db"
	"github.com/alexanderramin/saad/internal/domain"
)

const messageColumns = `id, project_id, role, content, created_at`

// SQLiteMessageRepo implements MessageRepo using a SQLite database.
type SQLiteMessageRepo struct {
	db db.DBTX
}

// NewSQLiteMessageRepo creates a new SQLiteMessageRepo.
func NewSQLiteMessageRepo(conn db.DBTX) *SQLiteMessageRepo {
	return &SQLiteMessageRepo{db: conn}
}

func (r *SQLiteMessageRepo) Create(ctx context.Context, projectID string, m *domain.ChatMessage) error {
	query := `INSERT INTO chat_messages (` + messageColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, projectID, string(m.Role), m.Content, formatTime(m.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

func (r *SQLiteMessageRepo) ListByProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error) {
	byProject, err := listMessages(ctx, r.db, projectID)
	if err != nil {
		return nil, err
	}
	return byProject[projectID], nil
}

// listMessages loads chat history ordered by timestamp, grouped by project.
// An empty projectID loads every project's history.
func listMessages(ctx context.Context, conn db.DBTX, projectID string) (map[string][]domain.ChatMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.ChatMessage)
	for rows.Next() {
		var m domain.ChatMessage
		var pid, role, createdAt string
		if err := rows.Scan(&m.ID, &pid, &role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat message row: %w", err)
		}
		m.Role = domain.Role(role)
		if m.Timestamp, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing chat message created_at: %w", err)
		}
		out[pid] = append(out[pid], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat messages: %w", err)
	}
	return out, nil
}
