package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO activity_log (
			project_id, form_id, activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.ProjectID,
		entry.FormID,
		entry.ActivityType,
		entry.Summary,
		entry.Details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT
			id, project_id, form_id, activity_type, summary, details, created_at
		FROM activity_log
	`

	args := []any{}
	conditions := []string{}

	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.FormID != nil {
		conditions = append(conditions, "form_id = ?")
		args = append(args, *opts.FormID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var entry activity.ActivityEntry
		var formID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.ProjectID,
			&formID,
			&entry.ActivityType,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if formID.Valid {
			entry.FormID = &formID.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return strings.Join(conditions, " AND ")
}
