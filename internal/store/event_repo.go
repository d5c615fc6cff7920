package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
)

// EventRepo persists local calendar events with the same (id, user_id)
// ownership scoping as TodoRepo.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo creates an EventRepo on the given database.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create inserts a new event and assigns its local ID and source tag.
func (r *EventRepo) Create(ctx context.Context, event *model.EventItem) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (user_id, title, description, start_time, end_time, location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.UserID, event.Title, event.Description,
		event.StartTime.UTC(), event.EndTime.UTC(), event.Location, event.CreatedAt.UTC(),
	)
	if err != nil {
		return apperr.Wrap(apperr.Database, err, "inserting event")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Wrap(apperr.Database, err, "reading inserted event ID")
	}
	event.ID = strconv.FormatInt(id, 10)
	event.Source = model.SourceLocal
	return nil
}

// GetByID returns the event with the given ID owned by userID, or nil when
// no such row exists for that user.
func (r *EventRepo) GetByID(ctx context.Context, userID string, id int64) (*model.EventItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, start_time, end_time, location, created_at
		 FROM events WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	return scanEvent(row)
}

// ListByUser returns the user's events ordered by start time, optionally
// bounded: events starting at or after start, ending at or before end.
func (r *EventRepo) ListByUser(ctx context.Context, userID string, start, end *time.Time) ([]model.EventItem, error) {
	query := `SELECT id, user_id, title, description, start_time, end_time, location, created_at
	          FROM events WHERE user_id = ?`
	args := []any{userID}
	// Timestamps are stored in UTC so the text comparison below is
	// chronological.
	if start != nil {
		query += ` AND start_time >= ?`
		args = append(args, start.UTC())
	}
	if end != nil {
		query += ` AND end_time <= ?`
		args = append(args, end.UTC())
	}
	query += ` ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "listing events")
	}
	defer rows.Close()

	var events []model.EventItem
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "listing events")
	}
	return events, nil
}

func scanEvent(row rowScanner) (*model.EventItem, error) {
	var (
		event       model.EventItem
		id          int64
		description sql.NullString
		location    sql.NullString
	)
	err := row.Scan(&id, &event.UserID, &event.Title, &description,
		&event.StartTime, &event.EndTime, &location, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "scanning event row")
	}
	event.ID = strconv.FormatInt(id, 10)
	event.Description = description.String
	event.Location = location.String
	event.Source = model.SourceLocal
	return &event, nil
}
