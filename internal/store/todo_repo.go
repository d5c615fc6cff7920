package store

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
)

// TodoRepo persists local TODO items. Every read and update is scoped by
// (id, user_id) so a row owned by another user is indistinguishable from an
// absent one.
type TodoRepo struct {
	db *sql.DB
}

// NewTodoRepo creates a TodoRepo on the given database.
func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{db: db}
}

// Create inserts a new todo and assigns its local ID and source tag.
func (r *TodoRepo) Create(ctx context.Context, todo *model.TodoItem) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (user_id, title, description, completed, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		todo.UserID, todo.Title, todo.Description, todo.Completed, todo.CreatedAt,
	)
	if err != nil {
		return apperr.Wrap(apperr.Database, err, "inserting todo")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Wrap(apperr.Database, err, "reading inserted todo ID")
	}
	todo.ID = strconv.FormatInt(id, 10)
	todo.Source = model.SourceLocal
	return nil
}

// GetByID returns the todo with the given ID owned by userID, or nil when
// no such row exists for that user.
func (r *TodoRepo) GetByID(ctx context.Context, userID string, id int64) (*model.TodoItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, completed, created_at
		 FROM todos WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	return scanTodo(row)
}

// ListByUser returns the user's todos, optionally filtered by completion
// status ("all", "completed", or "active").
func (r *TodoRepo) ListByUser(ctx context.Context, userID, filter string) ([]model.TodoItem, error) {
	query := `SELECT id, user_id, title, description, completed, created_at
	          FROM todos WHERE user_id = ?`
	switch filter {
	case "completed":
		query += ` AND completed = 1`
	case "active":
		query += ` AND completed = 0`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "listing todos")
	}
	defer rows.Close()

	var todos []model.TodoItem
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "listing todos")
	}
	return todos, nil
}

// SetCompleted updates the completion flag of the user's todo and returns
// the updated row, or nil when no such row exists for that user.
func (r *TodoRepo) SetCompleted(ctx context.Context, userID string, id int64, completed bool) (*model.TodoItem, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET completed = ? WHERE id = ? AND user_id = ?`,
		completed, id, userID,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "updating todo status")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "updating todo status")
	}
	if affected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, userID, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*model.TodoItem, error) {
	var (
		todo        model.TodoItem
		id          int64
		description sql.NullString
	)
	err := row.Scan(&id, &todo.UserID, &todo.Title, &description, &todo.Completed, &todo.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "scanning todo row")
	}
	todo.ID = strconv.FormatInt(id, 10)
	todo.Description = description.String
	todo.Source = model.SourceLocal
	return &todo, nil
}
