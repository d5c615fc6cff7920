// Package service orchestrates validation, local persistence, and remote
// mirroring for todos and calendar events. It owns the best-effort sync
// policy: mirror failures on create/list degrade to warnings, while explicit
// remote operations fail the call.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/middleware"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/pkg/validate"
	"github.com/okihara/juiz-mcp/internal/store"
)

// TodoRemote is the provider-side todo surface. Implemented by gtasks.Client.
type TodoRemote interface {
	List(ctx context.Context, userID, filter string) ([]model.TodoItem, error)
	Get(ctx context.Context, userID, id string) (*model.TodoItem, error)
	Insert(ctx context.Context, userID, title, description string) (string, error)
	Patch(ctx context.Context, userID, id string, completed bool) (*model.TodoItem, error)
}

// TodoService implements the todo tool operations.
type TodoService struct {
	repo   *store.TodoRepo
	remote TodoRemote
	logger *slog.Logger
	now    func() time.Time
}

// NewTodoService creates a TodoService.
func NewTodoService(repo *store.TodoRepo, remote TodoRemote, logger *slog.Logger) *TodoService {
	return &TodoService{repo: repo, remote: remote, logger: logger, now: time.Now}
}

// Add validates and persists a new todo, then best-effort mirrors it to
// Google Tasks. A mirror failure is logged and never fails the create.
func (s *TodoService) Add(ctx context.Context, userID, title, description string, syncToGoogle bool) (*model.TodoItem, error) {
	userID, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}
	title, err = validate.Title(title)
	if err != nil {
		return nil, err
	}
	description, err = validate.Description(description)
	if err != nil {
		return nil, err
	}

	todo := &model.TodoItem{
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, err
	}

	if syncToGoogle {
		var taskID string
		err := middleware.WithRetry(ctx, 0, func() error {
			var insertErr error
			taskID, insertErr = s.remote.Insert(ctx, userID, title, description)
			return insertErr
		})
		if err != nil {
			s.logger.Warn("Google Tasks sync failed",
				"user_id", userID, "todo_id", todo.ID, "error", err)
		} else {
			todo.GoogleTaskID = taskID
		}
	}

	return todo, nil
}

// GetAll returns the user's local todos filtered by status, appending the
// remote tasks when includeGoogle is set. A remote failure degrades to
// local-only results.
func (s *TodoService) GetAll(ctx context.Context, userID, filterStatus string, includeGoogle bool) ([]model.TodoItem, error) {
	userID, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}
	filterStatus, err = validate.FilterStatus(filterStatus)
	if err != nil {
		return nil, err
	}

	todos, err := s.repo.ListByUser(ctx, userID, filterStatus)
	if err != nil {
		return nil, err
	}

	if includeGoogle {
		remote, err := s.remote.List(ctx, userID, filterStatus)
		if err != nil {
			s.logger.Warn("Google Tasks fetch failed, returning local todos only",
				"user_id", userID, "error", err)
		} else {
			todos = append(todos, remote...)
		}
	}

	return todos, nil
}

// Get returns one todo, routed by identifier scheme: google_-prefixed IDs go
// to the remote provider, bare numeric IDs to the local repository.
func (s *TodoService) Get(ctx context.Context, userID, todoID string) (*model.TodoItem, error) {
	userID, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}

	if model.IsGoogleID(todoID) {
		return s.remote.Get(ctx, userID, todoID)
	}

	id, err := parseLocalID(todoID)
	if err != nil {
		return nil, err
	}
	todo, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, todoNotFound(todoID, userID)
	}
	return todo, nil
}

// UpdateStatus sets the completion flag, routed by identifier scheme like
// Get. Remote failures here do fail the call.
func (s *TodoService) UpdateStatus(ctx context.Context, userID, todoID string, completed bool) (*model.TodoItem, error) {
	userID, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}

	if model.IsGoogleID(todoID) {
		return s.remote.Patch(ctx, userID, todoID, completed)
	}

	id, err := parseLocalID(todoID)
	if err != nil {
		return nil, err
	}
	todo, err := s.repo.SetCompleted(ctx, userID, id, completed)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, todoNotFound(todoID, userID)
	}
	return todo, nil
}

func parseLocalID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.Validation,
			"invalid ID %q — expected a numeric local ID or a google_-prefixed remote ID", id)
	}
	return n, nil
}

func todoNotFound(todoID, userID string) error {
	return apperr.New(apperr.NotFound, "Todo with ID %s not found for user %s", todoID, userID)
}
