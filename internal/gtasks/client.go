// Package gtasks is the remote provider client for Google Tasks. It maps
// TODO items to and from the Tasks wire shape and confines every provider
// fault to the apperr taxonomy — nothing escapes this boundary untyped.
package gtasks

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/tasks/v1"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/services"
)

// Task statuses on the Tasks API wire.
const (
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client wraps the Google Tasks API for todo mirroring. All operations work
// against the user's default task list.
type Client struct {
	factory *services.Factory
}

// NewClient creates a Tasks provider client over the given factory.
func NewClient(factory *services.Factory) *Client {
	return &Client{factory: factory}
}

// List returns the user's remote tasks from the default task list, filtered
// by completion status client-side ("all", "completed", or "active").
func (c *Client) List(ctx context.Context, userID, filter string) ([]model.TodoItem, error) {
	srv, err := c.factory.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	listID, err := defaultTaskList(ctx, srv)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		return nil, nil
	}

	result, err := srv.Tasks.List(listID).ShowCompleted(true).ShowHidden(true).Context(ctx).Do()
	if err != nil {
		return nil, wrapErr(err, "listing Google Tasks for user %s", userID)
	}

	var todos []model.TodoItem
	for _, t := range result.Items {
		completed := t.Status == statusCompleted
		if filter == "completed" && !completed {
			continue
		}
		if filter == "active" && completed {
			continue
		}
		todos = append(todos, toTodoItem(t, userID))
	}
	return todos, nil
}

// Get retrieves one remote task by its google_-prefixed identifier.
func (c *Client) Get(ctx context.Context, userID, id string) (*model.TodoItem, error) {
	srv, err := c.factory.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	listID, err := defaultTaskList(ctx, srv)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		return nil, notFound(id, userID)
	}

	task, err := srv.Tasks.Get(listID, model.StripGoogleID(id)).Context(ctx).Do()
	if err != nil {
		if isStatus(err, 404) {
			return nil, notFound(id, userID)
		}
		return nil, wrapErr(err, "getting Google Task %s for user %s", id, userID)
	}

	todo := toTodoItem(task, userID)
	return &todo, nil
}

// Insert mirrors a new todo into the default task list and returns the
// provider's native task ID.
func (c *Client) Insert(ctx context.Context, userID, title, description string) (string, error) {
	srv, err := c.factory.Tasks(ctx, userID)
	if err != nil {
		return "", err
	}

	listID, err := defaultTaskList(ctx, srv)
	if err != nil {
		return "", err
	}
	if listID == "" {
		return "", apperr.New(apperr.RemoteProvider,
			"user %s has no Google task list to mirror into", userID)
	}

	created, err := srv.Tasks.Insert(listID, &tasks.Task{
		Title: title,
		Notes: description,
	}).Context(ctx).Do()
	if err != nil {
		return "", wrapErr(err, "inserting Google Task for user %s", userID)
	}
	return created.Id, nil
}

// Patch updates the completion status of a remote task and returns the
// updated item.
func (c *Client) Patch(ctx context.Context, userID, id string, completed bool) (*model.TodoItem, error) {
	srv, err := c.factory.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	listID, err := defaultTaskList(ctx, srv)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		return nil, notFound(id, userID)
	}

	status := statusNeedsAction
	if completed {
		status = statusCompleted
	}

	updated, err := srv.Tasks.Patch(listID, model.StripGoogleID(id), &tasks.Task{
		Status: status,
	}).Context(ctx).Do()
	if err != nil {
		if isStatus(err, 404) {
			return nil, notFound(id, userID)
		}
		return nil, wrapErr(err, "patching Google Task %s for user %s", id, userID)
	}

	todo := toTodoItem(updated, userID)
	return &todo, nil
}

// defaultTaskList returns the ID of the user's first task list, or "" when
// the user has none.
func defaultTaskList(ctx context.Context, srv *tasks.Service) (string, error) {
	lists, err := srv.Tasklists.List().MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", wrapErr(err, "listing Google task lists")
	}
	if len(lists.Items) == 0 {
		return "", nil
	}
	return lists.Items[0].Id, nil
}

// toTodoItem maps a wire task to the local entity shape. Remote items carry
// the google_ prefix and are never persisted.
func toTodoItem(t *tasks.Task, userID string) model.TodoItem {
	todo := model.TodoItem{
		ID:           model.GoogleIDPrefix + t.Id,
		UserID:       userID,
		Title:        t.Title,
		Description:  t.Notes,
		Completed:    t.Status == statusCompleted,
		Source:       model.SourceGoogleTasks,
		GoogleTaskID: t.Id,
	}
	if t.Updated != "" {
		if ts, err := time.Parse(time.RFC3339, t.Updated); err == nil {
			todo.CreatedAt = ts
		}
	}
	return todo
}

func notFound(id, userID string) error {
	return apperr.New(apperr.NotFound, "Todo with ID %s not found for user %s", id, userID)
}

func isStatus(err error, code int) bool {
	var googleErr *googleapi.Error
	return errors.As(err, &googleErr) && googleErr.Code == code
}

func wrapErr(err error, format string, args ...any) error {
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		if googleErr.Code == 401 {
			return apperr.Wrap(apperr.AuthRequired, err, "Google Tasks rejected the access token")
		}
		return apperr.Remote(googleErr.Code, googleErr.Message, err, format, args...)
	}
	return apperr.Remote(0, "", err, format, args...)
}
