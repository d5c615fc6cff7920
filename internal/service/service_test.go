package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	if err := store.RunMigrations(path); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	db, err := store.Open(path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTodoRemote is a scriptable TodoRemote.
type fakeTodoRemote struct {
	listResult   []model.TodoItem
	listErr      error
	getResult    *model.TodoItem
	getErr       error
	insertID     string
	insertErr    error
	patchResult  *model.TodoItem
	patchErr     error
	insertCalled int
}

func (f *fakeTodoRemote) List(ctx context.Context, userID, filter string) ([]model.TodoItem, error) {
	return f.listResult, f.listErr
}

func (f *fakeTodoRemote) Get(ctx context.Context, userID, id string) (*model.TodoItem, error) {
	return f.getResult, f.getErr
}

func (f *fakeTodoRemote) Insert(ctx context.Context, userID, title, description string) (string, error) {
	f.insertCalled++
	return f.insertID, f.insertErr
}

func (f *fakeTodoRemote) Patch(ctx context.Context, userID, id string, completed bool) (*model.TodoItem, error) {
	return f.patchResult, f.patchErr
}

// fakeEventRemote is a scriptable EventRemote.
type fakeEventRemote struct {
	listResult   []model.EventItem
	listErr      error
	getResult    *model.EventItem
	getErr       error
	insertID     string
	insertErr    error
	patchResult  *model.EventItem
	patchErr     error
	insertCalled int
}

func (f *fakeEventRemote) List(ctx context.Context, userID string, timeMin, timeMax *time.Time) ([]model.EventItem, error) {
	return f.listResult, f.listErr
}

func (f *fakeEventRemote) Get(ctx context.Context, userID, id string) (*model.EventItem, error) {
	return f.getResult, f.getErr
}

func (f *fakeEventRemote) Insert(ctx context.Context, event *model.EventItem) (string, error) {
	f.insertCalled++
	return f.insertID, f.insertErr
}

func (f *fakeEventRemote) Patch(ctx context.Context, userID, id string, patch model.EventPatch) (*model.EventItem, error) {
	return f.patchResult, f.patchErr
}
