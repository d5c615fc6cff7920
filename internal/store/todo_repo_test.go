package store

import (
	"context"
	"testing"
	"time"

	"github.com/okihara/juiz-mcp/internal/model"
)

func TestTodoRepoCreateAndGet(t *testing.T) {
	repo := NewTodoRepo(testDB(t))
	ctx := context.Background()

	todo := &model.TodoItem{
		UserID:      "alice",
		Title:       "Buy milk",
		Description: "2 liters",
		CreatedAt:   time.Now(),
	}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if todo.ID == "" {
		t.Fatal("Create should assign an ID")
	}
	if todo.Source != model.SourceLocal {
		t.Errorf("Source = %q, want %q", todo.Source, model.SourceLocal)
	}

	got, err := repo.GetByID(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing todo")
	}
	if got.Title != "Buy milk" || got.Description != "2 liters" || got.Completed {
		t.Errorf("unexpected todo: %+v", got)
	}
}

func TestTodoRepoGetScopedByUser(t *testing.T) {
	repo := NewTodoRepo(testDB(t))
	ctx := context.Background()

	todo := &model.TodoItem{UserID: "alice", Title: "private", CreatedAt: time.Now()}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Another user must not see the row; the result is the same as for an
	// absent ID.
	got, err := repo.GetByID(ctx, "bob", 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("bob should not see alice's todo, got %+v", got)
	}

	got, err = repo.GetByID(ctx, "alice", 999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("absent ID should return nil, got %+v", got)
	}
}

func TestTodoRepoListByUserFilters(t *testing.T) {
	repo := NewTodoRepo(testDB(t))
	ctx := context.Background()

	items := []struct {
		title     string
		completed bool
	}{
		{"one", false},
		{"two", true},
		{"three", false},
	}
	for _, it := range items {
		todo := &model.TodoItem{UserID: "alice", Title: it.title, Completed: it.completed, CreatedAt: time.Now()}
		if err := repo.Create(ctx, todo); err != nil {
			t.Fatalf("Create(%s): %v", it.title, err)
		}
	}
	other := &model.TodoItem{UserID: "bob", Title: "not mine", CreatedAt: time.Now()}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		filter string
		want   int
	}{
		{"all", 3},
		{"completed", 1},
		{"active", 2},
	}
	for _, tt := range tests {
		got, err := repo.ListByUser(ctx, "alice", tt.filter)
		if err != nil {
			t.Fatalf("ListByUser(%s): %v", tt.filter, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListByUser(%s) returned %d todos, want %d", tt.filter, len(got), tt.want)
		}
	}
}

func TestTodoRepoSetCompleted(t *testing.T) {
	repo := NewTodoRepo(testDB(t))
	ctx := context.Background()

	todo := &model.TodoItem{UserID: "alice", Title: "task", CreatedAt: time.Now()}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.SetCompleted(ctx, "alice", 1, true)
	if err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	if updated == nil || !updated.Completed {
		t.Errorf("expected completed todo, got %+v", updated)
	}

	// Idempotent: setting the same state again still returns the row.
	updated, err = repo.SetCompleted(ctx, "alice", 1, true)
	if err != nil {
		t.Fatalf("SetCompleted repeat: %v", err)
	}
	if updated == nil || !updated.Completed {
		t.Errorf("repeat update should return the row, got %+v", updated)
	}

	// Cross-user update behaves exactly like an absent row.
	updated, err = repo.SetCompleted(ctx, "bob", 1, false)
	if err != nil {
		t.Fatalf("SetCompleted cross-user: %v", err)
	}
	if updated != nil {
		t.Errorf("bob should not update alice's todo, got %+v", updated)
	}
}
