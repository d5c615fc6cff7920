package store

import (
	"context"
	"testing"
	"time"

	"github.com/okihara/juiz-mcp/internal/model"
)

func testCredential(userID string) *model.Credential {
	return &model.Credential{
		UserID:       userID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes: []string{
			"https://www.googleapis.com/auth/tasks",
			"https://www.googleapis.com/auth/calendar",
		},
		Expiry: time.Now().Add(time.Hour),
	}
}

func TestCredentialRepoFindMissing(t *testing.T) {
	repo := NewCredentialRepo(testDB(t))

	got, err := repo.FindByUserID(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing credential, got %+v", got)
	}
}

func TestCredentialRepoUpsertAndFind(t *testing.T) {
	repo := NewCredentialRepo(testDB(t))
	ctx := context.Background()

	cred := testCredential("alice")
	if err := repo.Upsert(ctx, cred); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.FindByUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if got == nil {
		t.Fatal("FindByUserID returned nil after Upsert")
	}
	if got.AccessToken != "access-1" || got.RefreshToken != "refresh-1" {
		t.Errorf("unexpected tokens: %+v", got)
	}
	if len(got.Scopes) != 2 {
		t.Errorf("expected 2 scopes, got %v", got.Scopes)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on insert")
	}
}

func TestCredentialRepoUpsertReplacesToken(t *testing.T) {
	repo := NewCredentialRepo(testDB(t))
	ctx := context.Background()

	cred := testCredential("alice")
	if err := repo.Upsert(ctx, cred); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	first, err := repo.FindByUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}

	cred.AccessToken = "access-2"
	if err := repo.Upsert(ctx, cred); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := repo.FindByUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if got.AccessToken != "access-2" {
		t.Errorf("AccessToken = %q, want access-2", got.AccessToken)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", first.CreatedAt, got.CreatedAt)
	}
}

func TestCredentialRepoUpdateToken(t *testing.T) {
	repo := NewCredentialRepo(testDB(t))
	ctx := context.Background()

	cred := testCredential("alice")
	if err := repo.Upsert(ctx, cred); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	newExpiry := time.Now().Add(2 * time.Hour).UTC()
	if err := repo.UpdateToken(ctx, "alice", "refreshed-token", "", newExpiry); err != nil {
		t.Fatalf("UpdateToken: %v", err)
	}

	got, err := repo.FindByUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if got.AccessToken != "refreshed-token" {
		t.Errorf("AccessToken = %q, want refreshed-token", got.AccessToken)
	}
	if got.RefreshToken != "refresh-1" {
		t.Errorf("RefreshToken should be untouched, got %q", got.RefreshToken)
	}
	if !got.Expiry.Equal(newExpiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, newExpiry)
	}
}

func TestCredentialRepoUpdateTokenRotatesRefreshToken(t *testing.T) {
	repo := NewCredentialRepo(testDB(t))
	ctx := context.Background()

	cred := testCredential("alice")
	if err := repo.Upsert(ctx, cred); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	newExpiry := time.Now().Add(2 * time.Hour).UTC()
	if err := repo.UpdateToken(ctx, "alice", "refreshed-token", "refresh-2", newExpiry); err != nil {
		t.Fatalf("UpdateToken: %v", err)
	}

	got, err := repo.FindByUserID(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if got.RefreshToken != "refresh-2" {
		t.Errorf("RefreshToken = %q, want refresh-2", got.RefreshToken)
	}
	if got.AccessToken != "refreshed-token" {
		t.Errorf("AccessToken = %q, want refreshed-token", got.AccessToken)
	}
}
