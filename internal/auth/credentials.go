// Package auth manages per-user Google OAuth credentials: the database-backed
// credential store with transparent refresh, and the OAuth flow itself.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/store"
)

// CredentialStore loads and saves token material, refreshing expired access
// tokens as a side effect of Get. It is the only component that mutates
// token fields.
type CredentialStore struct {
	repo *store.CredentialRepo
	now  func() time.Time

	mu     sync.Mutex
	userMu map[string]*sync.Mutex
}

// NewCredentialStore creates a CredentialStore over the given repository.
func NewCredentialStore(repo *store.CredentialRepo) *CredentialStore {
	return &CredentialStore{
		repo:   repo,
		now:    time.Now,
		userMu: make(map[string]*sync.Mutex),
	}
}

// Get loads the user's credential, refreshing the access token against the
// token endpoint when it has expired and a refresh token is available. The
// refreshed token is persisted before it is returned, so concurrent readers
// converge on the latest valid token.
func (s *CredentialStore) Get(ctx context.Context, userID string) (*model.Credential, error) {
	cred, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, apperr.New(apperr.AuthRequired,
			"no Google credentials found for user %s", userID)
	}

	if !cred.Expired(s.now()) || cred.RefreshToken == "" {
		return cred, nil
	}

	// Serialize refreshes per user so two expired-token reads don't both
	// hit the token endpoint.
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read after acquiring the lock: another call may have refreshed
	// while we waited.
	cred, err = s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, apperr.New(apperr.AuthRequired,
			"no Google credentials found for user %s", userID)
	}
	if !cred.Expired(s.now()) {
		return cred, nil
	}

	return s.refresh(ctx, cred)
}

// Save upserts the user's credential from a freshly exchanged token.
func (s *CredentialStore) Save(ctx context.Context, cred *model.Credential) error {
	return s.repo.Upsert(ctx, cred)
}

// Status returns the stored credential without triggering a refresh, or nil
// when the user has none. Used by check_credentials.
func (s *CredentialStore) Status(ctx context.Context, userID string) (*model.Credential, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// refresh exchanges the refresh token at the credential's token endpoint and
// persists the new access token and expiry. An invalid or revoked refresh
// token surfaces as AuthRequired; transport faults stay I/O errors so the
// caller doesn't prompt a needless re-authentication.
func (s *CredentialStore) refresh(ctx context.Context, cred *model.Credential) (*model.Credential, error) {
	cfg := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: cred.TokenURI},
	}

	token, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && refreshIrrecoverable(retrieveErr) {
			return nil, apperr.Wrap(apperr.AuthRequired, err,
				"refresh token for user %s is invalid or revoked", cred.UserID)
		}
		return nil, apperr.Remote(0, "", err,
			"refreshing token for user %s", cred.UserID)
	}

	// Google occasionally rotates the refresh token; persist the
	// replacement or the old one stops working after the next restart.
	rotated := ""
	if token.RefreshToken != "" && token.RefreshToken != cred.RefreshToken {
		rotated = token.RefreshToken
	}
	if err := s.repo.UpdateToken(ctx, cred.UserID, token.AccessToken, rotated, token.Expiry); err != nil {
		return nil, err
	}

	slog.Debug("refreshed access token", "user_id", cred.UserID, "expiry", token.Expiry)

	cred.AccessToken = token.AccessToken
	cred.Expiry = token.Expiry
	if rotated != "" {
		cred.RefreshToken = rotated
	}
	return cred, nil
}

// refreshIrrecoverable reports whether the token endpoint rejected the
// refresh token itself, as opposed to a transient failure.
func refreshIrrecoverable(err *oauth2.RetrieveError) bool {
	if err.ErrorCode == "invalid_grant" || err.ErrorCode == "invalid_client" {
		return true
	}
	return err.Response != nil && err.Response.StatusCode == 400 && err.ErrorCode != ""
}

func (s *CredentialStore) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userMu[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userMu[userID] = lock
	}
	return lock
}
