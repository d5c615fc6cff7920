package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
)

// CredentialRepo persists per-user Google OAuth token material. The
// google_credentials table holds at most one row per user (user_id is the
// primary key).
type CredentialRepo struct {
	db *sql.DB
}

// NewCredentialRepo creates a CredentialRepo on the given database.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// FindByUserID returns the user's credential, or nil when none exists.
func (r *CredentialRepo) FindByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	var (
		cred   model.Credential
		scopes string
		expiry sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, access_token, refresh_token, token_uri, client_id, client_secret,
		        scopes, expiry, created_at, updated_at
		 FROM google_credentials WHERE user_id = ?`,
		userID,
	).Scan(&cred.UserID, &cred.AccessToken, &cred.RefreshToken, &cred.TokenURI,
		&cred.ClientID, &cred.ClientSecret, &scopes, &expiry, &cred.CreatedAt, &cred.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "loading credentials for user %s", userID)
	}

	if expiry.Valid {
		cred.Expiry = expiry.Time
	}
	if err := json.Unmarshal([]byte(scopes), &cred.Scopes); err != nil {
		return nil, apperr.Wrap(apperr.Database, err, "decoding scopes for user %s", userID)
	}
	return &cred, nil
}

// Upsert inserts or replaces the user's credential. UpdatedAt is always set
// to now; CreatedAt is preserved on update and set only on insert.
func (r *CredentialRepo) Upsert(ctx context.Context, cred *model.Credential) error {
	scopes, err := json.Marshal(cred.Scopes)
	if err != nil {
		return apperr.Wrap(apperr.Database, err, "encoding scopes for user %s", cred.UserID)
	}
	if cred.Scopes == nil {
		scopes = []byte("[]")
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO google_credentials
		   (user_id, access_token, refresh_token, token_uri, client_id, client_secret,
		    scopes, expiry, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   access_token = excluded.access_token,
		   refresh_token = excluded.refresh_token,
		   token_uri = excluded.token_uri,
		   client_id = excluded.client_id,
		   client_secret = excluded.client_secret,
		   scopes = excluded.scopes,
		   expiry = excluded.expiry,
		   updated_at = excluded.updated_at`,
		cred.UserID, cred.AccessToken, cred.RefreshToken, cred.TokenURI,
		cred.ClientID, cred.ClientSecret, string(scopes), nullableTime(cred.Expiry), now, now,
	)
	if err != nil {
		return apperr.Wrap(apperr.Database, err, "saving credentials for user %s", cred.UserID)
	}
	cred.UpdatedAt = now
	return nil
}

// UpdateToken persists a refreshed access token and expiry for the user. A
// non-empty refreshToken replaces the stored one; Google only issues a new
// refresh token occasionally, so an empty value keeps the existing token.
func (r *CredentialRepo) UpdateToken(ctx context.Context, userID, accessToken, refreshToken string, expiry time.Time) error {
	now := time.Now()
	var err error
	if refreshToken == "" {
		_, err = r.db.ExecContext(ctx,
			`UPDATE google_credentials
			 SET access_token = ?, expiry = ?, updated_at = ?
			 WHERE user_id = ?`,
			accessToken, nullableTime(expiry), now, userID,
		)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE google_credentials
			 SET access_token = ?, refresh_token = ?, expiry = ?, updated_at = ?
			 WHERE user_id = ?`,
			accessToken, refreshToken, nullableTime(expiry), now, userID,
		)
	}
	if err != nil {
		return apperr.Wrap(apperr.Database, err, "updating token for user %s", userID)
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
