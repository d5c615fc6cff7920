package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
)

// OOBRedirectURI is the out-of-band redirect used when the caller has no
// reachable callback endpoint; the user pastes the code into complete_oauth.
const OOBRedirectURI = "urn:ietf:wg:oauth:2.0:oob"

// pendingFlowTTL bounds how long a started flow waits for its callback.
const pendingFlowTTL = 10 * time.Minute

// pendingFlow records an in-progress OAuth flow between start_oauth and the
// HTTP callback, keyed by the state nonce.
type pendingFlow struct {
	userID  string
	config  *oauth2.Config
	started time.Time
}

// OAuthManager runs the OAuth 2.0 authorization-code flow. Client ID and
// secret arrive per call rather than from server config, so each user can
// connect their own OAuth client.
type OAuthManager struct {
	creds *CredentialStore

	mu      sync.Mutex
	pending map[string]pendingFlow
}

// NewOAuthManager creates an OAuth manager persisting into the given
// credential store.
func NewOAuthManager(creds *CredentialStore) *OAuthManager {
	return &OAuthManager{
		creds:   creds,
		pending: make(map[string]pendingFlow),
	}
}

func flowConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	if redirectURI == "" {
		redirectURI = OOBRedirectURI
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}
}

// StartFlow registers a pending flow and returns the authorization URL the
// user must visit. The state nonce ties the eventual callback back to the
// user; offline access and forced consent ensure a refresh token is granted.
func (m *OAuthManager) StartFlow(userID, clientID, clientSecret, redirectURI string) (string, error) {
	if clientID == "" || clientSecret == "" {
		return "", apperr.New(apperr.Validation, "client_id and client_secret are required")
	}

	cfg := flowConfig(clientID, clientSecret, redirectURI)
	state := uuid.NewString()

	m.mu.Lock()
	m.evictExpiredLocked()
	m.pending[state] = pendingFlow{userID: userID, config: cfg, started: time.Now()}
	m.mu.Unlock()

	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// CompleteFlow exchanges an authorization code supplied directly by the
// caller (the OOB path) and persists the resulting credential.
func (m *OAuthManager) CompleteFlow(ctx context.Context, userID, clientID, clientSecret, authCode, redirectURI string) error {
	cfg := flowConfig(clientID, clientSecret, redirectURI)
	return m.exchange(ctx, cfg, userID, authCode)
}

// CompleteCallback resolves a pending flow by its state nonce and exchanges
// the code delivered to the HTTP callback. Returns the user ID on success.
func (m *OAuthManager) CompleteCallback(ctx context.Context, state, authCode string) (string, error) {
	m.mu.Lock()
	flow, ok := m.pending[state]
	if ok {
		delete(m.pending, state)
	}
	m.mu.Unlock()

	if !ok || time.Since(flow.started) > pendingFlowTTL {
		return "", apperr.New(apperr.AuthRequired,
			"unknown or expired OAuth state — restart the flow with start_oauth")
	}

	if err := m.exchange(ctx, flow.config, flow.userID, authCode); err != nil {
		return "", err
	}
	return flow.userID, nil
}

func (m *OAuthManager) exchange(ctx context.Context, cfg *oauth2.Config, userID, authCode string) error {
	token, err := cfg.Exchange(ctx, authCode)
	if err != nil {
		return apperr.Wrap(apperr.AuthRequired, err,
			"exchanging authorization code for user %s failed", userID)
	}

	cred := &model.Credential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     cfg.Endpoint.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
		Expiry:       token.Expiry,
	}
	if err := m.creds.Save(ctx, cred); err != nil {
		return fmt.Errorf("saving credentials for user %s: %w", userID, err)
	}
	return nil
}

// evictExpiredLocked drops pending flows past their TTL. Caller holds mu.
func (m *OAuthManager) evictExpiredLocked() {
	cutoff := time.Now().Add(-pendingFlowTTL)
	for state, flow := range m.pending {
		if flow.started.Before(cutoff) {
			delete(m.pending, state)
		}
	}
}
