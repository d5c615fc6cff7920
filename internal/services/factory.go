// Package services builds authenticated Google API clients on top of the
// credential store.
package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"

	"github.com/okihara/juiz-mcp/internal/auth"
)

// outboundTimeout bounds every call to the Google APIs so a hung provider
// surfaces as a retryable I/O failure instead of a stuck tool invocation.
const outboundTimeout = 30 * time.Second

// Factory builds per-invocation Google API service clients. Each tool call
// gets a fresh client whose token comes from the credential store, which
// handles refresh and persistence; clients are not cached across calls.
type Factory struct {
	creds *auth.CredentialStore
	base  *http.Client
}

// NewFactory creates a service factory over the given credential store.
func NewFactory(creds *auth.CredentialStore) *Factory {
	return &Factory{
		creds: creds,
		base:  &http.Client{Timeout: outboundTimeout},
	}
}

// clientFor returns an HTTP client authorized with the user's current access
// token. Propagates AuthRequired from the credential store unchanged.
func (f *Factory) clientFor(ctx context.Context, userID string) (*http.Client, error) {
	cred, err := f.creds.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The credential store already refreshed if needed, so a static source
	// is enough for the lifetime of this invocation.
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
		Expiry:      cred.Expiry,
	})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.base)
	return oauth2.NewClient(ctx, src), nil
}

// Calendar returns a Calendar service client for the given user.
func (f *Factory) Calendar(ctx context.Context, userID string) (*calendar.Service, error) {
	client, err := f.clientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("calendar client for %s: %w", userID, err)
	}
	return srv, nil
}

// Tasks returns a Tasks service client for the given user.
func (f *Factory) Tasks(ctx context.Context, userID string) (*tasks.Service, error) {
	client, err := f.clientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	srv, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("tasks client for %s: %w", userID, err)
	}
	return srv, nil
}
