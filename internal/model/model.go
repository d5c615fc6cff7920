// Package model defines the domain entities shared across the store,
// provider clients, and services.
package model

import (
	"strings"
	"time"
)

// GoogleIDPrefix marks identifiers of entities that live in Google rather
// than in the local database. Remote IDs are the prefix concatenated with
// the provider's native ID.
const GoogleIDPrefix = "google_"

// Entity source tags.
const (
	SourceLocal          = "local"
	SourceGoogleTasks    = "google_tasks"
	SourceGoogleCalendar = "google_calendar"
)

// IsGoogleID reports whether an identifier refers to a remote entity.
func IsGoogleID(id string) bool {
	return strings.HasPrefix(id, GoogleIDPrefix)
}

// StripGoogleID returns the provider-native ID for a prefixed identifier.
func StripGoogleID(id string) string {
	return strings.TrimPrefix(id, GoogleIDPrefix)
}

// TodoItem is a TODO entry. Local items carry a numeric ID assigned by the
// database; remote items carry a google_-prefixed provider ID and are never
// persisted locally.
type TodoItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	Source       string    `json:"source,omitempty"`
	GoogleTaskID string    `json:"google_task_id,omitempty"`
}

// EventItem is a calendar event with the same dual identifier scheme as
// TodoItem.
type EventItem struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	Source        string    `json:"source,omitempty"`
	GoogleEventID string    `json:"google_event_id,omitempty"`
}

// EventPatch describes a partial update to an event. Nil fields are left
// unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Location    *string
}

// Credential holds one user's Google OAuth token material. There is at most
// one row per user; token fields are mutated in place on every refresh.
type Credential struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenURI     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Expiry       time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the access token has passed its expiry, with a
// small skew so a token about to lapse mid-request is treated as expired.
func (c *Credential) Expired(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	const skew = 30 * time.Second
	return !now.Add(skew).Before(c.Expiry)
}
