// Package validate holds the pure field validators applied before any
// storage or provider call.
package validate

import (
	"strings"
	"time"

	"github.com/okihara/juiz-mcp/internal/apperr"
)

// Field length limits.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
	MaxLocationLen    = 200
)

// UserID checks that a user identifier is non-empty after trimming and
// returns the trimmed value.
func UserID(userID string) (string, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return "", apperr.New(apperr.Validation, "user ID cannot be empty")
	}
	return trimmed, nil
}

// Title checks the 1-200 character constraint and returns the trimmed value.
func Title(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", apperr.New(apperr.Validation, "title cannot be empty")
	}
	if len([]rune(trimmed)) > MaxTitleLen {
		return "", apperr.New(apperr.Validation, "title cannot exceed %d characters", MaxTitleLen)
	}
	return trimmed, nil
}

// Description checks the optional ≤1000 character constraint. A
// whitespace-only description normalizes to the empty string.
func Description(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if len([]rune(trimmed)) > MaxDescriptionLen {
		return "", apperr.New(apperr.Validation, "description cannot exceed %d characters", MaxDescriptionLen)
	}
	return trimmed, nil
}

// Location checks the optional ≤200 character constraint.
func Location(location string) (string, error) {
	trimmed := strings.TrimSpace(location)
	if len([]rune(trimmed)) > MaxLocationLen {
		return "", apperr.New(apperr.Validation, "location cannot exceed %d characters", MaxLocationLen)
	}
	return trimmed, nil
}

// EventTimes checks chronological ordering: the end must be strictly after
// the start.
func EventTimes(start, end time.Time) error {
	if !end.After(start) {
		return apperr.New(apperr.Validation, "end time must be after start time")
	}
	return nil
}

// FilterStatus checks a todo list filter and returns the normalized value.
// An empty filter means "all".
func FilterStatus(filter string) (string, error) {
	switch filter {
	case "", "all":
		return "all", nil
	case "completed", "active":
		return filter, nil
	default:
		return "", apperr.New(apperr.Validation,
			"invalid filter status: %s. Use 'all', 'completed', or 'active'", filter)
	}
}
