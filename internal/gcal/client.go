// Package gcal is the remote provider client for Google Calendar. It maps
// calendar events to and from the Calendar wire shape with the fixed
// Asia/Tokyo zone for outgoing datetimes.
package gcal

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/pkg/timeutil"
	"github.com/okihara/juiz-mcp/internal/services"
)

// listMaxResults caps how many remote events a single list call pulls.
const listMaxResults = 50

// Client wraps the Google Calendar API for event mirroring. All operations
// work against the user's primary calendar.
type Client struct {
	factory *services.Factory
}

// NewClient creates a Calendar provider client over the given factory.
func NewClient(factory *services.Factory) *Client {
	return &Client{factory: factory}
}

// List returns the user's remote events, bounded by the optional time range
// and expanded to single occurrences. Items missing either datetime endpoint
// (all-day entries) are discarded.
func (c *Client) List(ctx context.Context, userID string, timeMin, timeMax *time.Time) ([]model.EventItem, error) {
	srv, err := c.factory.Calendar(ctx, userID)
	if err != nil {
		return nil, err
	}

	call := srv.Events.List("primary").
		MaxResults(listMaxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	if timeMin != nil {
		call = call.TimeMin(timeutil.FormatUTC(*timeMin))
	}
	if timeMax != nil {
		call = call.TimeMax(timeutil.FormatUTC(*timeMax))
	}

	result, err := call.Do()
	if err != nil {
		return nil, wrapErr(err, "listing Google Calendar events for user %s", userID)
	}

	var events []model.EventItem
	for _, e := range result.Items {
		if e.Start == nil || e.Start.DateTime == "" || e.End == nil || e.End.DateTime == "" {
			continue
		}
		events = append(events, toEventItem(e, userID))
	}
	return events, nil
}

// Get retrieves one remote event by its google_-prefixed identifier.
func (c *Client) Get(ctx context.Context, userID, id string) (*model.EventItem, error) {
	srv, err := c.factory.Calendar(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := srv.Events.Get("primary", model.StripGoogleID(id)).Context(ctx).Do()
	if err != nil {
		if isStatus(err, 404) {
			return nil, notFound(id, userID)
		}
		return nil, wrapErr(err, "getting Google Calendar event %s for user %s", id, userID)
	}

	item := toEventItem(event, userID)
	return &item, nil
}

// Insert mirrors a new event into the primary calendar and returns the
// provider's native event ID.
func (c *Client) Insert(ctx context.Context, event *model.EventItem) (string, error) {
	srv, err := c.factory.Calendar(ctx, event.UserID)
	if err != nil {
		return "", err
	}

	body := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start:       toEventDateTime(event.StartTime),
		End:         toEventDateTime(event.EndTime),
	}
	if event.Location != "" {
		body.Location = event.Location
	}

	created, err := srv.Events.Insert("primary", body).Context(ctx).Do()
	if err != nil {
		return "", wrapErr(err, "inserting Google Calendar event for user %s", event.UserID)
	}
	return created.Id, nil
}

// Patch applies a partial update to a remote event and returns the updated
// item.
func (c *Client) Patch(ctx context.Context, userID, id string, patch model.EventPatch) (*model.EventItem, error) {
	srv, err := c.factory.Calendar(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := srv.Events.Patch("primary", model.StripGoogleID(id), patchBody(patch)).Context(ctx).Do()
	if err != nil {
		if isStatus(err, 404) {
			return nil, notFound(id, userID)
		}
		return nil, wrapErr(err, "patching Google Calendar event %s for user %s", id, userID)
	}

	item := toEventItem(updated, userID)
	return &item, nil
}

// patchBody maps the set fields of a patch onto the Calendar wire shape. An
// explicitly empty description or location is cleared via ForceSendFields so
// the API doesn't treat it as absent.
func patchBody(patch model.EventPatch) *calendar.Event {
	body := &calendar.Event{}
	if patch.Title != nil {
		body.Summary = *patch.Title
	}
	if patch.Description != nil {
		body.Description = *patch.Description
		if *patch.Description == "" {
			body.ForceSendFields = append(body.ForceSendFields, "Description")
		}
	}
	if patch.Start != nil {
		body.Start = toEventDateTime(*patch.Start)
	}
	if patch.End != nil {
		body.End = toEventDateTime(*patch.End)
	}
	if patch.Location != nil {
		body.Location = *patch.Location
		if *patch.Location == "" {
			body.ForceSendFields = append(body.ForceSendFields, "Location")
		}
	}
	return body
}

// toEventDateTime renders a timestamp as a wire datetime in the fixed
// provider zone.
func toEventDateTime(t time.Time) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		DateTime: timeutil.FormatLocal(t),
		TimeZone: timeutil.ProviderTimeZone,
	}
}

// toEventItem maps a wire event to the local entity shape.
func toEventItem(e *calendar.Event, userID string) model.EventItem {
	item := model.EventItem{
		ID:            model.GoogleIDPrefix + e.Id,
		UserID:        userID,
		Title:         e.Summary,
		Description:   e.Description,
		Location:      e.Location,
		Source:        model.SourceGoogleCalendar,
		GoogleEventID: e.Id,
	}
	if e.Start != nil && e.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, e.Start.DateTime); err == nil {
			item.StartTime = t
		}
	}
	if e.End != nil && e.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, e.End.DateTime); err == nil {
			item.EndTime = t
		}
	}
	if e.Created != "" {
		if t, err := time.Parse(time.RFC3339, e.Created); err == nil {
			item.CreatedAt = t
		}
	}
	return item
}

func notFound(id, userID string) error {
	return apperr.New(apperr.NotFound, "Event with ID %s not found for user %s", id, userID)
}

func isStatus(err error, code int) bool {
	var googleErr *googleapi.Error
	return errors.As(err, &googleErr) && googleErr.Code == code
}

func wrapErr(err error, format string, args ...any) error {
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		if googleErr.Code == 401 {
			return apperr.Wrap(apperr.AuthRequired, err, "Google Calendar rejected the access token")
		}
		return apperr.Remote(googleErr.Code, googleErr.Message, err, format, args...)
	}
	return apperr.Remote(0, "", err, format, args...)
}
