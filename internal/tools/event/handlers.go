package event

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/middleware"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/pkg/response"
	"github.com/okihara/juiz-mcp/internal/pkg/timeutil"
	"github.com/okihara/juiz-mcp/internal/service"
)

// parseTime parses a boundary timestamp, tagging failures as validation
// errors naming the offending field.
func parseTime(field, value string) (time.Time, error) {
	t, err := timeutil.Parse(value)
	if err != nil {
		return time.Time{}, apperr.New(apperr.Validation, "invalid %s: %v", field, err)
	}
	return t, nil
}

// parseOptionalTime is parseTime for fields that may be absent.
func parseOptionalTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseTime(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- add_event ---

type AddEventInput struct {
	UserID       string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user owning the event"`
	Title        string `json:"title" jsonschema:"required" jsonschema_description:"Event title (1-200 characters)"`
	StartTime    string `json:"start_time" jsonschema:"required" jsonschema_description:"Start time, ISO-8601 (e.g. 2025-06-15T10:00:00). Naive values are assumed +09:00"`
	EndTime      string `json:"end_time,omitempty" jsonschema_description:"End time, ISO-8601. Defaults to one hour after start_time"`
	Description  string `json:"description,omitempty" jsonschema_description:"Optional details (up to 1000 characters)"`
	Location     string `json:"location,omitempty" jsonschema_description:"Optional location (up to 200 characters)"`
	SyncToGoogle *bool  `json:"sync_to_google,omitempty" jsonschema_description:"Mirror the event to Google Calendar (default true)"`
}

type AddEventOutput struct {
	Event model.EventItem `json:"event"`
}

func createAddEventHandler(svc *service.EventService) mcp.ToolHandlerFor[AddEventInput, AddEventOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AddEventInput) (*mcp.CallToolResult, AddEventOutput, error) {
		start, err := parseTime("start_time", input.StartTime)
		if err != nil {
			return nil, AddEventOutput{}, middleware.HandleServiceError(err)
		}
		end, err := parseOptionalTime("end_time", input.EndTime)
		if err != nil {
			return nil, AddEventOutput{}, middleware.HandleServiceError(err)
		}

		sync := true
		if input.SyncToGoogle != nil {
			sync = *input.SyncToGoogle
		}

		event, err := svc.Add(ctx, input.UserID, input.Title, start, end, input.Description, input.Location, sync)
		if err != nil {
			return nil, AddEventOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Event Created")
		rb.KeyValue("Title", event.Title)
		rb.KeyValue("ID", event.ID)
		rb.KeyValue("Start", timeutil.FormatLocal(event.StartTime))
		rb.KeyValue("End", timeutil.FormatLocal(event.EndTime))
		if event.Location != "" {
			rb.KeyValue("Location", event.Location)
		}
		if event.GoogleEventID != "" {
			rb.KeyValue("Google Event ID", event.GoogleEventID)
		} else if sync {
			rb.Line("Google Calendar sync did not complete; the event is saved locally.")
		}

		return rb.TextResult(), AddEventOutput{Event: *event}, nil
	}
}

// --- get_event ---

type GetEventInput struct {
	UserID  string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user"`
	EventID string `json:"event_id" jsonschema:"required" jsonschema_description:"Numeric local ID or google_-prefixed Google Calendar ID"`
}

type GetEventOutput struct {
	Event model.EventItem `json:"event"`
}

func createGetEventHandler(svc *service.EventService) mcp.ToolHandlerFor[GetEventInput, GetEventOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetEventInput) (*mcp.CallToolResult, GetEventOutput, error) {
		event, err := svc.Get(ctx, input.UserID, input.EventID)
		if err != nil {
			return nil, GetEventOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Event Details")
		rb.KeyValue("Title", event.Title)
		rb.KeyValue("ID", event.ID)
		rb.KeyValue("Start", timeutil.FormatLocal(event.StartTime))
		rb.KeyValue("End", timeutil.FormatLocal(event.EndTime))
		rb.KeyValue("Source", event.Source)
		if event.Description != "" {
			rb.KeyValue("Description", event.Description)
		}
		if event.Location != "" {
			rb.KeyValue("Location", event.Location)
		}

		return rb.TextResult(), GetEventOutput{Event: *event}, nil
	}
}

// --- get_all_events ---

type GetAllEventsInput struct {
	UserID                string `json:"user_id" jsonschema:"required" jsonschema_description:"Identifier of the user"`
	StartDate             string `json:"start_date,omitempty" jsonschema_description:"Range lower bound, ISO-8601. Events starting at or after this time"`
	EndDate               string `json:"end_date,omitempty" jsonschema_description:"Range upper bound, ISO-8601. Events ending at or before this time"`
	IncludeGoogleCalendar *bool  `json:"include_google_calendar,omitempty" jsonschema_description:"Merge the user's Google Calendar into the result (default true)"`
}

type GetAllEventsOutput struct {
	Events []model.EventItem `json:"events"`
	Count  int               `json:"count"`
}

func createGetAllEventsHandler(svc *service.EventService) mcp.ToolHandlerFor[GetAllEventsInput, GetAllEventsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetAllEventsInput) (*mcp.CallToolResult, GetAllEventsOutput, error) {
		start, err := parseOptionalTime("start_date", input.StartDate)
		if err != nil {
			return nil, GetAllEventsOutput{}, middleware.HandleServiceError(err)
		}
		end, err := parseOptionalTime("end_date", input.EndDate)
		if err != nil {
			return nil, GetAllEventsOutput{}, middleware.HandleServiceError(err)
		}

		includeGoogle := true
		if input.IncludeGoogleCalendar != nil {
			includeGoogle = *input.IncludeGoogleCalendar
		}

		events, err := svc.GetAll(ctx, input.UserID, start, end, includeGoogle)
		if err != nil {
			return nil, GetAllEventsOutput{}, middleware.HandleServiceError(err)
		}

		rb := response.New()
		rb.Header("Events")
		rb.KeyValue("User", input.UserID)
		rb.KeyValue("Count", len(events))
		rb.Blank()

		for _, e := range events {
			rb.Item("%s", e.Title)
			rb.Line("    Start: %s", timeutil.FormatLocal(e.StartTime))
			rb.Line("    End:   %s", timeutil.FormatLocal(e.EndTime))
			if e.Location != "" {
				rb.Line("    Location: %s", e.Location)
			}
			rb.Line("    ID: %s (%s)", e.ID, e.Source)
		}

		return rb.TextResult(), GetAllEventsOutput{Events: events, Count: len(events)}, nil
	}
}
