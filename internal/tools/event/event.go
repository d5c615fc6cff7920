// Package event exposes the calendar event operations as MCP tools.
package event

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okihara/juiz-mcp/internal/pkg/ptr"
	"github.com/okihara/juiz-mcp/internal/service"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/calendar_2020q4_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// Register registers the event tools that pass the include filter with the
// MCP server.
func Register(server *mcp.Server, svc *service.EventService, include func(name string, annotations *mcp.ToolAnnotations) bool) {
	addEvent := &mcp.Tool{
		Name:        "add_event",
		Icons:       serviceIcons,
		Description: "Add a calendar event. The event is saved locally and mirrored to the user's Google Calendar unless sync_to_google is false. End time defaults to one hour after the start.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Add Event",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(addEvent.Name, addEvent.Annotations) {
		mcp.AddTool(server, addEvent, createAddEventHandler(svc))
	}

	getEvent := &mcp.Tool{
		Name:        "get_event",
		Icons:       serviceIcons,
		Description: "Get a single calendar event by ID. Numeric IDs address local events; google_-prefixed IDs address Google Calendar.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Event",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(getEvent.Name, getEvent.Annotations) {
		mcp.AddTool(server, getEvent, createGetEventHandler(svc))
	}

	getAllEvents := &mcp.Tool{
		Name:        "get_all_events",
		Icons:       serviceIcons,
		Description: "List the user's calendar events in an optional date range, merged with their Google Calendar and sorted by start time.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get All Events",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(getAllEvents.Name, getAllEvents.Annotations) {
		mcp.AddTool(server, getAllEvents, createGetAllEventsHandler(svc))
	}
}
