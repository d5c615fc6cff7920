package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/middleware"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/pkg/validate"
	"github.com/okihara/juiz-mcp/internal/store"
)

// defaultEventDuration is applied when an event arrives without an end time.
const defaultEventDuration = time.Hour

// EventRemote is the provider-side calendar surface. Implemented by
// gcal.Client.
type EventRemote interface {
	List(ctx context.Context, userID string, timeMin, timeMax *time.Time) ([]model.EventItem, error)
	Get(ctx context.Context, userID, id string) (*model.EventItem, error)
	Insert(ctx context.Context, event *model.EventItem) (string, error)
	Patch(ctx context.Context, userID, id string, patch model.EventPatch) (*model.EventItem, error)
}

// EventService implements the calendar event tool operations.
type EventService struct {
	repo   *store.EventRepo
	remote EventRemote
	logger *slog.Logger
	now    func() time.Time
}

// NewEventService creates an EventService.
func NewEventService(repo *store.EventRepo, remote EventRemote, logger *slog.Logger) *EventService {
	return &EventService{repo: repo, remote: remote, logger: logger, now: time.Now}
}

// Add validates and persists a new event, then best-effort mirrors it to
// Google Calendar. The end time defaults to one hour after the start when
// absent.
func (s *EventService) Add(ctx context.Context, userID, title string, start time.Time, end *time.Time, description, location string, syncToGoogle bool) (*model.EventItem, error) {
	userID, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}
	title, err = validate.Title(title)
	if err != nil {
		return nil, err
	}
	description, err = validate.Description(description)
	if err != nil {
		return nil, err
	}
	location, err = validate.Location(location)
	if err != nil {
		return nil, err
	}

	endTime := start.Add(defaultEventDuration)
	if end != nil {
		endTime = *end
	}
	if err := validate.EventTimes(start, endTime); err != nil {
		return nil, err
	}

	event := &model.EventItem{
		UserID:      userID,
		Title:       title,
		Description: description,
		StartTime:   start,
		EndTime:     endTime,
		Location:    location,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	if syncToGoogle {
		var eventID string
		err := middleware.WithRetry(ctx, 0, func() error {
			var insertErr error
			eventID, insertErr = s.remote.Insert(ctx, event)
			return insertErr
		})
		if err != nil {
			s.logger.Warn("Google Calendar sync failed",
				"user_id", userID, "event_id", event.ID, "error", err)
		} else {
			event.GoogleEventID = eventID
		}
	}

	return event, nil
}

// Get returns one event, routed by identifier scheme like TodoService.Get.
func (s *EventService) Get(ctx context.Context, userID, eventID string) (*model.EventItem, error) {
	userID, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}

	if model.IsGoogleID(eventID) {
		return s.remote.Get(ctx, userID, eventID)
	}

	id, err := parseLocalID(eventID)
	if err != nil {
		return nil, err
	}
	event, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, eventNotFound(eventID, userID)
	}
	return event, nil
}

// GetAll merges local and remote events into one list sorted ascending by
// start time. Events without a start time sort first; the stable sort keeps
// local entries before remote ones on ties. A remote failure degrades to
// local-only results.
func (s *EventService) GetAll(ctx context.Context, userID string, startDate, endDate *time.Time, includeGoogle bool) ([]model.EventItem, error) {
	userID, err := validate.UserID(userID)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil {
		if err := validate.EventTimes(*startDate, *endDate); err != nil {
			return nil, err
		}
	}

	events, err := s.repo.ListByUser(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if includeGoogle {
		remote, err := s.remote.List(ctx, userID, startDate, endDate)
		if err != nil {
			s.logger.Warn("Google Calendar fetch failed, returning local events only",
				"user_id", userID, "error", err)
		} else {
			events = append(events, remote...)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})

	return events, nil
}

func eventNotFound(eventID, userID string) error {
	return apperr.New(apperr.NotFound, "Event with ID %s not found for user %s", eventID, userID)
}
