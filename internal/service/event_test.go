package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okihara/juiz-mcp/internal/apperr"
	"github.com/okihara/juiz-mcp/internal/model"
	"github.com/okihara/juiz-mcp/internal/store"
)

func newEventService(t *testing.T, remote EventRemote) *EventService {
	t.Helper()
	return NewEventService(store.NewEventRepo(testDB(t)), remote, testLogger())
}

var eventBase = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestEventAddDefaultsEndTime(t *testing.T) {
	svc := newEventService(t, &fakeEventRemote{})

	event, err := svc.Add(context.Background(), "alice", "Standup", eventBase, nil, "", "", false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if want := eventBase.Add(time.Hour); !event.EndTime.Equal(want) {
		t.Errorf("EndTime = %v, want %v", event.EndTime, want)
	}
}

func TestEventAddRejectsInvertedTimes(t *testing.T) {
	svc := newEventService(t, &fakeEventRemote{})

	end := eventBase.Add(-time.Minute)
	_, err := svc.Add(context.Background(), "alice", "Standup", eventBase, &end, "", "", false)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("end before start should be a validation error, got %v", err)
	}

	_, err = svc.Add(context.Background(), "alice", "Standup", eventBase, &eventBase, "", "", false)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("zero-duration event should be a validation error, got %v", err)
	}
}

func TestEventAddSyncFailureIsBestEffort(t *testing.T) {
	remote := &fakeEventRemote{insertErr: errors.New("provider down")}
	svc := newEventService(t, remote)

	event, err := svc.Add(context.Background(), "alice", "Standup", eventBase, nil, "", "", true)
	if err != nil {
		t.Fatalf("Add must succeed despite sync failure, got %v", err)
	}
	if event.GoogleEventID != "" {
		t.Errorf("GoogleEventID should be empty after failed sync, got %q", event.GoogleEventID)
	}
}

func TestEventAddSyncSuccess(t *testing.T) {
	remote := &fakeEventRemote{insertID: "gevent-1"}
	svc := newEventService(t, remote)

	event, err := svc.Add(context.Background(), "alice", "Standup", eventBase, nil, "desc", "Room 2", true)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if event.GoogleEventID != "gevent-1" {
		t.Errorf("GoogleEventID = %q, want gevent-1", event.GoogleEventID)
	}
	if remote.insertCalled != 1 {
		t.Errorf("remote insert called %d times, want 1", remote.insertCalled)
	}
}

func TestEventGetAllMergeSortedByStart(t *testing.T) {
	// Remote event earlier than every local one: it must sort first even
	// though remote entries are appended after local ones.
	remote := &fakeEventRemote{
		listResult: []model.EventItem{
			{
				ID:        "google_r1",
				Title:     "remote early",
				StartTime: eventBase.Add(-2 * time.Hour),
				EndTime:   eventBase.Add(-time.Hour),
				Source:    model.SourceGoogleCalendar,
			},
		},
	}
	svc := newEventService(t, remote)

	for i, title := range []string{"local one", "local two"} {
		start := eventBase.Add(time.Duration(i) * time.Hour)
		if _, err := svc.Add(context.Background(), "alice", title, start, nil, "", "", false); err != nil {
			t.Fatalf("Add(%s): %v", title, err)
		}
	}

	events, err := svc.GetAll(context.Background(), "alice", nil, nil, true)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].ID != "google_r1" {
		t.Errorf("earliest event should be the remote one, got %+v", events[0])
	}
	for i := 1; i < len(events); i++ {
		if events[i].StartTime.Before(events[i-1].StartTime) {
			t.Errorf("events out of order at %d: %v before %v", i, events[i].StartTime, events[i-1].StartTime)
		}
	}
}

func TestEventGetAllTieKeepsLocalFirst(t *testing.T) {
	remote := &fakeEventRemote{
		listResult: []model.EventItem{
			{
				ID:        "google_r1",
				Title:     "remote",
				StartTime: eventBase,
				EndTime:   eventBase.Add(time.Hour),
				Source:    model.SourceGoogleCalendar,
			},
		},
	}
	svc := newEventService(t, remote)

	if _, err := svc.Add(context.Background(), "alice", "local", eventBase, nil, "", "", false); err != nil {
		t.Fatalf("Add: %v", err)
	}

	events, err := svc.GetAll(context.Background(), "alice", nil, nil, true)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Source != model.SourceLocal {
		t.Errorf("stable sort should keep local first on equal start times, got %q", events[0].Source)
	}
}

func TestEventGetAllRemoteFailureDegrades(t *testing.T) {
	remote := &fakeEventRemote{listErr: errors.New("provider down")}
	svc := newEventService(t, remote)

	if _, err := svc.Add(context.Background(), "alice", "local", eventBase, nil, "", "", false); err != nil {
		t.Fatalf("Add: %v", err)
	}

	events, err := svc.GetAll(context.Background(), "alice", nil, nil, true)
	if err != nil {
		t.Fatalf("GetAll must degrade to local results, got %v", err)
	}
	if len(events) != 1 || events[0].Source != model.SourceLocal {
		t.Errorf("expected only the local event, got %+v", events)
	}
}

func TestEventGetAllInvalidRange(t *testing.T) {
	svc := newEventService(t, &fakeEventRemote{})

	start := eventBase
	end := eventBase.Add(-time.Hour)
	_, err := svc.GetAll(context.Background(), "alice", &start, &end, false)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("inverted range should be a validation error, got %v", err)
	}
}

func TestEventGetNotFound(t *testing.T) {
	svc := newEventService(t, &fakeEventRemote{})

	_, err := svc.Get(context.Background(), "alice", "42")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}

	var appErr *apperr.Error
	errors.As(err, &appErr)
	want := "Event with ID 42 not found for user alice"
	if appErr.Message != want {
		t.Errorf("message = %q, want %q", appErr.Message, want)
	}
}

func TestEventGetRoutesGoogleID(t *testing.T) {
	remote := &fakeEventRemote{
		getResult: &model.EventItem{ID: "google_abc", Title: "remote", Source: model.SourceGoogleCalendar},
	}
	svc := newEventService(t, remote)

	event, err := svc.Get(context.Background(), "alice", "google_abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if event.Source != model.SourceGoogleCalendar {
		t.Errorf("Source = %q, want google_calendar", event.Source)
	}
}
