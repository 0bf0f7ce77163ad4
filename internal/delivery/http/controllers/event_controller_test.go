package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expomeet/internal/delivery/http/helpers"
	"expomeet/internal/delivery/http/middleware"
	"expomeet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err       error
	event     *domain.Event
	events    []*domain.Event
	summaries []*domain.EventSummary
	overview  *domain.EventOverview

	lastEventID      string
	lastStatus       domain.EventStatus
	lastIncludeDraft bool
}

func (f *fakeEventService) CreateEvent(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = "ev-created"
	return nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	return f.transition(id)
}

func (f *fakeEventService) transition(id string) (*domain.Event, error) {
	f.lastEventID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ScheduleEvent(ctx context.Context, id string) (*domain.Event, error) {
	return f.transition(id)
}

func (f *fakeEventService) StartEvent(ctx context.Context, id string) (*domain.Event, error) {
	return f.transition(id)
}

func (f *fakeEventService) CancelEvent(ctx context.Context, id string) (*domain.Event, error) {
	return f.transition(id)
}

func (f *fakeEventService) CompleteEvent(ctx context.Context, id string) (*domain.Event, error) {
	return f.transition(id)
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) error {
	f.lastEventID = id
	return f.err
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) ListEventsByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.EventSummary, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f *fakeEventService) GetEventOverview(ctx context.Context, id string, includeDraft bool) (*domain.EventOverview, error) {
	f.lastEventID = id
	f.lastIncludeDraft = includeDraft
	if f.err != nil {
		return nil, f.err
	}
	return f.overview, nil
}

func TestEventController_CreateEvent(t *testing.T) {
	start := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	t.Run("creates a draft event", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		body, _ := json.Marshal(CreateEventRequest{
			Title:     "Spring Expo",
			Format:    "HYBRID",
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 2),
		})
		req := httptest.NewRequest(http.MethodPost, "http://test/admin/events", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var envelope struct {
			Data  *domain.Event     `json:"data"`
			Error *helpers.APIError `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		require.NotNil(t, envelope.Data)
		assert.Equal(t, domain.EventDraft, envelope.Data.Status)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		body, _ := json.Marshal(CreateEventRequest{
			Title:     "Spring Expo",
			Format:    "ONLINE",
			StartDate: start,
			EndDate:   start.Add(-time.Hour),
		})
		req := httptest.NewRequest(http.MethodPost, "http://test/admin/events", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Error)
		assert.Contains(t, envelope.Error.Message, "end_date")
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		req := httptest.NewRequest(http.MethodPost, "http://test/admin/events",
			bytes.NewReader([]byte(`{"title":"Expo","format":"ONLINE","bogus":true}`)))
		rr := httptest.NewRecorder()

		ctrl.CreateEvent(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEventController_Transitions(t *testing.T) {
	scheduled := &domain.Event{ID: "ev-1", Title: "Expo", Status: domain.EventScheduled}

	tests := []struct {
		name       string
		invoke     func(ctrl *EventController, w http.ResponseWriter, r *http.Request)
		fakeErr    error
		wantStatus int
	}{
		{name: "schedule", invoke: (*EventController).ScheduleEvent, wantStatus: http.StatusOK},
		{name: "start", invoke: (*EventController).StartEvent, wantStatus: http.StatusOK},
		{name: "cancel", invoke: (*EventController).CancelEvent, wantStatus: http.StatusOK},
		{name: "complete", invoke: (*EventController).CompleteEvent, wantStatus: http.StatusOK},
		{name: "unknown event", invoke: (*EventController).StartEvent, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{err: tt.fakeErr, event: scheduled}
			ctrl := NewEventController(testLogger, fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/admin/events/ev-1/transition", nil)
			req.SetPathValue("eventID", "ev-1")
			rr := httptest.NewRecorder()

			tt.invoke(ctrl, rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "ev-1", fake.lastEventID)
		})
	}
}

func TestEventController_ListEventsByPhase(t *testing.T) {
	tests := []struct {
		name       string
		phase      string
		wantStatus int
		wantQuery  domain.EventStatus
	}{
		{name: "upcoming", phase: "upcoming", wantStatus: http.StatusOK, wantQuery: domain.EventScheduled},
		{name: "ongoing", phase: "ongoing", wantStatus: http.StatusOK, wantQuery: domain.EventOngoing},
		{name: "previous", phase: "previous", wantStatus: http.StatusOK, wantQuery: domain.EventDone},
		{name: "drafts are not a phase", phase: "draft", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{summaries: []*domain.EventSummary{}}
			ctrl := NewEventController(testLogger, fake)

			req := httptest.NewRequest(http.MethodGet, "http://test/events/phase/"+tt.phase, nil)
			req.SetPathValue("phase", tt.phase)
			rr := httptest.NewRecorder()

			ctrl.ListEventsByPhase(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantQuery, fake.lastStatus)
			}
		})
	}
}

func TestEventController_GetEventOverview(t *testing.T) {
	overview := &domain.EventOverview{Event: &domain.Event{ID: "ev-1", Status: domain.EventScheduled}}

	t.Run("anonymous caller does not see drafts", func(t *testing.T) {
		fake := &fakeEventService{overview: overview}
		ctrl := NewEventController(testLogger, fake)

		req := httptest.NewRequest(http.MethodGet, "http://test/events/ev-1", nil)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.GetEventOverview(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, fake.lastIncludeDraft)
	})

	t.Run("admin sees drafts", func(t *testing.T) {
		fake := &fakeEventService{overview: overview}
		ctrl := NewEventController(testLogger, fake)

		req := httptest.NewRequest(http.MethodGet, "http://test/events/ev-1", nil)
		req.SetPathValue("eventID", "ev-1")
		req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}))
		rr := httptest.NewRecorder()

		ctrl.GetEventOverview(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, fake.lastIncludeDraft)
	})

	t.Run("regular user does not see drafts", func(t *testing.T) {
		fake := &fakeEventService{overview: overview}
		ctrl := NewEventController(testLogger, fake)

		req := httptest.NewRequest(http.MethodGet, "http://test/events/ev-1", nil)
		req.SetPathValue("eventID", "ev-1")
		req = asUser(req, "user-1")
		rr := httptest.NewRecorder()

		ctrl.GetEventOverview(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, fake.lastIncludeDraft)
	})
}
