package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

// Event lifecycle statuses.
const (
	EventDraft     EventStatus = "DRAFT"
	EventScheduled EventStatus = "SCHEDULED"
	EventOngoing   EventStatus = "ONGOING"
	EventDone      EventStatus = "DONE"
	EventCanceled  EventStatus = "CANCELED"
)

// Valid reports whether s is one of the defined event statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventDraft, EventScheduled, EventOngoing, EventDone, EventCanceled:
		return true
	}
	return false
}

// EventFormat describes how an event is held.
type EventFormat string

// Event formats.
const (
	FormatOnline  EventFormat = "ONLINE"
	FormatOffline EventFormat = "OFFLINE"
	FormatHybrid  EventFormat = "HYBRID"
)

// Valid reports whether f is one of the defined formats.
func (f EventFormat) Valid() bool {
	switch f {
	case FormatOnline, FormatOffline, FormatHybrid:
		return true
	}
	return false
}

// Event represents a scheduled expo event that aggregates seminars and
// exhibitor consultations.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	Thumbnail   *string     `json:"thumbnail"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Location    *string     `json:"location"`
	Format      EventFormat `json:"format"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event in DRAFT status. ID is typically set by the
// repository on create.
func NewEvent(title string, format EventFormat, startDate, endDate, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:     title,
		Format:    format,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    EventDraft,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// AcceptsBookings reports whether consultation slots and seminar
// registrations under this event may still be booked.
func (e *Event) AcceptsBookings() bool {
	return e.Status == EventScheduled || e.Status == EventOngoing
}

// EventUpdate carries optional event fields for partial updates. Nil fields
// are unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Format      *EventFormat
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByStatus(ctx context.Context, status EventStatus) ([]*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	// UpdateStatus writes the new status unconditionally. Missing row returns ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventOverview is the aggregated read model for a single event: the event
// itself, its visible seminars, and its consultations with ordered slots.
type EventOverview struct {
	Event         *Event                   `json:"event"`
	Seminars      []*Seminar               `json:"seminars"`
	Consultations []*ConsultationWithSlots `json:"consultations"`
}

// EventSummary is an event plus the activity kinds it offers, used by the
// public listing endpoints.
type EventSummary struct {
	Event      *Event   `json:"event"`
	Activities []string `json:"activities"`
}

// EventService defines event lifecycle and read operations. Status
// transitions are unconditional administrative writes; they do not cascade
// into child seminars or consultations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	// ScheduleEvent publishes a draft, making it visible on public listings.
	ScheduleEvent(ctx context.Context, id string) (*Event, error)
	StartEvent(ctx context.Context, id string) (*Event, error)
	CancelEvent(ctx context.Context, id string) (*Event, error)
	CompleteEvent(ctx context.Context, id string) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]*Event, error)
	// ListEventsByStatus powers the public upcoming/ongoing/previous listings.
	ListEventsByStatus(ctx context.Context, status EventStatus) ([]*EventSummary, error)
	// GetEventOverview aggregates the event with its non-draft seminars and
	// consultations. includeDraft widens seminar visibility for admins.
	GetEventOverview(ctx context.Context, id string, includeDraft bool) (*EventOverview, error)
}
