package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expomeet/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	seminarRepo      domain.SeminarRepository
	consultationRepo domain.ConsultationRepository
	slotRepo         domain.ConsultationSlotRepository
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewEventService creates the event lifecycle and aggregation service.
func NewEventService(
	eventRepo domain.EventRepository,
	seminarRepo domain.SeminarRepository,
	consultationRepo domain.ConsultationRepository,
	slotRepo domain.ConsultationSlotRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		seminarRepo:      seminarRepo,
		consultationRepo: consultationRepo,
		slotRepo:         slotRepo,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.Title == "" || !event.Format.Valid() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = domain.EventDraft
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) ScheduleEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventScheduled)
}

func (s *eventService) StartEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventOngoing)
}

func (s *eventService) CancelEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventCanceled)
}

func (s *eventService) CompleteEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventDone)
}

// setStatus is an unconditional administrative write. Event transitions do
// not consult a transition table and do not cascade into child seminars or
// consultations.
func (s *eventService) setStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListEventsByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	events, err := s.eventRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	summaries := make([]*domain.EventSummary, 0, len(events))
	for _, event := range events {
		activities, err := s.activities(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &domain.EventSummary{Event: event, Activities: activities})
	}
	return summaries, nil
}

// activities reports which activity kinds the event offers, derived from its
// non-draft seminars and its consultations.
func (s *eventService) activities(ctx context.Context, eventID string) ([]string, error) {
	activities := []string{}

	seminars, err := s.seminarRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event seminars: %w", err)
	}
	for _, sem := range seminars {
		if sem.Status != domain.SeminarDraft {
			activities = append(activities, "SEMINAR")
			break
		}
	}

	consultations, err := s.consultationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event consultations: %w", err)
	}
	if len(consultations) > 0 {
		activities = append(activities, "CONSULTATION")
	}
	return activities, nil
}

func (s *eventService) GetEventOverview(ctx context.Context, id string, includeDraft bool) (*domain.EventOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status == domain.EventDraft && !includeDraft {
		return nil, domain.ErrNotFound
	}

	seminars, err := s.seminarRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list event seminars: %w", err)
	}
	visible := []*domain.Seminar{}
	for _, sem := range seminars {
		if includeDraft || sem.Status != domain.SeminarDraft {
			visible = append(visible, sem)
		}
	}

	consultations, err := s.consultationRepo.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list event consultations: %w", err)
	}
	withSlots := []*domain.ConsultationWithSlots{}
	for _, c := range consultations {
		slots, err := s.slotRepo.ListByConsultationID(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list consultation slots: %w", err)
		}
		if slots == nil {
			slots = []*domain.ConsultationSlot{}
		}
		withSlots = append(withSlots, &domain.ConsultationWithSlots{Consultation: c, Slots: slots})
	}

	return &domain.EventOverview{
		Event:         event,
		Seminars:      visible,
		Consultations: withSlots,
	}, nil
}
