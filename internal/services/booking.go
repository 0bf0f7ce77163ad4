package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expomeet/internal/domain"
)

type bookingService struct {
	consultationRepo domain.ConsultationRepository
	slotRepo         domain.ConsultationSlotRepository
	eventRepo        domain.EventRepository
	userRepo         domain.UserRepository
	rooms            domain.RoomService
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewBookingService creates the booking coordinator for consultation slots.
func NewBookingService(
	consultationRepo domain.ConsultationRepository,
	slotRepo domain.ConsultationSlotRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	rooms domain.RoomService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		consultationRepo: consultationRepo,
		slotRepo:         slotRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		rooms:            rooms,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *bookingService) CreateConsultation(ctx context.Context, c *domain.Consultation) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if c.EventID == "" || c.ExhibitorID == "" {
		return domain.ErrInvalidInput
	}
	if _, err := s.eventRepo.GetByID(ctx, c.EventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.consultationRepo.Create(ctx, c)
}

func (s *bookingService) GetConsultation(ctx context.Context, id string) (*domain.ConsultationWithSlots, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	consultation, err := s.consultationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	slots, err := s.slotRepo.ListByConsultationID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	if slots == nil {
		slots = []*domain.ConsultationSlot{}
	}
	return &domain.ConsultationWithSlots{Consultation: consultation, Slots: slots}, nil
}

func (s *bookingService) ListConsultationsByEvent(ctx context.Context, eventID string) ([]*domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	consultations, err := s.consultationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	if consultations == nil {
		consultations = []*domain.Consultation{}
	}
	return consultations, nil
}

func (s *bookingService) CreateSlots(ctx context.Context, consultationID string, windows []domain.SlotWindow) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(windows) == 0 {
		return 0, domain.ErrInvalidInput
	}
	if _, err := s.consultationRepo.GetByID(ctx, consultationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get consultation: %w", err)
	}
	now := time.Now()
	slots := make([]*domain.ConsultationSlot, 0, len(windows))
	for _, w := range windows {
		if !w.EndTime.After(w.StartTime) {
			return 0, domain.ErrInvalidInput
		}
		slots = append(slots, domain.NewConsultationSlot(consultationID, w.StartTime, w.EndTime, now, now))
	}
	created, err := s.slotRepo.CreateBatch(ctx, slots)
	if err != nil {
		return 0, fmt.Errorf("create slots: %w", err)
	}
	return created, nil
}

func (s *bookingService) BookSlot(ctx context.Context, eventID, exhibitorID, slotID, participantID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	consultation, err := s.consultationRepo.GetByEventAndExhibitor(ctx, eventID, exhibitorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return s.book(ctx, consultation, slotID, participantID)
}

func (s *bookingService) BookSlotByAdmin(ctx context.Context, consultationID, slotID, participantID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	consultation, err := s.consultationRepo.GetByID(ctx, consultationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return s.book(ctx, consultation, slotID, participantID)
}

// book validates the event phase and the participant, then attempts the
// AVAILABLE→BOOKED conditional write. The pre-read gives precise errors; the
// conditional write is what actually arbitrates concurrent attempts.
func (s *bookingService) book(ctx context.Context, consultation *domain.Consultation, slotID, participantID string) (*domain.ConsultationSlot, error) {
	event, err := s.eventRepo.GetByID(ctx, consultation.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.AcceptsBookings() {
		return nil, domain.ErrEventClosed
	}

	participant, err := s.userRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	slot, err := s.getSlotOf(ctx, consultation.ID, slotID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSlotTransition(slot.Status, domain.SlotBooked); err != nil {
		return nil, domain.ErrSlotUnavailable
	}

	booked, err := s.slotRepo.UpdateStatusIfCurrent(ctx, slotID, domain.SlotAvailable, domain.SlotBooked,
		&domain.SlotParticipant{ID: participant.ID, Name: participant.Name})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// The pre-read saw AVAILABLE, so the slot was taken in between.
			return nil, s.raceOutcome(ctx, slotID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("book slot: %w", err)
	}
	return booked, nil
}

func (s *bookingService) CancelSlot(ctx context.Context, slotID string, actor domain.Actor) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotBooked || slot.ParticipantID == nil {
		return nil, domain.ErrInvalidState
	}
	if !actor.IsAdmin() && *slot.ParticipantID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	// The write pins the participant observed above, not just the BOOKED
	// status. If the slot was freed and rebooked by someone else in between,
	// the pin no longer matches and the cancel loses the race instead of
	// canceling the new owner's booking.
	canceled, err := s.slotRepo.CancelIfBookedBy(ctx, slotID, *slot.ParticipantID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, s.raceOutcome(ctx, slotID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("cancel slot: %w", err)
	}
	return canceled, nil
}

func (s *bookingService) StartSlot(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.HasParticipant() {
		return nil, domain.ErrInvalidState
	}
	started, err := s.transition(ctx, slotID, slot.Status, domain.SlotOngoing)
	if err != nil {
		return nil, err
	}
	// Room creation happens after the status write commits. The collaborator
	// failing must not undo the transition.
	if _, err := s.rooms.CreateRoom(ctx, started.ID, ""); err != nil {
		s.logger.WarnContext(ctx, "room creation failed", "slot_id", started.ID, "err", err)
	}
	return started, nil
}

func (s *bookingService) EndSlot(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotOngoing {
		return nil, domain.ErrInvalidState
	}
	ended, err := s.transition(ctx, slotID, domain.SlotOngoing, domain.SlotDone)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.DeleteRoom(ctx, ended.ID); err != nil {
		s.logger.WarnContext(ctx, "room deletion failed", "slot_id", ended.ID, "err", err)
	}
	return ended, nil
}

func (s *bookingService) MarkSlotDone(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.HasParticipant() {
		return nil, domain.ErrInvalidState
	}
	return s.transition(ctx, slotID, slot.Status, domain.SlotDone)
}

func (s *bookingService) MarkSlotNotPresent(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.HasParticipant() {
		return nil, domain.ErrInvalidState
	}
	return s.transition(ctx, slotID, slot.Status, domain.SlotNotPresent)
}

func (s *bookingService) MarkSlotAvailable(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, slotID, slot.Status, domain.SlotAvailable)
}

func (s *bookingService) MarkSlotNotAvailable(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, slotID, slot.Status, domain.SlotNotAvailable)
}

func (s *bookingService) RemoveParticipant(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.slotRepo.ClearParticipant(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("clear participant: %w", err)
	}
	return slot, nil
}

func (s *bookingService) DeleteSlot(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (s *bookingService) ListMySchedule(ctx context.Context, participantID string) ([]*domain.ConsultationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slots, err := s.slotRepo.ListByParticipantAndStatus(ctx, participantID,
		[]domain.SlotStatus{domain.SlotBooked, domain.SlotOngoing})
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	if slots == nil {
		slots = []*domain.ConsultationSlot{}
	}
	return slots, nil
}

func (s *bookingService) getSlot(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return slot, nil
}

// getSlotOf loads a slot and verifies it belongs to the consultation.
func (s *bookingService) getSlotOf(ctx context.Context, consultationID, slotID string) (*domain.ConsultationSlot, error) {
	slot, err := s.getSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.ConsultationID != consultationID {
		return nil, domain.ErrNotFound
	}
	return slot, nil
}

// transition validates the edge against the state machine and performs the
// conditional write. A conflict is re-read to distinguish a deleted slot
// from a lost race.
func (s *bookingService) transition(ctx context.Context, slotID string, from, to domain.SlotStatus) (*domain.ConsultationSlot, error) {
	if err := domain.ValidateSlotTransition(from, to); err != nil {
		return nil, err
	}
	updated, err := s.slotRepo.UpdateStatusIfCurrent(ctx, slotID, from, to, nil)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, s.raceOutcome(ctx, slotID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update slot status: %w", err)
	}
	return updated, nil
}

// raceOutcome maps a failed conditional write to ErrNotFound when the slot
// row is gone, otherwise to the given race error.
func (s *bookingService) raceOutcome(ctx context.Context, slotID string, raceErr error) error {
	if _, err := s.slotRepo.GetByID(ctx, slotID); errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	return raceErr
}
