package domain

import (
	"context"
	"time"
)

// Consultation is the pairing of an exhibitor and an event that offers
// bookable one-on-one slots. Unique per (event, exhibitor).
// swagger:model Consultation
type Consultation struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	ExhibitorID string    `json:"exhibitor_id"`
	MaxSlots    *int      `json:"max_slots"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewConsultation returns a new Consultation. ID is typically set by the
// repository on create.
func NewConsultation(eventID, exhibitorID string, maxSlots *int, createdAt, updatedAt time.Time) *Consultation {
	return &Consultation{
		EventID:     eventID,
		ExhibitorID: exhibitorID,
		MaxSlots:    maxSlots,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// ConsultationSlot is a bookable time window belonging to a consultation.
// ParticipantID and ParticipantName are set if and only if Status allows a
// participant (see SlotStatus.AllowsParticipant).
// swagger:model ConsultationSlot
type ConsultationSlot struct {
	ID              string     `json:"id"`
	ConsultationID  string     `json:"consultation_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Status          SlotStatus `json:"status"`
	ParticipantID   *string    `json:"participant_id"`
	ParticipantName *string    `json:"participant_name"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewConsultationSlot returns a slot in AVAILABLE status, the only initial
// state.
func NewConsultationSlot(consultationID string, startTime, endTime, createdAt, updatedAt time.Time) *ConsultationSlot {
	return &ConsultationSlot{
		ConsultationID: consultationID,
		StartTime:      startTime,
		EndTime:        endTime,
		Status:         SlotAvailable,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// HasParticipant reports whether the slot carries a participant reference.
func (s *ConsultationSlot) HasParticipant() bool {
	return s.ParticipantID != nil && *s.ParticipantID != ""
}

// SlotParticipant is the denormalized participant snapshot written on booking.
type SlotParticipant struct {
	ID   string
	Name string
}

// ConsultationWithSlots bundles a consultation with its slots ordered by
// start time.
type ConsultationWithSlots struct {
	Consultation *Consultation       `json:"consultation"`
	Slots        []*ConsultationSlot `json:"slots"`
}

// ConsultationRepository defines the interface for consultation storage.
type ConsultationRepository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id string) (*Consultation, error)
	GetByEventAndExhibitor(ctx context.Context, eventID, exhibitorID string) (*Consultation, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Consultation, error)
}

// ConsultationSlotRepository defines the interface for slot storage.
//
// UpdateStatusIfCurrent is the atomicity primitive for the booking state
// machine: it moves the slot from expected to target status in a single
// conditional write and fails with ErrConflict when the slot is no longer in
// the expected status (or no longer exists). Callers re-read to tell the two
// apart. When participant is non-nil its fields are written; when the target
// status does not allow a participant the fields are cleared.
type ConsultationSlotRepository interface {
	CreateBatch(ctx context.Context, slots []*ConsultationSlot) (int, error)
	GetByID(ctx context.Context, id string) (*ConsultationSlot, error)
	ListByConsultationID(ctx context.Context, consultationID string) ([]*ConsultationSlot, error)
	ListByParticipantAndStatus(ctx context.Context, participantID string, statuses []SlotStatus) ([]*ConsultationSlot, error)
	UpdateStatusIfCurrent(ctx context.Context, slotID string, expected, target SlotStatus, participant *SlotParticipant) (*ConsultationSlot, error)
	// CancelIfBookedBy cancels the slot only while it is still BOOKED by the
	// given participant, clearing the participant columns in the same write.
	// Pinning the participant as well as the status keeps the ownership check
	// atomic: a slot that was released and rebooked by someone else between
	// the caller's read and this write no longer matches, and the call
	// returns ErrConflict.
	CancelIfBookedBy(ctx context.Context, slotID, participantID string) (*ConsultationSlot, error)
	// ClearParticipant unconditionally resets the slot to AVAILABLE with no
	// participant fields. Administrative remove-participant path.
	ClearParticipant(ctx context.Context, slotID string) (*ConsultationSlot, error)
	Delete(ctx context.Context, slotID string) error
}

// BookingService coordinates consultation slot transitions against the
// store. All status changes funnel through the slot transition table and a
// single conditional write, so concurrent attempts on the same slot are
// linearizable: at most one wins, the rest observe a definitive failure.
type BookingService interface {
	CreateConsultation(ctx context.Context, c *Consultation) error
	GetConsultation(ctx context.Context, id string) (*ConsultationWithSlots, error)
	ListConsultationsByEvent(ctx context.Context, eventID string) ([]*Consultation, error)

	// CreateSlots bulk-creates AVAILABLE slots under a consultation and
	// returns how many were created.
	CreateSlots(ctx context.Context, consultationID string, windows []SlotWindow) (int, error)

	// BookSlot books slot slotID offered by exhibitorID at eventID for the
	// participant. Fails with ErrSlotUnavailable when the slot is not
	// AVAILABLE, ErrEventClosed when the event is not bookable, ErrConflict
	// when a concurrent booking won the race.
	BookSlot(ctx context.Context, eventID, exhibitorID, slotID, participantID string) (*ConsultationSlot, error)
	// BookSlotByAdmin books on behalf of a participant, addressing the slot
	// through its consultation.
	BookSlotByAdmin(ctx context.Context, consultationID, slotID, participantID string) (*ConsultationSlot, error)

	// CancelSlot cancels a BOOKED slot. Only the booked participant or an
	// admin may cancel.
	CancelSlot(ctx context.Context, slotID string, actor Actor) (*ConsultationSlot, error)
	// StartSlot moves BOOKED→ONGOING and then requests a live room named
	// after the slot id. Room failures are logged, never propagated.
	StartSlot(ctx context.Context, slotID string) (*ConsultationSlot, error)
	// EndSlot moves ONGOING→DONE and then requests deletion of the slot's
	// live room, best-effort.
	EndSlot(ctx context.Context, slotID string) (*ConsultationSlot, error)
	// MarkSlotDone closes out a slot with a participant present.
	MarkSlotDone(ctx context.Context, slotID string) (*ConsultationSlot, error)
	// MarkSlotNotPresent records a no-show for a slot with a participant.
	MarkSlotNotPresent(ctx context.Context, slotID string) (*ConsultationSlot, error)
	MarkSlotAvailable(ctx context.Context, slotID string) (*ConsultationSlot, error)
	MarkSlotNotAvailable(ctx context.Context, slotID string) (*ConsultationSlot, error)
	// RemoveParticipant clears participant fields and resets the slot to
	// AVAILABLE regardless of current status.
	RemoveParticipant(ctx context.Context, slotID string) (*ConsultationSlot, error)
	// DeleteSlot removes the slot row. Administrative; bypasses the state
	// machine and is permitted from any status.
	DeleteSlot(ctx context.Context, slotID string) error

	// ListMySchedule returns the participant's BOOKED and ONGOING slots.
	ListMySchedule(ctx context.Context, participantID string) ([]*ConsultationSlot, error)
}

// SlotWindow is a start/end pair for bulk slot creation.
type SlotWindow struct {
	StartTime time.Time
	EndTime   time.Time
}
