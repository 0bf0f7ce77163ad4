package domain

import (
	"context"
	"time"
)

// SeminarStatus is the lifecycle status of a seminar.
type SeminarStatus string

// Seminar lifecycle statuses.
const (
	SeminarDraft     SeminarStatus = "DRAFT"
	SeminarScheduled SeminarStatus = "SCHEDULED"
	SeminarOngoing   SeminarStatus = "ONGOING"
	SeminarDone      SeminarStatus = "DONE"
	SeminarCanceled  SeminarStatus = "CANCELED"
)

// Valid reports whether s is one of the defined seminar statuses.
func (s SeminarStatus) Valid() bool {
	switch s {
	case SeminarDraft, SeminarScheduled, SeminarOngoing, SeminarDone, SeminarCanceled:
		return true
	}
	return false
}

// ParticipantStatus is the status of a seminar registration.
type ParticipantStatus string

// Seminar participant statuses.
const (
	ParticipantRegistered ParticipantStatus = "REGISTERED"
	ParticipantBooked     ParticipantStatus = "BOOKED"
)

// PaymentStatus is the payment state of a seminar registration.
type PaymentStatus string

// Seminar participant payment statuses.
const (
	PaymentFree   PaymentStatus = "FREE"
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

// Seminar represents a talk or workshop, optionally attached to an event,
// with an optional live room when held online.
// swagger:model Seminar
type Seminar struct {
	ID                 string        `json:"id"`
	EventID            *string       `json:"event_id"`
	Title              string        `json:"title"`
	Description        *string       `json:"description"`
	Thumbnail          *string       `json:"thumbnail"`
	StartDate          time.Time     `json:"start_date"`
	EndDate            time.Time     `json:"end_date"`
	Location           *string       `json:"location"`
	Format             EventFormat   `json:"format"`
	Price              int64         `json:"price"`
	Status             SeminarStatus `json:"status"`
	OnlineRoomID       *string       `json:"online_room_id"`
	IsRoomOpen         bool          `json:"is_room_open"`
	IsRegistrationOpen bool          `json:"is_registration_open"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// NewSeminar returns a new Seminar in DRAFT status. ID is typically set by
// the repository on create.
func NewSeminar(title string, eventID *string, format EventFormat, price int64, startDate, endDate, createdAt, updatedAt time.Time) *Seminar {
	return &Seminar{
		Title:     title,
		EventID:   eventID,
		Format:    format,
		Price:     price,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    SeminarDraft,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// AcceptsRegistrations reports whether users may register for the seminar.
func (s *Seminar) AcceptsRegistrations() bool {
	return s.Status == SeminarScheduled || s.Status == SeminarOngoing
}

// NeedsRoom reports whether starting the seminar should provision a live
// room.
func (s *Seminar) NeedsRoom() bool {
	return s.Format == FormatOnline || s.Format == FormatHybrid
}

// SeminarParticipant is one registration record per user per seminar.
// Status and PaymentStatus are derived from the seminar's price at
// registration time and are not independently settable afterwards.
// swagger:model SeminarParticipant
type SeminarParticipant struct {
	ID            string            `json:"id"`
	SeminarID     string            `json:"seminar_id"`
	UserID        string            `json:"user_id"`
	UserName      string            `json:"user_name"`
	UserAvatar    *string           `json:"user_avatar"`
	Status        ParticipantStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	RegisteredAt  time.Time         `json:"registered_at"`
}

// NewSeminarParticipant derives the registration from the seminar's price:
// free seminars register the user directly with FREE payment status, paid
// seminars create a BOOKED registration awaiting payment.
func NewSeminarParticipant(seminar *Seminar, user *User, registeredAt time.Time) *SeminarParticipant {
	p := &SeminarParticipant{
		SeminarID:    seminar.ID,
		UserID:       user.ID,
		UserName:     user.Name,
		UserAvatar:   user.AvatarURL,
		RegisteredAt: registeredAt,
	}
	if seminar.Price == 0 {
		p.Status = ParticipantRegistered
		p.PaymentStatus = PaymentFree
	} else {
		p.Status = ParticipantBooked
		p.PaymentStatus = PaymentUnpaid
	}
	return p
}

// SeminarUpdate carries optional seminar fields for partial updates. Nil
// fields are unchanged.
type SeminarUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Format      *EventFormat
	Price       *int64
}

// SeminarRepository defines the interface for seminar storage.
type SeminarRepository interface {
	Create(ctx context.Context, s *Seminar) error
	GetByID(ctx context.Context, id string) (*Seminar, error)
	List(ctx context.Context) ([]*Seminar, error)
	ListByStatus(ctx context.Context, status SeminarStatus) ([]*Seminar, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Seminar, error)
	Update(ctx context.Context, id string, upd SeminarUpdate) (*Seminar, error)
	// UpdateStatus writes the new status unconditionally. Missing row returns ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status SeminarStatus) (*Seminar, error)
	// StartLifecycle moves the seminar to ONGOING with the given live room id
	// and the room flagged open. An empty roomID leaves the room closed
	// (offline seminars).
	StartLifecycle(ctx context.Context, id, roomID string) (*Seminar, error)
	// CloseLifecycle moves the seminar to the given terminal status, clears
	// the room id, and forces both room-open and registration-open to false.
	CloseLifecycle(ctx context.Context, id string, status SeminarStatus) (*Seminar, error)
	Delete(ctx context.Context, id string) error
}

// SeminarParticipantRepository defines the interface for registration
// storage. Create enforces uniqueness on (seminar, user) and returns
// ErrAlreadyRegistered on a duplicate.
type SeminarParticipantRepository interface {
	Create(ctx context.Context, p *SeminarParticipant) error
	GetBySeminarAndUser(ctx context.Context, seminarID, userID string) (*SeminarParticipant, error)
	ListBySeminarID(ctx context.Context, seminarID string, params PaginationParams) ([]*SeminarParticipant, int, error)
	ListByUserID(ctx context.Context, userID string) ([]*SeminarParticipant, error)
}

// SeminarDetail bundles a seminar with the caller's own registration, if any.
type SeminarDetail struct {
	Seminar      *Seminar              `json:"seminar"`
	Participants []*SeminarParticipant `json:"participants"`
	Participant  *SeminarParticipant   `json:"participant"`
}

// SeminarService defines seminar lifecycle and registration operations.
type SeminarService interface {
	CreateSeminar(ctx context.Context, s *Seminar) error
	UpdateSeminar(ctx context.Context, id string, upd SeminarUpdate) (*Seminar, error)
	// ScheduleSeminar publishes a draft, opening it to registration.
	ScheduleSeminar(ctx context.Context, id string) (*Seminar, error)
	// StartSeminar moves the seminar to ONGOING. Online and hybrid seminars
	// get a generated room name and a best-effort room creation after the
	// status write commits.
	StartSeminar(ctx context.Context, id string) (*Seminar, error)
	// CancelSeminar and EndSeminar close the lifecycle, force the room and
	// registration closed, and best-effort delete the live room if one was
	// open.
	CancelSeminar(ctx context.Context, id string) (*Seminar, error)
	EndSeminar(ctx context.Context, id string) (*Seminar, error)
	// DeleteSeminar removes the seminar and best-effort deletes its room.
	DeleteSeminar(ctx context.Context, id string) error

	// RegisterParticipant registers the calling user. Permitted only while
	// the seminar is SCHEDULED or ONGOING; status and payment status derive
	// from the seminar's price at this instant.
	RegisterParticipant(ctx context.Context, seminarID, userID string) (*SeminarParticipant, error)
	// RegisterParticipantByAdmin registers on behalf of a user; additionally
	// requires the user's email to be verified.
	RegisterParticipantByAdmin(ctx context.Context, seminarID, userID string) (*SeminarParticipant, error)

	GetSeminar(ctx context.Context, id, callerID string, includeDraft bool) (*SeminarDetail, error)
	ListSeminars(ctx context.Context) ([]*Seminar, error)
	ListSeminarsByStatus(ctx context.Context, status SeminarStatus) ([]*Seminar, error)
	ListParticipants(ctx context.Context, seminarID string, params PaginationParams) ([]*SeminarParticipant, int, error)
	ListMyParticipations(ctx context.Context, userID string) ([]*SeminarParticipant, error)
}
