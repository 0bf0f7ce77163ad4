package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"expomeet/internal/domain"
)

type seminarService struct {
	seminarRepo     domain.SeminarRepository
	participantRepo domain.SeminarParticipantRepository
	userRepo        domain.UserRepository
	rooms           domain.RoomService
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewSeminarService creates the seminar lifecycle coordinator.
func NewSeminarService(
	seminarRepo domain.SeminarRepository,
	participantRepo domain.SeminarParticipantRepository,
	userRepo domain.UserRepository,
	rooms domain.RoomService,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SeminarService {
	return &seminarService{
		seminarRepo:     seminarRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		rooms:           rooms,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

const roomNameLength = 10

var roomNameAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateRoomName() (string, error) {
	b := make([]rune, roomNameLength)
	max := big.NewInt(int64(len(roomNameAlphabet)))
	for i := 0; i < roomNameLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = roomNameAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *seminarService) CreateSeminar(ctx context.Context, sem *domain.Seminar) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if sem.Title == "" || !sem.Format.Valid() || sem.Price < 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	sem.CreatedAt = now
	sem.UpdatedAt = now
	if sem.Status == "" {
		sem.Status = domain.SeminarDraft
	}
	return s.seminarRepo.Create(ctx, sem)
}

func (s *seminarService) UpdateSeminar(ctx context.Context, id string, upd domain.SeminarUpdate) (*domain.Seminar, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.seminarRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update seminar: %w", err)
	}
	return seminar, nil
}

func (s *seminarService) ScheduleSeminar(ctx context.Context, id string) (*domain.Seminar, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.seminarRepo.UpdateStatus(ctx, id, domain.SeminarScheduled)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("schedule seminar: %w", err)
	}
	return seminar, nil
}

func (s *seminarService) StartSeminar(ctx context.Context, id string) (*domain.Seminar, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.getSeminar(ctx, id)
	if err != nil {
		return nil, err
	}

	roomName := ""
	if seminar.NeedsRoom() {
		roomName, err = generateRoomName()
		if err != nil {
			return nil, fmt.Errorf("generate room name: %w", err)
		}
	}

	started, err := s.seminarRepo.StartLifecycle(ctx, id, roomName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("start seminar: %w", err)
	}
	if roomName != "" {
		if _, err := s.rooms.CreateRoom(ctx, roomName, ""); err != nil {
			s.logger.WarnContext(ctx, "room creation failed", "seminar_id", id, "room", roomName, "err", err)
		}
	}
	return started, nil
}

func (s *seminarService) CancelSeminar(ctx context.Context, id string) (*domain.Seminar, error) {
	return s.close(ctx, id, domain.SeminarCanceled)
}

func (s *seminarService) EndSeminar(ctx context.Context, id string) (*domain.Seminar, error) {
	return s.close(ctx, id, domain.SeminarDone)
}

// close moves the seminar into a terminal status, forcing the room and
// registration closed. The room, if one existed, is deleted after the
// status write commits; a delete failure is logged and swallowed.
func (s *seminarService) close(ctx context.Context, id string, status domain.SeminarStatus) (*domain.Seminar, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.getSeminar(ctx, id)
	if err != nil {
		return nil, err
	}
	roomID := seminar.OnlineRoomID

	closed, err := s.seminarRepo.CloseLifecycle(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("close seminar: %w", err)
	}
	if roomID != nil && *roomID != "" {
		if err := s.rooms.DeleteRoom(ctx, *roomID); err != nil {
			s.logger.WarnContext(ctx, "room deletion failed", "seminar_id", id, "room", *roomID, "err", err)
		}
	}
	return closed, nil
}

func (s *seminarService) DeleteSeminar(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.getSeminar(ctx, id)
	if err != nil {
		return err
	}
	if err := s.seminarRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete seminar: %w", err)
	}
	if seminar.OnlineRoomID != nil && *seminar.OnlineRoomID != "" {
		if err := s.rooms.DeleteRoom(ctx, *seminar.OnlineRoomID); err != nil {
			s.logger.WarnContext(ctx, "room deletion failed", "seminar_id", id, "room", *seminar.OnlineRoomID, "err", err)
		}
	}
	return nil
}

func (s *seminarService) RegisterParticipant(ctx context.Context, seminarID, userID string) (*domain.SeminarParticipant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.getSeminar(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if seminar.Status == domain.SeminarDraft {
		// Drafts are invisible to participants.
		return nil, domain.ErrNotFound
	}
	if !seminar.AcceptsRegistrations() {
		return nil, domain.ErrInvalidState
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.register(ctx, seminar, user)
}

func (s *seminarService) RegisterParticipantByAdmin(ctx context.Context, seminarID, userID string) (*domain.SeminarParticipant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.getSeminar(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if seminar.Status == domain.SeminarDone || seminar.Status == domain.SeminarCanceled {
		return nil, domain.ErrInvalidState
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.EmailVerified {
		return nil, domain.ErrInvalidInput
	}
	return s.register(ctx, seminar, user)
}

// register derives the participant from the seminar's price at this instant
// and stores it. The confirmation email is best-effort.
func (s *seminarService) register(ctx context.Context, seminar *domain.Seminar, user *domain.User) (*domain.SeminarParticipant, error) {
	participant := domain.NewSeminarParticipant(seminar, user, time.Now())
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create seminar participant: %w", err)
	}
	data := &domain.SeminarRegistrationEmailData{
		Email:         user.Email,
		UserName:      user.Name,
		SeminarTitle:  seminar.Title,
		StartDate:     seminar.StartDate.Format(time.RFC1123),
		PaymentStatus: participant.PaymentStatus,
	}
	if err := s.emailService.SendSeminarRegistration(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration email failed", "seminar_id", seminar.ID, "user_id", user.ID, "err", err)
	}
	return participant, nil
}

func (s *seminarService) GetSeminar(ctx context.Context, id, callerID string, includeDraft bool) (*domain.SeminarDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminar, err := s.getSeminar(ctx, id)
	if err != nil {
		return nil, err
	}
	if seminar.Status == domain.SeminarDraft && !includeDraft {
		return nil, domain.ErrNotFound
	}

	detail := &domain.SeminarDetail{Seminar: seminar}
	if callerID != "" {
		participant, err := s.participantRepo.GetBySeminarAndUser(ctx, id, callerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get participation: %w", err)
		}
		detail.Participant = participant
	}
	return detail, nil
}

func (s *seminarService) ListSeminars(ctx context.Context) ([]*domain.Seminar, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	seminars, err := s.seminarRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	if seminars == nil {
		seminars = []*domain.Seminar{}
	}
	return seminars, nil
}

func (s *seminarService) ListSeminarsByStatus(ctx context.Context, status domain.SeminarStatus) ([]*domain.Seminar, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	seminars, err := s.seminarRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	if seminars == nil {
		seminars = []*domain.Seminar{}
	}
	return seminars, nil
}

func (s *seminarService) ListParticipants(ctx context.Context, seminarID string, params domain.PaginationParams) ([]*domain.SeminarParticipant, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getSeminar(ctx, seminarID); err != nil {
		return nil, 0, err
	}
	participants, total, err := s.participantRepo.ListBySeminarID(ctx, seminarID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.SeminarParticipant{}
	}
	return participants, total, nil
}

func (s *seminarService) ListMyParticipations(ctx context.Context, userID string) ([]*domain.SeminarParticipant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	participations, err := s.participantRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	if participations == nil {
		participations = []*domain.SeminarParticipant{}
	}
	return participations, nil
}

func (s *seminarService) getSeminar(ctx context.Context, id string) (*domain.Seminar, error) {
	seminar, err := s.seminarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get seminar: %w", err)
	}
	return seminar, nil
}

func (s *seminarService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
