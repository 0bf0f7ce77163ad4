package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"expomeet/internal/domain"
)

type seminarParticipantRepository struct {
	DB *sql.DB
}

func NewSeminarParticipantRepository(db *sql.DB) domain.SeminarParticipantRepository {
	return &seminarParticipantRepository{DB: db}
}

// user_name and user_avatar are snapshots taken at registration time, not a
// join against users: a later rename or avatar change must not rewrite what
// the registration looked like when it was made.
const participantColumns = `id, seminar_id, user_id, user_name, user_avatar, status, payment_status, registered_at`

func scanParticipant(row rowScanner) (*domain.SeminarParticipant, error) {
	p := &domain.SeminarParticipant{}
	var avatarNull sql.NullString
	err := row.Scan(
		&p.ID, &p.SeminarID, &p.UserID, &p.UserName, &avatarNull,
		&p.Status, &p.PaymentStatus, &p.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	if avatarNull.Valid {
		p.UserAvatar = &avatarNull.String
	}
	return p, nil
}

func (r *seminarParticipantRepository) Create(ctx context.Context, p *domain.SeminarParticipant) error {
	query := `
		INSERT INTO seminar_participants (seminar_id, user_id, user_name, user_avatar, status, payment_status, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.SeminarID, p.UserID, p.UserName, p.UserAvatar, p.Status, p.PaymentStatus, p.RegisteredAt).Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *seminarParticipantRepository) GetBySeminarAndUser(ctx context.Context, seminarID, userID string) (*domain.SeminarParticipant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM seminar_participants
		WHERE seminar_id = $1 AND user_id = $2
	`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, seminarID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *seminarParticipantRepository) ListBySeminarID(ctx context.Context, seminarID string, params domain.PaginationParams) ([]*domain.SeminarParticipant, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM seminar_participants WHERE seminar_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, seminarID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + participantColumns + `
		FROM seminar_participants
		WHERE seminar_id = $1
		ORDER BY registered_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, seminarID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	participants := make([]*domain.SeminarParticipant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, 0, err
		}
		participants = append(participants, p)
	}
	return participants, total, rows.Err()
}

func (r *seminarParticipantRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.SeminarParticipant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM seminar_participants
		WHERE user_id = $1
		ORDER BY registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	participants := make([]*domain.SeminarParticipant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
