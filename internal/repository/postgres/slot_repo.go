package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"expomeet/internal/domain"
)

type slotRepository struct {
	DB *sql.DB
}

func NewConsultationSlotRepository(db *sql.DB) domain.ConsultationSlotRepository {
	return &slotRepository{
		DB: db,
	}
}

const slotColumns = `id, consultation_id, start_time, end_time, status, participant_id, participant_name, created_at, updated_at`

func scanSlot(row rowScanner) (*domain.ConsultationSlot, error) {
	s := &domain.ConsultationSlot{}
	var pidNull, pnameNull sql.NullString
	err := row.Scan(
		&s.ID, &s.ConsultationID, &s.StartTime, &s.EndTime, &s.Status,
		&pidNull, &pnameNull, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if pidNull.Valid {
		s.ParticipantID = &pidNull.String
	}
	if pnameNull.Valid {
		s.ParticipantName = &pnameNull.String
	}
	return s, nil
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*domain.ConsultationSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO consultation_slots (consultation_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	created := 0
	for _, s := range slots {
		if err := tx.QueryRowContext(ctx, query, s.ConsultationID, s.StartTime, s.EndTime, s.Status, s.CreatedAt, s.UpdatedAt).Scan(&s.ID); err != nil {
			return 0, err
		}
		created++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}

func (r *slotRepository) GetByID(ctx context.Context, id string) (*domain.ConsultationSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM consultation_slots WHERE id = $1`
	s, err := scanSlot(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) ListByConsultationID(ctx context.Context, consultationID string) ([]*domain.ConsultationSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM consultation_slots WHERE consultation_id = $1 ORDER BY start_time ASC`
	return r.querySlots(ctx, query, consultationID)
}

func (r *slotRepository) ListByParticipantAndStatus(ctx context.Context, participantID string, statuses []domain.SlotStatus) ([]*domain.ConsultationSlot, error) {
	placeholders := make([]string, len(statuses))
	args := []interface{}{participantID}
	for i, st := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, st)
	}
	query := fmt.Sprintf(`
		SELECT `+slotColumns+`
		FROM consultation_slots
		WHERE participant_id = $1 AND status IN (%s)
		ORDER BY start_time ASC
	`, strings.Join(placeholders, ", "))
	return r.querySlots(ctx, query, args...)
}

func (r *slotRepository) querySlots(ctx context.Context, query string, args ...interface{}) ([]*domain.ConsultationSlot, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]*domain.ConsultationSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// UpdateStatusIfCurrent performs the conditional status write the booking
// state machine relies on. The WHERE clause pins the expected status, so of
// any number of concurrent attempts exactly one matches the row; the rest
// scan zero rows and surface ErrConflict. Participant columns are written
// when a participant is supplied, cleared when the target status does not
// allow one, and left untouched otherwise.
func (r *slotRepository) UpdateStatusIfCurrent(ctx context.Context, slotID string, expected, target domain.SlotStatus, participant *domain.SlotParticipant) (*domain.ConsultationSlot, error) {
	var query string
	args := []interface{}{target, slotID, expected}
	switch {
	case participant != nil:
		query = `
			UPDATE consultation_slots
			SET status = $1, participant_id = $4, participant_name = $5, updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING ` + slotColumns
		args = append(args, participant.ID, participant.Name)
	case !target.AllowsParticipant():
		query = `
			UPDATE consultation_slots
			SET status = $1, participant_id = NULL, participant_name = NULL, updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING ` + slotColumns
	default:
		query = `
			UPDATE consultation_slots
			SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING ` + slotColumns
	}
	s, err := scanSlot(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row missing or no longer in the expected status; the caller
			// re-reads to tell the two apart.
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return s, nil
}

// CancelIfBookedBy pins both the BOOKED status and the participant in the
// WHERE clause, so a slot that was freed and rebooked by another user between
// the caller's read and this write scans zero rows instead of canceling the
// new owner's booking.
func (r *slotRepository) CancelIfBookedBy(ctx context.Context, slotID, participantID string) (*domain.ConsultationSlot, error) {
	query := `
		UPDATE consultation_slots
		SET status = $1, participant_id = NULL, participant_name = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND participant_id = $4
		RETURNING ` + slotColumns
	s, err := scanSlot(r.DB.QueryRowContext(ctx, query, domain.SlotCanceled, slotID, domain.SlotBooked, participantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) ClearParticipant(ctx context.Context, slotID string) (*domain.ConsultationSlot, error) {
	query := `
		UPDATE consultation_slots
		SET status = $1, participant_id = NULL, participant_name = NULL, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + slotColumns
	s, err := scanSlot(r.DB.QueryRowContext(ctx, query, domain.SlotAvailable, slotID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) Delete(ctx context.Context, slotID string) error {
	query := `DELETE FROM consultation_slots WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, slotID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
