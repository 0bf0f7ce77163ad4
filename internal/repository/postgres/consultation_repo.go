package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"expomeet/internal/domain"
)

type consultationRepository struct {
	DB *sql.DB
}

func NewConsultationRepository(db *sql.DB) domain.ConsultationRepository {
	return &consultationRepository{
		DB: db,
	}
}

const consultationColumns = `id, event_id, exhibitor_id, max_slots, created_at, updated_at`

func scanConsultation(row rowScanner) (*domain.Consultation, error) {
	c := &domain.Consultation{}
	var maxNull sql.NullInt64
	err := row.Scan(&c.ID, &c.EventID, &c.ExhibitorID, &maxNull, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if maxNull.Valid {
		m := int(maxNull.Int64)
		c.MaxSlots = &m
	}
	return c, nil
}

func (r *consultationRepository) Create(ctx context.Context, c *domain.Consultation) error {
	query := `
		INSERT INTO consultations (event_id, exhibitor_id, max_slots, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.EventID, c.ExhibitorID, c.MaxSlots, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *consultationRepository) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE id = $1`
	c, err := scanConsultation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *consultationRepository) GetByEventAndExhibitor(ctx context.Context, eventID, exhibitorID string) (*domain.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE event_id = $1 AND exhibitor_id = $2`
	c, err := scanConsultation(r.DB.QueryRowContext(ctx, query, eventID, exhibitorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *consultationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE event_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	consultations := make([]*domain.Consultation, 0)
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, c)
	}
	return consultations, rows.Err()
}
