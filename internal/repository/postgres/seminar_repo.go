package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"expomeet/internal/domain"
)

type seminarRepository struct {
	DB *sql.DB
}

func NewSeminarRepository(db *sql.DB) domain.SeminarRepository {
	return &seminarRepository{
		DB: db,
	}
}

const seminarColumns = `id, event_id, title, description, thumbnail, start_date, end_date, location, format, price, status, online_room_id, is_room_open, is_registration_open, created_at, updated_at`

func scanSeminar(row rowScanner) (*domain.Seminar, error) {
	s := &domain.Seminar{}
	var eventNull, descNull, thumbNull, locNull, roomNull sql.NullString
	err := row.Scan(
		&s.ID, &eventNull, &s.Title, &descNull, &thumbNull, &s.StartDate, &s.EndDate,
		&locNull, &s.Format, &s.Price, &s.Status, &roomNull, &s.IsRoomOpen,
		&s.IsRegistrationOpen, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if eventNull.Valid {
		s.EventID = &eventNull.String
	}
	if descNull.Valid {
		s.Description = &descNull.String
	}
	if thumbNull.Valid {
		s.Thumbnail = &thumbNull.String
	}
	if locNull.Valid {
		s.Location = &locNull.String
	}
	if roomNull.Valid {
		s.OnlineRoomID = &roomNull.String
	}
	return s, nil
}

func (r *seminarRepository) Create(ctx context.Context, s *domain.Seminar) error {
	query := `
		INSERT INTO seminars (event_id, title, description, thumbnail, start_date, end_date, location, format, price, status, is_room_open, is_registration_open, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.EventID, s.Title, s.Description, s.Thumbnail, s.StartDate, s.EndDate,
		s.Location, s.Format, s.Price, s.Status, s.IsRoomOpen, s.IsRegistrationOpen,
		s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func (r *seminarRepository) GetByID(ctx context.Context, id string) (*domain.Seminar, error) {
	query := `SELECT ` + seminarColumns + ` FROM seminars WHERE id = $1`
	s, err := scanSeminar(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *seminarRepository) List(ctx context.Context) ([]*domain.Seminar, error) {
	query := `SELECT ` + seminarColumns + ` FROM seminars ORDER BY start_date DESC`
	return r.querySeminars(ctx, query)
}

func (r *seminarRepository) ListByStatus(ctx context.Context, status domain.SeminarStatus) ([]*domain.Seminar, error) {
	query := `SELECT ` + seminarColumns + ` FROM seminars WHERE status = $1 ORDER BY start_date ASC`
	return r.querySeminars(ctx, query, status)
}

func (r *seminarRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Seminar, error) {
	query := `SELECT ` + seminarColumns + ` FROM seminars WHERE event_id = $1 ORDER BY start_date ASC`
	return r.querySeminars(ctx, query, eventID)
}

func (r *seminarRepository) querySeminars(ctx context.Context, query string, args ...interface{}) ([]*domain.Seminar, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seminars := make([]*domain.Seminar, 0)
	for rows.Next() {
		s, err := scanSeminar(rows)
		if err != nil {
			return nil, err
		}
		seminars = append(seminars, s)
	}
	return seminars, rows.Err()
}

func (r *seminarRepository) Update(ctx context.Context, id string, upd domain.SeminarUpdate) (*domain.Seminar, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *upd.Title)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.Thumbnail != nil {
		setClauses = append(setClauses, fmt.Sprintf("thumbnail = $%d", n))
		args = append(args, *upd.Thumbnail)
		n++
	}
	if upd.StartDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_date = $%d", n))
		args = append(args, *upd.StartDate)
		n++
	}
	if upd.EndDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_date = $%d", n))
		args = append(args, *upd.EndDate)
		n++
	}
	if upd.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *upd.Location)
		n++
	}
	if upd.Format != nil {
		setClauses = append(setClauses, fmt.Sprintf("format = $%d", n))
		args = append(args, *upd.Format)
		n++
	}
	if upd.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", n))
		args = append(args, *upd.Price)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE seminars SET %s
		WHERE id = $%d
		RETURNING `+seminarColumns+`
	`, strings.Join(setClauses, ", "), n)
	s, err := scanSeminar(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *seminarRepository) UpdateStatus(ctx context.Context, id string, status domain.SeminarStatus) (*domain.Seminar, error) {
	// Registration opens while the seminar is in a registrable status and
	// closes otherwise; the flag tracks the status on every write.
	query := `
		UPDATE seminars
		SET status = $1, is_registration_open = ($1 = 'SCHEDULED' OR $1 = 'ONGOING'), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + seminarColumns
	s, err := scanSeminar(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *seminarRepository) StartLifecycle(ctx context.Context, id, roomID string) (*domain.Seminar, error) {
	// NULLIF keeps the room column empty for offline seminars; the room is
	// flagged open only when a room name was supplied.
	query := `
		UPDATE seminars
		SET status = $1, online_room_id = NULLIF($2, ''), is_room_open = ($2 <> ''), updated_at = NOW()
		WHERE id = $3
		RETURNING ` + seminarColumns
	s, err := scanSeminar(r.DB.QueryRowContext(ctx, query, domain.SeminarOngoing, roomID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *seminarRepository) CloseLifecycle(ctx context.Context, id string, status domain.SeminarStatus) (*domain.Seminar, error) {
	query := `
		UPDATE seminars
		SET status = $1, online_room_id = NULL, is_room_open = FALSE, is_registration_open = FALSE, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + seminarColumns
	s, err := scanSeminar(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *seminarRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM seminars WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
