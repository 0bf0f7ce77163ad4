package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"expomeet/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventTestColumns = []string{"id", "title", "description", "thumbnail", "start_date", "end_date", "location", "format", "status", "created_at", "updated_at"}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name:  "success",
			event: domain.NewEvent("Tech Expo 2025", domain.FormatHybrid, ts, ts.AddDate(0, 0, 2), ts, ts),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs("Tech Expo 2025", nil, nil, ts, ts.AddDate(0, 0, 2), nil, domain.FormatHybrid, domain.EventDraft, ts, ts).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name:  "db error",
			event: domain.NewEvent("Expo", domain.FormatOffline, ts, ts, ts, ts),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, thumbnail, start_date`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventTestColumns).
						AddRow("ev-1", "Expo", "about", nil, ts, ts.AddDate(0, 0, 1), "Hall A", "HYBRID", "SCHEDULED", ts, ts))
			},
			want: &domain.Event{
				ID:          "ev-1",
				Title:       "Expo",
				Description: strPtr("about"),
				StartDate:   ts,
				EndDate:     ts.AddDate(0, 0, 1),
				Location:    strPtr("Hall A"),
				Format:      domain.FormatHybrid,
				Status:      domain.EventScheduled,
				CreatedAt:   ts,
				UpdatedAt:   ts,
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, thumbnail, start_date`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  domain.EventStatus
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "writes status unconditionally",
			status: domain.EventCanceled,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET status = \$1`).
					WithArgs(domain.EventCanceled, "ev-1").
					WillReturnRows(sqlmock.NewRows(eventTestColumns).
						AddRow("ev-1", "Expo", nil, nil, ts, ts, nil, "ONLINE", "CANCELED", ts, ts))
			},
		},
		{
			name:   "not found",
			status: domain.EventOngoing,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET status = \$1`).
					WithArgs(domain.EventOngoing, "ev-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.UpdateStatus(ctx, "ev-1", tt.status)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.status, got.Status)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("partial update touches only provided fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		title := "Renamed Expo"
		loc := "Hall B"
		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), title = \$1, location = \$2`).
			WithArgs(title, loc, "ev-1").
			WillReturnRows(sqlmock.NewRows(eventTestColumns).
				AddRow("ev-1", title, nil, nil, ts, ts, loc, "OFFLINE", "DRAFT", ts, ts))

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", domain.EventUpdate{Title: &title, Location: &loc})
		require.NoError(t, err)
		require.Equal(t, title, got.Title)
		require.Equal(t, &loc, got.Location)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update falls back to read", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, thumbnail, start_date`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(eventTestColumns).
				AddRow("ev-1", "Expo", nil, nil, ts, ts, nil, "ONLINE", "DRAFT", ts, ts))

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", domain.EventUpdate{})
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
