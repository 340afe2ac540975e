package appointment

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"
)

func setupTestRepository(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return NewRepository(db), db, mock
}

func withTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) context.Context {
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return dbmetrics.WithTx(context.Background(), tx)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	now := time.Now().UTC()
	a := &domain.Appointment{
		ID:          uuid.New(),
		ClientName:  "Amal",
		Email:       "amal@example.com",
		Phone:       "+21620000000",
		Service:     domain.ServiceOrientationSession,
		ScheduledAt: time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC),
		Status:      domain.AppointmentPending,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs(a.ID, a.ClientName, a.Email, a.Phone, "ORIENTATION_SESSION", a.ScheduledAt, nil, "pending", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SlotViolation(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: pgUniqueViolation, Constraint: activeSlotConstraint})

	_, err := repo.Create(context.Background(), &domain.Appointment{ID: uuid.New(), Status: domain.AppointmentPending})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestRepository_Create_OtherError(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	serialization := &pq.Error{Code: "40001"}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).WillReturnError(serialization)

	_, err := repo.Create(context.Background(), &domain.Appointment{ID: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	id := uuid.New()
	scheduled := time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(appointmentColumns).AddRow(
		id.String(), "Amal", "amal@example.com", "+21620000000", "CV_REVIEW", scheduled,
		"hello", "confirmed", nil, nil, "evt-1", nil, now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, client_name")).
		WithArgs(id).
		WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, domain.ServiceCVReview, a.Service)
	assert.Equal(t, domain.AppointmentConfirmed, a.Status)
	require.NotNil(t, a.Message)
	assert.Equal(t, "hello", *a.Message)
	assert.Nil(t, a.BookedBy)
	assert.True(t, a.HasCalendarEvent())
	assert.Nil(t, a.CancelledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, client_name")).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_GetByID_LocksInTransaction(t *testing.T) {
	repo, db, mock := setupTestRepository(t)
	ctx := withTx(t, db, mock)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE id = \$1 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExistsActiveAt(t *testing.T) {
	instant := time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC)

	t.Run("taken", func(t *testing.T) {
		repo, db, mock := setupTestRepository(t)
		ctx := withTx(t, db, mock)

		mock.ExpectQuery(`SELECT id FROM appointments WHERE scheduled_at = \$1 AND status IN \(\$2,\$3\) LIMIT 1 FOR UPDATE`).
			WithArgs(instant, "pending", "confirmed").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

		taken, err := repo.ExistsActiveAt(ctx, instant)
		require.NoError(t, err)
		assert.True(t, taken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("free", func(t *testing.T) {
		repo, _, mock := setupTestRepository(t)

		mock.ExpectQuery(`SELECT id FROM appointments`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		taken, err := repo.ExistsActiveAt(context.Background(), instant)
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestRepository_ListActiveInstants(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	from := time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	first := from.Add(9 * time.Hour)
	second := from.Add(11 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT scheduled_at FROM appointments")).
		WithArgs(from, to, "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"scheduled_at"}).AddRow(first).AddRow(second))

	instants, err := repo.ListActiveInstants(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{first, second}, instants)
}

func TestRepository_TransitionStatus(t *testing.T) {
	id := uuid.New()

	t.Run("cancel sets cancelled_at", func(t *testing.T) {
		repo, _, mock := setupTestRepository(t)

		mock.ExpectExec(`UPDATE appointments SET status = \$1, updated_at = NOW\(\), cancelled_at = NOW\(\)`).
			WithArgs("cancelled", id, "pending", "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TransitionStatus(context.Background(), id,
			[]domain.AppointmentStatus{domain.AppointmentPending, domain.AppointmentConfirmed},
			domain.AppointmentCancelled,
		)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status mismatch", func(t *testing.T) {
		repo, _, mock := setupTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.TransitionStatus(context.Background(), id,
			[]domain.AppointmentStatus{domain.AppointmentPending},
			domain.AppointmentConfirmed,
		)
		assert.ErrorIs(t, err, ErrStatusMismatch)
	})
}

func TestRepository_SetCalendarEventID_NotFound(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET calendar_event_id")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetCalendarEventID(context.Background(), uuid.New(), "evt-1")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_UpdateNotes(t *testing.T) {
	repo, _, mock := setupTestRepository(t)

	notes := "called the client"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET admin_notes")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateNotes(context.Background(), uuid.New(), &notes)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
