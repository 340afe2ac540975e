package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/ptr"
)

func setupTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := setupTestRepository(t)

	now := time.Now().UTC()
	p := &domain.Payment{
		ID:            uuid.New(),
		AppointmentID: uuid.New(),
		Amount:        decimal.RequireFromString("150"),
		Currency:      "TND",
		Method:        domain.MethodBankTransfer,
		Status:        domain.PaymentPending,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(p.ID, p.AppointmentID, "150", "TND", "bank_transfer", "pending", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, now, created.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ActivePaymentExists(t *testing.T) {
	repo, mock := setupTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnError(&pq.Error{Code: pgUniqueViolation, Constraint: activeAppointmentConstraint})

	_, err := repo.Create(context.Background(), &domain.Payment{ID: uuid.New(), AppointmentID: uuid.New()})
	assert.ErrorIs(t, err, ErrActivePaymentExists)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := setupTestRepository(t)

	id := uuid.New()
	appointmentID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, appointment_id, amount")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(paymentColumns).AddRow(
			id.String(), appointmentID.String(), "150.00", "TND", "gateway_a", "completed", "txn-1", now, now,
		))

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, appointmentID, p.AppointmentID)
	assert.True(t, decimal.RequireFromString("150").Equal(p.Amount))
	assert.Equal(t, domain.MethodGatewayA, p.Method)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
	assert.Equal(t, "txn-1", ptr.Value(p.TransactionRef))
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, appointment_id")).
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestRepository_GetLatestByAppointmentID_LocksInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	mock.ExpectQuery(`SELECT .* FROM payments WHERE appointment_id = \$1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	_, err = repo.GetLatestByAppointmentID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TransitionStatus(t *testing.T) {
	id := uuid.New()

	t.Run("records ref and method", func(t *testing.T) {
		repo, mock := setupTestRepository(t)

		method := domain.MethodGatewayB
		mock.ExpectExec(`UPDATE payments SET status = \$1, updated_at = NOW\(\), transaction_ref = \$2, method = \$3 WHERE id = \$4 AND status = \$5`).
			WithArgs("completed", "txn-9", "gateway_b", id, "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TransitionStatus(context.Background(), id, domain.PaymentCompleted, ptr.Ptr("txn-9"), &method)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already terminal", func(t *testing.T) {
		repo, mock := setupTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE payments")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.TransitionStatus(context.Background(), id, domain.PaymentFailed, nil, nil)
		assert.ErrorIs(t, err, ErrStatusMismatch)
	})
}

func TestRepository_UpdateMethod(t *testing.T) {
	repo, mock := setupTestRepository(t)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET method = $1")).
		WithArgs("gateway_c", id, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateMethod(context.Background(), id, domain.MethodGatewayC))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetTransactionRef(t *testing.T) {
	repo, mock := setupTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET transaction_ref = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetTransactionRef(context.Background(), uuid.New(), "chrg_test_1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
