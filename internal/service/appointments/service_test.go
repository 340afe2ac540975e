package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	appointmentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/appointment"
	paymentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/payment"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments/models"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/ptr"
)

// memRepo записи и платежи в памяти, реализует оба репозитория
type memRepo struct {
	appointments map[uuid.UUID]*domain.Appointment
	payments     map[uuid.UUID]*domain.Payment
}

func newMemRepo() *memRepo {
	return &memRepo{
		appointments: make(map[uuid.UUID]*domain.Appointment),
		payments:     make(map[uuid.UUID]*domain.Payment),
	}
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memRepo) TransitionStatus(_ context.Context, id uuid.UUID, from []domain.AppointmentStatus, to domain.AppointmentStatus) error {
	a := r.appointments[id]
	for _, s := range from {
		if a.Status == s {
			a.Status = to
			return nil
		}
	}
	return appointmentRepo.ErrStatusMismatch
}

func (r *memRepo) UpdateNotes(_ context.Context, id uuid.UUID, notes *string) error {
	r.appointments[id].AdminNotes = notes
	return nil
}

type memPayments struct{ repo *memRepo }

func (p memPayments) GetLatestByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*domain.Payment, error) {
	payment, ok := p.repo.payments[appointmentID]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}

func (p memPayments) TransitionStatus(_ context.Context, id uuid.UUID, to domain.PaymentStatus, _ *string, _ *domain.PaymentMethod) error {
	for _, payment := range p.repo.payments {
		if payment.ID == id && payment.Status == domain.PaymentPending {
			payment.Status = to
			return nil
		}
	}
	return paymentRepo.ErrStatusMismatch
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) PaymentConfirmed(a domain.Appointment, p domain.Payment) {
	m.Called(a, p)
}

func seed(repo *memRepo, status domain.AppointmentStatus, method domain.PaymentMethod) *domain.Appointment {
	a := &domain.Appointment{
		ID:          uuid.New(),
		ClientName:  "Amal",
		Email:       "amal@example.com",
		Service:     domain.ServiceCVReview,
		ScheduledAt: time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC),
		Status:      status,
	}
	repo.appointments[a.ID] = a
	repo.payments[a.ID] = &domain.Payment{
		ID:            uuid.New(),
		AppointmentID: a.ID,
		Amount:        decimal.RequireFromString("80"),
		Currency:      "TND",
		Method:        method,
		Status:        domain.PaymentPending,
	}
	return a
}

func newService(repo *memRepo, notifier Notifier) *Service {
	return NewService(repo, memPayments{repo: repo}, passthroughTx{}, notifier, time.UTC, logger.NewNop())
}

func TestGetByID(t *testing.T) {
	repo := newMemRepo()
	a := seed(repo, domain.AppointmentPending, domain.MethodBankTransfer)

	resp, err := newService(repo, &mockNotifier{}).GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "2030-03-15", resp.Date)
	assert.Equal(t, "09:00", resp.Time)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, "80.00", resp.Payment.Amount)
	assert.Equal(t, "BANK_TRANSFER", resp.Payment.Method)
}

func TestGetByID_NotFound(t *testing.T) {
	_, err := newService(newMemRepo(), &mockNotifier{}).GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdate_ManualConfirmationSettlesBankTransfer(t *testing.T) {
	repo := newMemRepo()
	a := seed(repo, domain.AppointmentPending, domain.MethodBankTransfer)

	notifier := &mockNotifier{}
	notifier.On("PaymentConfirmed", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentCompleted
	})).Return()

	resp, err := newService(repo, notifier).Update(context.Background(), a.ID, &models.UpdateRequest{
		Actor:  "admin@becof.tn",
		Status: ptr.Ptr("CONFIRMED"),
		Notes:  ptr.Ptr("virement reçu"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "COMPLETED", resp.Payment.Status)
	assert.Equal(t, "virement reçu", ptr.Value(resp.AdminNotes))
	notifier.AssertExpectations(t)
}

func TestUpdate_GatewayPaymentLeftAlone(t *testing.T) {
	repo := newMemRepo()
	a := seed(repo, domain.AppointmentPending, domain.MethodGatewayA)

	notifier := &mockNotifier{}
	resp, err := newService(repo, notifier).Update(context.Background(), a.ID, &models.UpdateRequest{
		Actor:  "admin@becof.tn",
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "PENDING", resp.Payment.Status)
	notifier.AssertNotCalled(t, "PaymentConfirmed", mock.Anything, mock.Anything)
}

func TestUpdate_InvalidTransition(t *testing.T) {
	repo := newMemRepo()
	a := seed(repo, domain.AppointmentPending, domain.MethodBankTransfer)

	_, err := newService(repo, &mockNotifier{}).Update(context.Background(), a.ID, &models.UpdateRequest{
		Actor:  "admin@becof.tn",
		Status: ptr.Ptr("COMPLETED"),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.AppointmentPending, repo.appointments[a.ID].Status)
}

func TestUpdate_Validation(t *testing.T) {
	svc := newService(newMemRepo(), &mockNotifier{})

	_, err := svc.Update(context.Background(), uuid.New(), &models.UpdateRequest{Status: ptr.Ptr("CONFIRMED")})
	assert.ErrorIs(t, err, ErrActorRequired)

	_, err = svc.Update(context.Background(), uuid.New(), &models.UpdateRequest{Actor: "admin", Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(context.Background(), uuid.New(), &models.UpdateRequest{Actor: "admin", Status: ptr.Ptr("cancelled")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_ClearNotes(t *testing.T) {
	repo := newMemRepo()
	a := seed(repo, domain.AppointmentConfirmed, domain.MethodBankTransfer)
	repo.appointments[a.ID].AdminNotes = ptr.Ptr("old")

	resp, err := newService(repo, &mockNotifier{}).Update(context.Background(), a.ID, &models.UpdateRequest{
		Actor: "admin",
		Notes: ptr.Ptr("  "),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.AdminNotes)
}
