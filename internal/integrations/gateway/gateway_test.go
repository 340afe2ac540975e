package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
)

type mockLinkAPI struct {
	mock.Mock
}

func (m *mockLinkAPI) CreateLink(op *operations.CreateLink) (*omise.Link, error) {
	args := m.Called(op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*omise.Link), args.Error(1)
}

func sampleCheckout() Checkout {
	return Checkout{
		PaymentID:     "pay-1",
		AppointmentID: "apt-1",
		Amount:        decimal.RequireFromString("150.5"),
		Currency:      "TND",
		Method:        domain.MethodGatewayA,
		Description:   "ORIENTATION_SESSION",
	}
}

func TestOmiseGateway_Initiate(t *testing.T) {
	api := new(mockLinkAPI)

	link := &omise.Link{PaymentURI: "https://pay.example/link_1"}
	link.ID = "link_1"

	api.On("CreateLink", mock.MatchedBy(func(op *operations.CreateLink) bool {
		return op.Amount == 15050 && op.Currency == "tnd" && !op.Multiple
	})).Return(link, nil)

	session, err := NewOmiseGateway(api, logger.NewNop()).Initiate(context.Background(), sampleCheckout())
	require.NoError(t, err)
	assert.Equal(t, "link_1", session.Reference)
	assert.Equal(t, "https://pay.example/link_1", session.PaymentURL)
	api.AssertExpectations(t)
}

func TestOmiseGateway_Initiate_ProviderError(t *testing.T) {
	api := new(mockLinkAPI)
	api.On("CreateLink", mock.Anything).Return(nil, errors.New("authentication failure"))

	_, err := NewOmiseGateway(api, logger.NewNop()).Initiate(context.Background(), sampleCheckout())
	assert.ErrorIs(t, err, ErrInitiate)
}

func TestOmiseGateway_Initiate_InvalidAmount(t *testing.T) {
	checkout := sampleCheckout()
	checkout.Amount = decimal.Zero

	_, err := NewOmiseGateway(new(mockLinkAPI), logger.NewNop()).Initiate(context.Background(), checkout)
	assert.ErrorIs(t, err, ErrInvalidCheckout)
}

func TestOmiseGateway_Initiate_ContextDeadline(t *testing.T) {
	api := new(mockLinkAPI)
	api.On("CreateLink", mock.Anything).
		After(200*time.Millisecond).
		Return(&omise.Link{PaymentURI: "https://late"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewOmiseGateway(api, logger.NewNop()).Initiate(ctx, sampleCheckout())
	assert.ErrorIs(t, err, ErrInitiate)
}

func TestNewOmiseClient_RequestTimeout(t *testing.T) {
	client, err := NewOmiseClient("pkey_test_5x", "skey_test_5x", 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, client.client.Client.Timeout)
}

// Зависший провайдер не держит вызов дольше дедлайна контекста
func TestOmiseGateway_Initiate_StalledProviderReleasedByDeadline(t *testing.T) {
	release := make(chan time.Time)
	t.Cleanup(func() { close(release) })

	api := new(mockLinkAPI)
	api.On("CreateLink", mock.Anything).
		WaitUntil(release).
		Return(&omise.Link{PaymentURI: "https://late"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewOmiseGateway(api, logger.NewNop()).Initiate(ctx, sampleCheckout())

	assert.ErrorIs(t, err, ErrInitiate)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRegistry(t *testing.T) {
	g := NewOmiseGateway(new(mockLinkAPI), logger.NewNop())
	r := NewRegistry().Register(g, domain.MethodGatewayA, domain.MethodGatewayB)

	assert.Same(t, g, r.For(domain.MethodGatewayA))
	assert.Same(t, g, r.For(domain.MethodGatewayB))
	assert.IsType(t, Unconfigured{}, r.For(domain.MethodGatewayC))

	_, err := r.For(domain.MethodGatewayC).Initiate(context.Background(), sampleCheckout())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
