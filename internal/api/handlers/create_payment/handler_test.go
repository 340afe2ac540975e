package create_payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	createPayment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/create_payment"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/ptr"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createPayment.Request) (*createPayment.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createPayment.Response), args.Error(1)
}

func serve(uc *mockUseCase, body string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.NewNop())
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body)))
	return rec
}

func TestHandler_GatewayCheckout(t *testing.T) {
	uc := new(mockUseCase)
	appointmentID, paymentID := uuid.New(), uuid.New()

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createPayment.Request) bool {
		return req.AppointmentID == appointmentID.String() && req.PaymentMethod == "GATEWAY_A" &&
			req.Amount != nil && *req.Amount == "150"
	})).Return(&createPayment.Response{
		PaymentID:     paymentID,
		AppointmentID: appointmentID,
		Method:        domain.MethodGatewayA,
		Status:        domain.PaymentPending,
		Amount:        decimal.RequireFromString("150"),
		Currency:      "TND",
		PaymentURL:    ptr.Ptr("https://pay.example.test/links/lnk_1"),
	}, nil)

	rec := serve(uc, `{"appointmentId":"`+appointmentID.String()+`","paymentMethod":"GATEWAY_A","amount":150}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreatePaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, paymentID.String(), resp.PaymentID)
	require.NotNil(t, resp.PaymentURL)
	assert.Equal(t, "https://pay.example.test/links/lnk_1", *resp.PaymentURL)
	uc.AssertExpectations(t)
}

func TestHandler_BankTransferHasNullURL(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createPayment.Request) bool {
		return req.Amount != nil && *req.Amount == "150.00"
	})).Return(&createPayment.Response{
		PaymentID: uuid.New(),
		Method:    domain.MethodBankTransfer,
		Status:    domain.PaymentPending,
		Amount:    decimal.RequireFromString("150"),
	}, nil)

	rec := serve(uc, `{"appointmentId":"x","paymentMethod":"BANK_TRANSFER","amount":"150.00"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"paymentUrl":null`)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", createPayment.ErrInvalidInput, http.StatusBadRequest},
		{"amount mismatch", createPayment.ErrAmountMismatch, http.StatusBadRequest},
		{"not found", createPayment.ErrAppointmentNotFound, http.StatusNotFound},
		{"not payable", createPayment.ErrAppointmentNotPayable, http.StatusConflict},
		{"already paid", createPayment.ErrDuplicatePayment, http.StatusConflict},
		{"gateway down", createPayment.ErrGatewayUnavailable, http.StatusServiceUnavailable},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, `{"appointmentId":"x","paymentMethod":"GATEWAY_A"}`)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandler_RejectsNonNumericAmount(t *testing.T) {
	uc := new(mockUseCase)

	rec := serve(uc, `{"appointmentId":"x","paymentMethod":"GATEWAY_A","amount":true}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
