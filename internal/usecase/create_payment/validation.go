package create_payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// validateRequest проверяет запрос и собирает команду
func validateRequest(req *Request) (*command, error) {
	appointmentID, err := uuid.Parse(strings.TrimSpace(req.AppointmentID))
	if err != nil {
		return nil, fmt.Errorf("%w: appointmentId is not a valid UUID", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, fmt.Errorf("%w: paymentMethod is required", ErrInvalidInput)
	}

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown paymentMethod %q", ErrInvalidInput, req.PaymentMethod)
	}

	cmd := &command{appointmentID: appointmentID, method: method}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(strings.TrimSpace(*req.Amount))
		if err != nil || !amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
		}
		cmd.amount = &amount
	}

	return cmd, nil
}
