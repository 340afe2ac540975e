package reconcile_payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// outcomeAliases исходы, которые присылают разные шлюзы
var outcomeAliases = map[string]domain.PaymentStatus{
	"success":    domain.PaymentCompleted,
	"succeeded":  domain.PaymentCompleted,
	"successful": domain.PaymentCompleted,
	"completed":  domain.PaymentCompleted,
	"paid":       domain.PaymentCompleted,
	"failed":     domain.PaymentFailed,
	"failure":    domain.PaymentFailed,
	"cancelled":  domain.PaymentFailed,
	"canceled":   domain.PaymentFailed,
	"expired":    domain.PaymentFailed,
	"declined":   domain.PaymentFailed,
}

// parseOutcome переводит исход шлюза в терминальный статус платежа
func parseOutcome(raw string) (domain.PaymentStatus, bool) {
	status, ok := outcomeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return status, ok
}

// validateRequest проверяет callback и собирает команду
func validateRequest(req *Request) (*command, error) {
	rawID := strings.TrimSpace(req.PaymentID)
	if rawID == "" {
		return nil, fmt.Errorf("%w: paymentId is required", ErrInvalidInput)
	}

	paymentID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: paymentId is not a valid UUID", ErrInvalidInput)
	}

	target, ok := parseOutcome(req.Outcome)
	if !ok {
		return nil, fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, req.Outcome)
	}

	cmd := &command{paymentID: paymentID, target: target}

	if req.TransactionRef != nil {
		if ref := strings.TrimSpace(*req.TransactionRef); ref != "" {
			cmd.ref = &ref
		}
	}

	if req.PaymentMethod != nil && strings.TrimSpace(*req.PaymentMethod) != "" {
		method, err := domain.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, *req.PaymentMethod)
		}
		cmd.method = &method
	}

	return cmd, nil
}
