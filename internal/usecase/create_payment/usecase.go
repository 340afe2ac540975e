package create_payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/gateway"
	appointmentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/appointment"
	paymentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/payment"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/ptr"
)

const defaultGatewayTimeout = 10 * time.Second

// UseCase use case инициации оплаты записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	gateways        GatewayRegistry
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
	gatewayTimeout  time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	gateways GatewayRegistry,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		gateways:        gateways,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
		gatewayTimeout:  defaultGatewayTimeout,
	}
}

// WithGatewayTimeout задает предельное время ответа шлюза; d <= 0 игнорируется
func (uc *UseCase) WithGatewayTimeout(d time.Duration) *UseCase {
	if d > 0 {
		uc.gatewayTimeout = d
	}
	return uc
}

// Execute готовит платеж записи и, для онлайн-способов, создает сессию у шлюза
// Сумма всегда берётся из платежа, созданного при записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	cmd, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreatePayment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreatePayment: appointment=%s, method=%s", cmd.appointmentID, cmd.method)

	var (
		appointment *domain.Appointment
		payment     *domain.Payment
		reused      bool
	)

	// 2. Выбор или создание pending платежа под блокировкой записи
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		appointment, err = uc.appointmentRepo.GetByID(txCtx, cmd.appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}
		if !appointment.IsActive() {
			return fmt.Errorf("%w: appointment is %s", ErrAppointmentNotPayable, appointment.Status)
		}

		latest, err := uc.paymentRepo.GetLatestByAppointmentID(txCtx, appointment.ID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return fmt.Errorf("%w: appointment %s has no payment snapshot", ErrInternal, appointment.ID)
			}
			return fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
		}

		if latest.Status == domain.PaymentCompleted {
			return ErrDuplicatePayment
		}
		if cmd.amount != nil && !cmd.amount.Equal(latest.Amount) {
			return fmt.Errorf("%w: expected %s %s", ErrAmountMismatch, latest.Amount.String(), latest.Currency)
		}

		// 2.1. Ожидающий платеж переиспользуется
		if latest.Status == domain.PaymentPending {
			reused = true
			if latest.Method != cmd.method {
				if err := uc.paymentRepo.UpdateMethod(txCtx, latest.ID, cmd.method); err != nil {
					return fmt.Errorf("%w: failed to update payment method: %w", ErrInternal, err)
				}
				latest.Method = cmd.method
			}
			payment = latest
			return nil
		}

		// 2.2. После неудачной попытки создается новая с той же суммой
		payment, err = uc.paymentRepo.Create(txCtx, &domain.Payment{
			ID:            uuid.New(),
			AppointmentID: appointment.ID,
			Amount:        latest.Amount,
			Currency:      latest.Currency,
			Method:        cmd.method,
			Status:        domain.PaymentPending,
		})
		if err != nil {
			if errors.Is(err, paymentRepo.ErrActivePaymentExists) {
				return ErrDuplicatePayment
			}
			return fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound),
			errors.Is(err, ErrAppointmentNotPayable),
			errors.Is(err, ErrDuplicatePayment),
			errors.Is(err, ErrAmountMismatch):
			uc.logger.Warn("CreatePayment: appointment=%s: %v", cmd.appointmentID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreatePayment: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreatePayment: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
		}
	}

	resp := &Response{
		PaymentID:     payment.ID,
		AppointmentID: appointment.ID,
		Method:        payment.Method,
		Status:        payment.Status,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Reused:        reused,
	}

	// 3. Банковский перевод: только письмо с реквизитами
	if !payment.Method.IsGateway() {
		uc.logger.Info("CreatePayment: payment %s awaits bank transfer", payment.ID)
		uc.notifier.BankTransferRequested(*appointment, *payment)
		return resp, nil
	}

	// 4. Онлайн-оплата: сессия у шлюза вне транзакции, ожидание ограничено gatewayTimeout
	gatewayCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()

	session, err := uc.gateways.For(payment.Method).Initiate(gatewayCtx, gateway.Checkout{
		PaymentID:     payment.ID.String(),
		AppointmentID: appointment.ID.String(),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Method:        payment.Method,
		Description:   fmt.Sprintf("%s - %s", appointment.Service, appointment.ClientName),
		CustomerEmail: appointment.Email,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) ||
			errors.Is(err, gateway.ErrInitiate) ||
			errors.Is(err, context.DeadlineExceeded) {
			uc.logger.Warn("CreatePayment: gateway for %s unavailable, payment %s stays pending: %v",
				payment.Method, payment.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		uc.logger.Error("CreatePayment: failed to initiate payment %s: %v", payment.ID, err)
		return nil, fmt.Errorf("%w: failed to initiate payment: %w", ErrInternal, err)
	}

	// Ссылка провайдера нужна только для сверки; callback идентифицирует платеж по id
	if err := uc.paymentRepo.SetTransactionRef(ctx, payment.ID, session.Reference); err != nil {
		uc.logger.Warn("CreatePayment: failed to store reference %s for payment %s: %v",
			session.Reference, payment.ID, err)
	}

	uc.logger.Info("CreatePayment: payment %s initiated via %s, ref=%s", payment.ID, payment.Method, session.Reference)
	resp.PaymentURL = ptr.Ptr(session.PaymentURL)

	return resp, nil
}
