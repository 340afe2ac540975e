package reconcile_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	appointmentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/appointment"
	paymentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/payment"
)

// UseCase use case обработки callback платёжного шлюза
type UseCase struct {
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         MetricsObserver
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsObserver,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute применяет исход оплаты к платежу и записи
// Повторный callback с тем же исходом ничего не меняет и не запускает уведомления.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	cmd, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ReconcilePayment: validation failed: %v", err)
		uc.metrics.ObserveWebhook(resultInvalid)
		return nil, err
	}

	uc.logger.Info("ReconcilePayment: payment=%s, outcome=%s", cmd.paymentID, cmd.target)

	var (
		payment     *domain.Payment
		appointment *domain.Appointment
		replayed    bool
	)

	// 2. Платеж и запись обновляются в одной транзакции, строка платежа заблокирована
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		payment, err = uc.paymentRepo.GetByID(txCtx, cmd.paymentID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
		}

		// 2.1. Платеж уже завершён
		if payment.IsTerminal() {
			if payment.Status == cmd.target {
				replayed = true
				return nil
			}
			return fmt.Errorf("%w: payment is %s, callback says %s", ErrOutcomeConflict, payment.Status, cmd.target)
		}

		// 2.2. pending -> completed | failed
		if err := uc.paymentRepo.TransitionStatus(txCtx, payment.ID, cmd.target, cmd.ref, cmd.method); err != nil {
			return fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
		}
		payment.Status = cmd.target
		if cmd.ref != nil {
			payment.TransactionRef = cmd.ref
		}
		if cmd.method != nil {
			payment.Method = *cmd.method
		}

		if cmd.target != domain.PaymentCompleted {
			return nil
		}

		// 2.3. Успешная оплата подтверждает ожидающую запись
		appointment, err = uc.appointmentRepo.GetByID(txCtx, payment.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: payment %s references missing appointment %s", ErrInternal, payment.ID, payment.AppointmentID)
			}
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		switch appointment.Status {
		case domain.AppointmentPending:
			err = uc.appointmentRepo.TransitionStatus(txCtx, appointment.ID,
				[]domain.AppointmentStatus{domain.AppointmentPending}, domain.AppointmentConfirmed)
			if err != nil {
				return fmt.Errorf("%w: failed to confirm appointment: %w", ErrInternal, err)
			}
			appointment.Status = domain.AppointmentConfirmed
		case domain.AppointmentConfirmed:
		default:
			uc.logger.Warn("ReconcilePayment: payment %s completed for %s appointment %s, status kept",
				payment.ID, appointment.Status, appointment.ID)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			uc.logger.Warn("ReconcilePayment: payment %s not found", cmd.paymentID)
			uc.metrics.ObserveWebhook(resultNotFound)
			return nil, ErrPaymentNotFound
		case errors.Is(err, ErrOutcomeConflict):
			uc.logger.Warn("ReconcilePayment: %v", err)
			uc.metrics.ObserveWebhook(resultConflict)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("ReconcilePayment: %v", err)
			uc.metrics.ObserveWebhook(resultError)
			return nil, err
		default:
			uc.logger.Error("ReconcilePayment: transaction failed: %v", err)
			uc.metrics.ObserveWebhook(resultError)
			return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
		}
	}

	resp := &Response{
		PaymentID:     payment.ID,
		AppointmentID: payment.AppointmentID,
		Status:        payment.Status,
		Replayed:      replayed,
	}

	if replayed {
		uc.logger.Info("ReconcilePayment: payment %s already %s, replay ignored", payment.ID, payment.Status)
		uc.metrics.ObserveWebhook(resultReplayed)
		return resp, nil
	}

	uc.logger.Info("ReconcilePayment: payment %s is now %s", payment.ID, payment.Status)
	uc.metrics.ObserveWebhook(resultProcessed)

	// 3. Уведомления только при первом успешном исходе
	if payment.Status == domain.PaymentCompleted && appointment != nil && appointment.Status == domain.AppointmentConfirmed {
		uc.notifier.PaymentConfirmed(*appointment, *payment)
	}

	return resp, nil
}
