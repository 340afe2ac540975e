package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	appointmentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/appointment"
	paymentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/payment"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/ptr"
)

// UseCase use case отмены записи (мягкое удаление)
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

// Execute переводит запись pending|confirmed -> cancelled
// Повторная отмена успешна и не вызывает побочных эффектов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.AppointmentID == uuid.Nil {
		return nil, fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}

	uc.logger.Info("CancelAppointment: id=%s, actor=%s", req.AppointmentID, ptr.Value(req.Actor))

	var (
		appointment      *domain.Appointment
		alreadyCancelled bool
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		appointment, err = uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		switch appointment.Status {
		case domain.AppointmentCancelled:
			alreadyCancelled = true
			return nil
		case domain.AppointmentCompleted:
			return ErrCannotCancel
		}

		err = uc.appointmentRepo.TransitionStatus(txCtx, appointment.ID,
			domain.ActiveAppointmentStatuses, domain.AppointmentCancelled)
		if err != nil {
			return fmt.Errorf("%w: failed to cancel appointment: %w", ErrInternal, err)
		}
		appointment.Status = domain.AppointmentCancelled
		appointment.CancelledAt = ptr.Ptr(time.Now().UTC())

		// Возврат средств не автоматизирован: оплаченная отмена требует ручной обработки
		payment, err := uc.paymentRepo.GetLatestByAppointmentID(txCtx, appointment.ID)
		switch {
		case errors.Is(err, paymentRepo.ErrPaymentNotFound):
		case err != nil:
			return fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
		case payment.Status == domain.PaymentCompleted:
			uc.logger.Warn("CancelAppointment: appointment %s cancelled with completed payment %s (%s %s), refund must be handled manually",
				appointment.ID, payment.ID, payment.Amount.String(), payment.Currency)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			uc.logger.Warn("CancelAppointment: appointment %s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, ErrCannotCancel):
			uc.logger.Warn("CancelAppointment: appointment %s is completed", req.AppointmentID)
			return nil, ErrCannotCancel
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CancelAppointment: %v", err)
			return nil, err
		default:
			uc.logger.Error("CancelAppointment: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
		}
	}

	resp := &Response{
		AppointmentID:    appointment.ID,
		Status:           appointment.Status,
		CancelledAt:      appointment.CancelledAt,
		AlreadyCancelled: alreadyCancelled,
	}

	if alreadyCancelled {
		uc.logger.Info("CancelAppointment: appointment %s already cancelled", appointment.ID)
		return resp, nil
	}

	uc.logger.Info("CancelAppointment: appointment %s cancelled", appointment.ID)
	uc.notifier.Cancelled(*appointment)

	return resp, nil
}
