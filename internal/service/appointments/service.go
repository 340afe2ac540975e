package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	appointmentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/appointment"
	paymentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/payment"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments/models"
)

// Service сервис чтения и администрирования записей
type Service struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	notifier        Notifier
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	notifier Notifier,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		notifier:        notifier,
		location:        location,
		logger:          logger,
	}
}

// GetByID получает запись с последним платежом
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appointment, payment, err := s.load(ctx, id)
	if err != nil {
		return nil, s.mapError("GetByID", id, err)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%s", id)
	return models.FromDomain(appointment, payment, s.location), nil
}

// Update меняет статус и заметки записи от имени администратора
// pending -> confirmed при ожидающем банковском переводе отмечает платеж как полученный.
// Отмена выполняется отдельным сценарием (cancel_appointment) и здесь не принимается.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateRequest) (*models.AppointmentResponse, error) {
	if strings.TrimSpace(req.Actor) == "" {
		return nil, ErrActorRequired
	}

	var target *domain.AppointmentStatus
	if req.Status != nil {
		status, err := domain.ParseAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("Update: invalid status=%s for appointment id=%s", *req.Status, id)
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		if status == domain.AppointmentCancelled {
			return nil, fmt.Errorf("%w: cancellation has its own endpoint", ErrInvalidInput)
		}
		target = &status
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	s.logger.Info("Update: appointment id=%s by %s", id, req.Actor)

	var (
		appointment    *domain.Appointment
		payment        *domain.Payment
		paymentSettled bool
		previousStatus domain.AppointmentStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		appointment, payment, err = s.load(txCtx, id)
		if err != nil {
			return err
		}
		previousStatus = appointment.Status

		// 1. Переход статуса
		if target != nil && *target != appointment.Status {
			if !appointment.CanTransitionTo(*target) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, *target)
			}

			err = s.appointmentRepo.TransitionStatus(txCtx, appointment.ID,
				[]domain.AppointmentStatus{appointment.Status}, *target)
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrStatusMismatch) {
					return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
				}
				return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
			}

			// 1.1. Ручное подтверждение банковского перевода
			if previousStatus == domain.AppointmentPending && *target == domain.AppointmentConfirmed &&
				payment != nil && payment.Status == domain.PaymentPending && payment.Method == domain.MethodBankTransfer {
				err = s.paymentRepo.TransitionStatus(txCtx, payment.ID, domain.PaymentCompleted, nil, nil)
				if err != nil {
					return fmt.Errorf("%w: failed to settle bank transfer: %w", ErrInternal, err)
				}
				paymentSettled = true
			}
		}

		// 2. Заметки администратора
		if req.Notes != nil {
			notes := req.Notes
			if strings.TrimSpace(*notes) == "" {
				notes = nil
			}
			if err := s.appointmentRepo.UpdateNotes(txCtx, appointment.ID, notes); err != nil {
				return fmt.Errorf("%w: failed to update notes: %w", ErrInternal, err)
			}
		}

		// 3. Актуальное состояние после изменений
		appointment, payment, err = s.load(txCtx, id)
		return err
	})
	if err != nil {
		return nil, s.mapError("Update", id, err)
	}

	if appointment.Status != previousStatus {
		s.logger.Info("Update: appointment id=%s %s -> %s by %s", id, previousStatus, appointment.Status, req.Actor)
	}
	if paymentSettled {
		s.logger.Info("Update: bank transfer payment id=%s marked completed by %s", payment.ID, req.Actor)
		s.notifier.PaymentConfirmed(*appointment, *payment)
	}

	return models.FromDomain(appointment, payment, s.location), nil
}

// Вспомогательные методы

// load запись и её последний платеж (платежа может не быть)
func (s *Service) load(ctx context.Context, id uuid.UUID) (*domain.Appointment, *domain.Payment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, nil, ErrAppointmentNotFound
		}
		return nil, nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}

	payment, err := s.paymentRepo.GetLatestByAppointmentID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			return appointment, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
	}

	return appointment, payment, nil
}

func (s *Service) mapError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment id=%s not found", op, id)
		return ErrAppointmentNotFound
	case errors.Is(err, ErrInvalidTransition):
		s.logger.Warn("%s: appointment id=%s: %v", op, id, err)
		return err
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: appointment id=%s: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: transaction failed for appointment id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - transaction failed: %w", ErrInternal, op, err)
	}
}
