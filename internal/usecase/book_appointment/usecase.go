package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	appointmentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/appointment"
)

// UseCase use case записи на консультацию
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	ledger          SlotLedger
	pricer          PriceResolver
	locker          SlotLocker
	txManager       TransactionManager
	notifier        Notifier
	metrics         MetricsObserver
	opts            Options
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	ledger SlotLedger,
	pricer PriceResolver,
	locker SlotLocker,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsObserver,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultMethod == "" {
		opts.DefaultMethod = domain.DefaultPaymentMethod
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		ledger:          ledger,
		pricer:          pricer,
		locker:          locker,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		opts:            opts,
		logger:          logger,
	}
}

// Execute создает запись и её платеж одной сериализуемой транзакцией
// Интеграции (календарь, письма) запускаются после фиксации и не влияют на результат.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		uc.metrics.ObserveBooking(resultInvalid)
		return nil, err
	}

	instant, err := scheduledInstant(req.Date, req.Time, uc.opts.Location)
	if err != nil {
		uc.logger.Warn("BookAppointment: %v", err)
		uc.metrics.ObserveBooking(resultInvalid)
		return nil, err
	}
	service := domain.ParseServiceType(req.Service)

	uc.logger.Info("BookAppointment: email=%s, service=%s, at=%s", req.Email, service, instant.Format(time.RFC3339))

	// 2. Распределённая блокировка слота; недоступный Redis не мешает записи, БД остаётся арбитром
	release, acquired, err := uc.locker.AcquireSlot(ctx, instant)
	switch {
	case err != nil:
		uc.logger.Warn("BookAppointment: slot lock unavailable, relying on database: %v", err)
	case !acquired:
		uc.logger.Warn("BookAppointment: slot %s is locked by a concurrent booking", instant.Format(time.RFC3339))
		uc.metrics.ObserveBooking(resultConflict)
		return nil, ErrSlotConflict
	default:
		defer release(context.WithoutCancel(ctx))
	}

	// 3. Цена определяется до транзакции: каталог не участвует в сериализации
	price, err := uc.pricer.ResolvePrice(ctx, service)
	if err != nil {
		uc.logger.Error("BookAppointment: failed to resolve price for service=%s: %v", service, err)
		uc.metrics.ObserveBooking(resultError)
		return nil, fmt.Errorf("%w: failed to resolve price: %w", ErrInternal, err)
	}

	var (
		appointment *domain.Appointment
		payment     *domain.Payment
	)

	// 4. Проверка слота, запись и платеж в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		free, err := uc.ledger.IsSlotFree(txCtx, instant)
		if err != nil {
			return fmt.Errorf("%w: failed to check slot: %w", ErrInternal, err)
		}
		if !free {
			return ErrSlotConflict
		}

		appointment, err = uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ID:          uuid.New(),
			ClientName:  req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Service:     service,
			ScheduledAt: instant,
			Message:     req.Message,
			Status:      domain.AppointmentPending,
			BookedBy:    req.BookedBy,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return ErrSlotConflict
			}
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		payment, err = uc.paymentRepo.Create(txCtx, &domain.Payment{
			ID:            uuid.New(),
			AppointmentID: appointment.ID,
			Amount:        price.Amount,
			Currency:      price.Currency,
			Method:        uc.opts.DefaultMethod,
			Status:        domain.PaymentPending,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Warn("BookAppointment: slot %s already booked", instant.Format(time.RFC3339))
			uc.metrics.ObserveBooking(resultConflict)
			return nil, ErrSlotConflict
		}
		uc.logger.Error("BookAppointment: transaction failed: %v", err)
		uc.metrics.ObserveBooking(resultError)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}

	uc.logger.Info("BookAppointment: created appointment id=%s, payment id=%s, amount=%s %s",
		appointment.ID, payment.ID, payment.Amount.String(), payment.Currency)
	uc.metrics.ObserveBooking(resultCreated)

	// 5. Best-effort интеграции
	uc.notifier.BookingCreated(*appointment, *payment)

	return &Response{
		AppointmentID: appointment.ID,
		PaymentID:     payment.ID,
		Status:        appointment.Status,
		Service:       appointment.Service,
		ScheduledAt:   appointment.ScheduledAt,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		PaymentMethod: payment.Method,
		PriceFallback: price.Fallback,
		CreatedAt:     appointment.CreatedAt,
	}, nil
}
