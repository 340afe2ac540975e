package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// UseCase use case для получения слотов дня
type UseCase struct {
	ledger       SlotLedger
	hours        domain.BookingHours
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger SlotLedger, hours domain.BookingHours, logger Logger) *UseCase {
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	return &UseCase{
		ledger:       ledger,
		hours:        hours,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
// Закрытый день и прошедшая дата дают пустой список, прошедшие слоты сегодняшнего дня не выдаются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s", req.Date)

	// 1. Валидация входных данных
	window, err := parseDay(req.Date, uc.hours.Location)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().In(uc.hours.Location)

	resp := &Response{
		Date:            window.day.Format(domain.DateFormat),
		Timezone:        uc.hours.Location.String(),
		DurationMinutes: uc.hours.SlotMinutes,
		Slots:           []domain.AvailableSlot{},
	}

	// 3. Генерируем слоты по рабочим часам
	starts, err := generateSlots(uc.hours, window, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	if len(starts) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots on %s", resp.Date)
		return resp, nil
	}

	// 4. Занятые моменты дня
	taken, err := uc.ledger.TakenInstants(ctx, window.start, window.end)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get taken slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get taken slots: %w", ErrInternal, err)
	}

	resp.Slots = markTaken(starts, taken, uc.hours.Location)

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d taken) for %s", len(resp.Slots), len(taken), resp.Date)

	return resp, nil
}
