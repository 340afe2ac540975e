package slotledger

import (
	"context"
	"fmt"
	"time"
)

// Ledger отвечает на вопрос "свободен ли момент времени"
// Слот занят, если на него есть запись в статусе pending или confirmed.
// Вызванный внутри транзакции, IsSlotFree блокирует найденную строку до конца транзакции.
type Ledger struct {
	appointments AppointmentRepository
}

// NewLedger создает новый Ledger
func NewLedger(appointments AppointmentRepository) *Ledger {
	return &Ledger{appointments: appointments}
}

// IsSlotFree true, если на instant нет активной записи
func (l *Ledger) IsSlotFree(ctx context.Context, instant time.Time) (bool, error) {
	taken, err := l.appointments.ExistsActiveAt(ctx, instant.UTC())
	if err != nil {
		return false, fmt.Errorf("%w: IsSlotFree - repository error: %w", ErrInternal, err)
	}
	return !taken, nil
}

// TakenInstants множество занятых моментов в [from, to)
func (l *Ledger) TakenInstants(ctx context.Context, from, to time.Time) (map[time.Time]struct{}, error) {
	if !from.Before(to) {
		return nil, ErrInvalidRange
	}

	instants, err := l.appointments.ListActiveInstants(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: TakenInstants - repository error: %w", ErrInternal, err)
	}

	taken := make(map[time.Time]struct{}, len(instants))
	for _, instant := range instants {
		taken[instant.UTC()] = struct{}{}
	}
	return taken, nil
}
