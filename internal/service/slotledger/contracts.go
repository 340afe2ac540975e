package slotledger

import (
	"context"
	"time"
)

// AppointmentRepository источник занятых слотов
type AppointmentRepository interface {
	ExistsActiveAt(ctx context.Context, instant time.Time) (bool, error)
	ListActiveInstants(ctx context.Context, from, to time.Time) ([]time.Time, error)
}
