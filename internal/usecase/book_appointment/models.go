package book_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// Результаты для метрики bookings_total
const (
	resultCreated  = "created"
	resultConflict = "conflict"
	resultInvalid  = "invalid"
	resultError    = "error"
)

// Request модель запроса на запись
type Request struct {
	Name     string  `field:"name" validate:"required,max=120"`
	Email    string  `field:"email" validate:"required,email,max=255"`
	Phone    string  `field:"phone" validate:"required,max=32,phone"`
	Service  string  `field:"service" validate:"required,max=64"`
	Date     string  `field:"date" validate:"required,datetime=2006-01-02"` // YYYY-MM-DD в часовом поясе компании
	Time     string  `field:"time" validate:"required,datetime=15:04"`      // HH:MM в часовом поясе компании
	Message  *string `field:"message" validate:"omitempty,max=2000"`
	BookedBy *string `field:"bookedBy" validate:"omitempty,max=120"` // заполняется, если запись создаёт администратор
}

// Response созданная запись и её платеж
type Response struct {
	AppointmentID uuid.UUID
	PaymentID     uuid.UUID
	Status        domain.AppointmentStatus
	Service       domain.ServiceType
	ScheduledAt   time.Time // UTC
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod domain.PaymentMethod
	// PriceFallback true, если применена цена по умолчанию
	PriceFallback bool
	CreatedAt     time.Time
}

// Options параметры бронирования из конфигурации
type Options struct {
	Location      *time.Location
	DefaultMethod domain.PaymentMethod
}
