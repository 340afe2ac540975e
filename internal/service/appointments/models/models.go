package models

import (
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/ptr"
)

// Request модели

// UpdateRequest изменение записи администратором
type UpdateRequest struct {
	Actor  string  `json:"-"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"` // пустая строка очищает заметки
}

// Response модели

// PaymentSummary последняя попытка оплаты записи
type PaymentSummary struct {
	ID             string    `json:"id"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	Method         string    `json:"method"`
	Status         string    `json:"status"`
	TransactionRef *string   `json:"transactionRef,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AppointmentResponse запись с платежом
type AppointmentResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Service         string          `json:"service"`
	ScheduledAt     time.Time       `json:"scheduledAt"`
	Date            string          `json:"date"` // "2025-03-10" в часовом поясе компании
	Time            string          `json:"time"` // "10:00"
	Timezone        string          `json:"timezone"`
	Status          string          `json:"status"`
	Message         *string         `json:"message,omitempty"`
	BookedBy        *string         `json:"bookedBy,omitempty"`
	AdminNotes      *string         `json:"adminNotes,omitempty"`
	CalendarEventID *string         `json:"calendarEventId,omitempty"`
	CancelledAt     *string         `json:"cancelledAt,omitempty"` // ISO 8601
	Payment         *PaymentSummary `json:"payment"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Методы конвертации

// FromDomain конвертирует запись и её последний платеж в DTO
func FromDomain(a *domain.Appointment, p *domain.Payment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	local := a.ScheduledAt.In(loc)
	resp := &AppointmentResponse{
		ID:              a.ID.String(),
		Name:            a.ClientName,
		Email:           a.Email,
		Phone:           a.Phone,
		Service:         string(a.Service),
		ScheduledAt:     a.ScheduledAt.UTC(),
		Date:            local.Format(domain.DateFormat),
		Time:            local.Format(domain.TimeFormat),
		Timezone:        loc.String(),
		Status:          a.Status.Canonical(),
		Message:         a.Message,
		BookedBy:        a.BookedBy,
		AdminNotes:      a.AdminNotes,
		CalendarEventID: a.CalendarEventID,
		Payment:         FromDomainPayment(p),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(a.CancelledAt.UTC().Format(time.RFC3339))
	}

	return resp
}

// FromDomainPayment конвертирует платеж в краткое описание
func FromDomainPayment(p *domain.Payment) *PaymentSummary {
	if p == nil {
		return nil
	}
	return &PaymentSummary{
		ID:             p.ID.String(),
		Amount:         p.Amount.StringFixed(2),
		Currency:       p.Currency,
		Method:         p.Method.Canonical(),
		Status:         p.Status.Canonical(),
		TransactionRef: p.TransactionRef,
		CreatedAt:      p.CreatedAt,
	}
}
