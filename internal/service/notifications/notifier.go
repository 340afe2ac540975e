package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/calendar"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/mailer"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/bgtasks"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/ptr"
)

// Имена фоновых задач (лейбл task в метрике background_tasks_total)
const (
	TaskCalendarCreate       = "calendar.create"
	TaskCalendarUpdate       = "calendar.update"
	TaskCalendarDelete       = "calendar.delete"
	TaskMailAdminAlert       = "mail.admin_alert"
	TaskMailBookingReceived  = "mail.booking_received"
	TaskMailConfirmation     = "mail.confirmation"
	TaskMailPaymentReceipt   = "mail.payment_receipt"
	TaskMailBankTransfer     = "mail.bank_transfer_instructions"
	TaskMailCancellation     = "mail.cancellation"
	confirmedSummaryTemplate = "[CONFIRMED] %s"
)

// Options параметры уведомлений
type Options struct {
	AdminEmail   string
	Location     *time.Location
	SlotDuration time.Duration
}

// Notifier best-effort побочные эффекты бронирования: календарь и письма
// Каждое действие отправляется в фоновый раннер; ошибки только логируются раннером
// и никогда не возвращаются вызывающему.
type Notifier struct {
	runner       TaskRunner
	calendar     calendar.Calendar
	mailer       mailer.Sender
	appointments AppointmentRepository
	opts         Options
	logger       Logger
}

// NewNotifier создает Notifier; calendar и mailer могут быть Noop-вариантами
func NewNotifier(
	runner TaskRunner,
	cal calendar.Calendar,
	sender mailer.Sender,
	appointments AppointmentRepository,
	opts Options,
	logger Logger,
) *Notifier {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.SlotDuration <= 0 {
		opts.SlotDuration = domain.DefaultSlotMinutes * time.Minute
	}
	return &Notifier{
		runner:       runner,
		calendar:     cal,
		mailer:       sender,
		appointments: appointments,
		opts:         opts,
		logger:       logger,
	}
}

// BookingCreated событие календаря, письмо администратору и подтверждение получения клиенту
func (n *Notifier) BookingCreated(a domain.Appointment, p domain.Payment) {
	data := n.templateData(a, &p)

	n.runner.Submit(TaskCalendarCreate, func(ctx context.Context) error {
		return n.createEvent(ctx, a)
	})

	n.submitMail(TaskMailAdminAlert, mailer.TemplateAdminAlert, n.opts.AdminEmail, data)
	n.submitMail(TaskMailBookingReceived, mailer.TemplateBookingReceived, a.Email, data)
}

// PaymentConfirmed квитанция и подтверждение клиенту, пометка события в календаре
func (n *Notifier) PaymentConfirmed(a domain.Appointment, p domain.Payment) {
	data := n.templateData(a, &p)

	n.submitMail(TaskMailPaymentReceipt, mailer.TemplatePaymentReceipt, a.Email, data)
	n.submitMail(TaskMailConfirmation, mailer.TemplateConfirmation, a.Email, data)

	if !a.HasCalendarEvent() {
		return
	}
	eventID := *a.CalendarEventID
	n.runner.Submit(TaskCalendarUpdate, func(ctx context.Context) error {
		performed, err := n.calendar.UpdateEvent(ctx, eventID, calendar.EventPatch{
			Summary: ptr.Ptr(fmt.Sprintf(confirmedSummaryTemplate, summary(a))),
		})
		if err != nil {
			return err
		}
		if !performed {
			return bgtasks.ErrNotPerformed
		}
		return nil
	})
}

// Cancelled удаление события и письмо об отмене
func (n *Notifier) Cancelled(a domain.Appointment) {
	n.submitMail(TaskMailCancellation, mailer.TemplateCancellation, a.Email, n.templateData(a, nil))

	if !a.HasCalendarEvent() {
		return
	}
	eventID := *a.CalendarEventID
	n.runner.Submit(TaskCalendarDelete, func(ctx context.Context) error {
		performed, err := n.calendar.DeleteEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if !performed {
			return bgtasks.ErrNotPerformed
		}
		return nil
	})
}

// createEvent создает событие и сохраняет его id в записи
// Если запись отменили, пока событие создавалось, Cancelled не видел id и событие удаляется здесь
func (n *Notifier) createEvent(ctx context.Context, a domain.Appointment) error {
	eventID, performed, err := n.calendar.CreateEvent(ctx, n.event(a))
	if err != nil {
		return err
	}
	if !performed {
		return bgtasks.ErrNotPerformed
	}

	if err := n.appointments.SetCalendarEventID(ctx, a.ID, eventID); err != nil {
		return fmt.Errorf("save event %s for appointment %s: %w", eventID, a.ID, err)
	}

	current, err := n.appointments.GetByID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("reload appointment %s: %w", a.ID, err)
	}
	if current.Status != domain.AppointmentCancelled {
		return nil
	}

	n.logger.Info("Notifier: appointment %s cancelled during event creation, deleting event %s", a.ID, eventID)
	if _, err := n.calendar.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete event %s of cancelled appointment %s: %w", eventID, a.ID, err)
	}
	return nil
}

// BankTransferRequested инструкции по банковскому переводу
func (n *Notifier) BankTransferRequested(a domain.Appointment, p domain.Payment) {
	n.submitMail(TaskMailBankTransfer, mailer.TemplateBankTransferInstructions, a.Email, n.templateData(a, &p))
}

func (n *Notifier) submitMail(task string, kind mailer.TemplateKind, recipient string, data mailer.TemplateData) {
	n.runner.Submit(task, func(ctx context.Context) error {
		if recipient == "" {
			return fmt.Errorf("%w: no recipient for %s", bgtasks.ErrNotPerformed, kind)
		}
		performed, err := n.mailer.Send(ctx, kind, recipient, data)
		if err != nil {
			return err
		}
		if !performed {
			return bgtasks.ErrNotPerformed
		}
		return nil
	})
}

func (n *Notifier) event(a domain.Appointment) calendar.Event {
	description := fmt.Sprintf("%s\n%s\n%s", a.ClientName, a.Email, a.Phone)
	if a.Message != nil && *a.Message != "" {
		description += "\n\n" + *a.Message
	}
	start := a.ScheduledAt.In(n.opts.Location)
	return calendar.Event{
		Summary:       summary(a),
		Description:   description,
		Start:         start,
		End:           start.Add(n.opts.SlotDuration),
		Timezone:      n.opts.Location.String(),
		AttendeeEmail: a.Email,
	}
}

func (n *Notifier) templateData(a domain.Appointment, p *domain.Payment) mailer.TemplateData {
	local := a.ScheduledAt.In(n.opts.Location)
	data := mailer.TemplateData{
		AppointmentID: a.ID.String(),
		ClientName:    a.ClientName,
		ClientEmail:   a.Email,
		ClientPhone:   a.Phone,
		Service:       string(a.Service),
		Date:          local.Format(domain.DateFormat),
		Time:          local.Format(domain.TimeFormat),
		Timezone:      n.opts.Location.String(),
		Message:       ptr.Value(a.Message),
	}
	if p != nil {
		data.PaymentID = p.ID.String()
		data.Amount = p.Amount.StringFixed(2)
		data.Currency = p.Currency
		data.PaymentMethod = p.Method.Canonical()
		data.TransactionRef = ptr.Value(p.TransactionRef)
	}
	return data
}

func summary(a domain.Appointment) string {
	return fmt.Sprintf("%s - %s", a.Service, a.ClientName)
}
