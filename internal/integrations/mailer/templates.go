package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateKind тип письма
type TemplateKind string

const (
	TemplateAdminAlert               TemplateKind = "admin_alert"
	TemplateBookingReceived          TemplateKind = "booking_received"
	TemplateConfirmation             TemplateKind = "confirmation"
	TemplatePaymentReceipt           TemplateKind = "payment_receipt"
	TemplateBankTransferInstructions TemplateKind = "bank_transfer_instructions"
	TemplateCancellation             TemplateKind = "cancellation"
)

// TemplateData данные для подстановки в письмо
type TemplateData struct {
	AppointmentID  string
	PaymentID      string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	Service        string
	Date           string // локальная дата YYYY-MM-DD
	Time           string // локальное время HH:MM
	Timezone       string
	Amount         string
	Currency       string
	PaymentMethod  string
	TransactionRef string
	Message        string
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

// Письма двуязычные: французский текст, затем английский
var templateSources = map[TemplateKind][2]string{
	TemplateAdminAlert: {
		`Nouvelle réservation / New booking: {{.Service}} {{.Date}} {{.Time}}`,
		`Nouvelle réservation

Client: {{.ClientName}} <{{.ClientEmail}}> {{.ClientPhone}}
Service: {{.Service}}
Date: {{.Date}} {{.Time}} ({{.Timezone}})
Montant / Amount: {{.Amount}} {{.Currency}}
Réservation / Booking: {{.AppointmentID}}
{{if .Message}}
Message:
{{.Message}}
{{end}}`,
	},
	TemplateBookingReceived: {
		`Votre demande de rendez-vous / Your appointment request`,
		`Bonjour {{.ClientName}},

Nous avons bien reçu votre demande pour "{{.Service}}" le {{.Date}} à {{.Time}} ({{.Timezone}}).
Elle sera confirmée dès réception du paiement de {{.Amount}} {{.Currency}}.

Hello {{.ClientName}},

We received your request for "{{.Service}}" on {{.Date}} at {{.Time}} ({{.Timezone}}).
It will be confirmed once the payment of {{.Amount}} {{.Currency}} is received.

Référence / Reference: {{.AppointmentID}}
`,
	},
	TemplateConfirmation: {
		`Rendez-vous confirmé / Appointment confirmed`,
		`Bonjour {{.ClientName}},

Votre rendez-vous "{{.Service}}" du {{.Date}} à {{.Time}} ({{.Timezone}}) est confirmé.

Hello {{.ClientName}},

Your "{{.Service}}" appointment on {{.Date}} at {{.Time}} ({{.Timezone}}) is confirmed.

Référence / Reference: {{.AppointmentID}}
`,
	},
	TemplatePaymentReceipt: {
		`Reçu de paiement / Payment receipt`,
		`Bonjour {{.ClientName}},

Nous confirmons la réception de votre paiement.
We confirm that your payment has been received.

Montant / Amount: {{.Amount}} {{.Currency}}
Moyen de paiement / Method: {{.PaymentMethod}}
{{if .TransactionRef}}Transaction: {{.TransactionRef}}
{{end}}Paiement / Payment: {{.PaymentID}}
`,
	},
	TemplateBankTransferInstructions: {
		`Instructions de virement / Bank transfer instructions`,
		`Bonjour {{.ClientName}},

Pour confirmer votre rendez-vous du {{.Date}} à {{.Time}}, merci d'effectuer un virement de
{{.Amount}} {{.Currency}} en indiquant la référence {{.PaymentID}}.

Hello {{.ClientName}},

To confirm your appointment on {{.Date}} at {{.Time}}, please make a bank transfer of
{{.Amount}} {{.Currency}} quoting the reference {{.PaymentID}}.
`,
	},
	TemplateCancellation: {
		`Rendez-vous annulé / Appointment cancelled`,
		`Bonjour {{.ClientName}},

Votre rendez-vous "{{.Service}}" du {{.Date}} à {{.Time}} a été annulé.

Hello {{.ClientName}},

Your "{{.Service}}" appointment on {{.Date}} at {{.Time}} has been cancelled.

Référence / Reference: {{.AppointmentID}}
`,
	},
}

var templates = mustParseTemplates()

func mustParseTemplates() map[TemplateKind]emailTemplate {
	parsed := make(map[TemplateKind]emailTemplate, len(templateSources))
	for kind, src := range templateSources {
		parsed[kind] = emailTemplate{
			subject: template.Must(template.New(string(kind) + "_subject").Parse(src[0])),
			body:    template.Must(template.New(string(kind) + "_body").Parse(src[1])),
		}
	}
	return parsed
}

// Render подставляет данные в шаблон и возвращает тему и текст письма
func Render(kind TemplateKind, data TemplateData) (subject, body string, err error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, kind)
	}

	var buf bytes.Buffer
	if err := tmpl.subject.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("%w: %s subject: %v", ErrRender, kind, err)
	}
	subject = buf.String()

	buf.Reset()
	if err := tmpl.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("%w: %s body: %v", ErrRender, kind, err)
	}

	return subject, buf.String(), nil
}
