package domain

import (
	"errors"
	"strings"
)

// Canonical enumerations and their single mapping tables.
// Every caller (HTTP layer, repositories, gateway callbacks) converts through these functions.

var (
	ErrUnknownAppointmentStatus = errors.New("domain: unknown appointment status")
	ErrUnknownPaymentStatus     = errors.New("domain: unknown payment status")
	ErrUnknownPaymentMethod     = errors.New("domain: unknown payment method")
)

type enumEntry[T ~string] struct {
	value     T
	canonical string
	aliases   []string
}

func lookup[T ~string](table []enumEntry[T], raw string) (T, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, e := range table {
		if key == string(e.value) || key == strings.ToLower(e.canonical) {
			return e.value, true
		}
		for _, alias := range e.aliases {
			if key == alias {
				return e.value, true
			}
		}
	}
	var zero T
	return zero, false
}

func canonicalOf[T ~string](table []enumEntry[T], v T) string {
	for _, e := range table {
		if e.value == v {
			return e.canonical
		}
	}
	return strings.ToUpper(string(v))
}

var appointmentStatusTable = []enumEntry[AppointmentStatus]{
	{AppointmentPending, "PENDING", nil},
	{AppointmentConfirmed, "CONFIRMED", nil},
	{AppointmentCompleted, "COMPLETED", nil},
	{AppointmentCancelled, "CANCELLED", []string{"canceled"}},
}

var paymentStatusTable = []enumEntry[PaymentStatus]{
	{PaymentPending, "PENDING", nil},
	{PaymentCompleted, "COMPLETED", nil},
	{PaymentFailed, "FAILED", nil},
}

var paymentMethodTable = []enumEntry[PaymentMethod]{
	{MethodGatewayA, "GATEWAY_A", []string{"gateway-a", "card"}},
	{MethodGatewayB, "GATEWAY_B", []string{"gateway-b"}},
	{MethodGatewayC, "GATEWAY_C", []string{"gateway-c"}},
	{MethodBankTransfer, "BANK_TRANSFER", []string{"bank-transfer", "transfer", "virement"}},
}

// serviceTypeTable canonical identifier <-> website slug
var serviceTypeTable = []enumEntry[ServiceType]{
	{ServiceOrientationSession, "ORIENTATION_SESSION", []string{"orientation"}},
	{ServiceCareerCoaching, "CAREER_COACHING", []string{"coaching"}},
	{ServiceCVReview, "CV_REVIEW", []string{"cv-review", "cv"}},
	{ServiceInterviewPreparation, "INTERVIEW_PREPARATION", []string{"interview"}},
	{ServiceSkillsAssessment, "SKILLS_ASSESSMENT", []string{"skills"}},
	{ServiceStudyAbroad, "STUDY_ABROAD", []string{"study-abroad"}},
}

// ParseAppointmentStatus accepts wire ("confirmed") and canonical ("CONFIRMED") forms
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	if v, ok := lookup(appointmentStatusTable, raw); ok {
		return v, nil
	}
	return "", ErrUnknownAppointmentStatus
}

// ParsePaymentStatus accepts wire and canonical forms
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	if v, ok := lookup(paymentStatusTable, raw); ok {
		return v, nil
	}
	return "", ErrUnknownPaymentStatus
}

// ParsePaymentMethod accepts wire, canonical and alias forms
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	if v, ok := lookup(paymentMethodTable, raw); ok {
		return v, nil
	}
	return "", ErrUnknownPaymentMethod
}

// ParseServiceType maps a website slug or canonical id to the canonical ServiceType
// Unknown identifiers are kept (upper-cased) so that pricing can apply its fallback
func ParseServiceType(raw string) ServiceType {
	trimmed := strings.TrimSpace(raw)
	for _, e := range serviceTypeTable {
		key := strings.ToLower(trimmed)
		if key == strings.ToLower(e.canonical) {
			return e.value
		}
		for _, alias := range e.aliases {
			if key == alias {
				return e.value
			}
		}
	}
	return ServiceType(strings.ToUpper(trimmed))
}

// IsKnown returns true if the service type is part of the canonical enumeration
func (s ServiceType) IsKnown() bool {
	for _, e := range serviceTypeTable {
		if e.value == s {
			return true
		}
	}
	return false
}

// Slug website identifier of the service (empty for unknown services)
func (s ServiceType) Slug() string {
	for _, e := range serviceTypeTable {
		if e.value == s && len(e.aliases) > 0 {
			return e.aliases[0]
		}
	}
	return ""
}

// Canonical returns the upper-case canonical name (PENDING, CONFIRMED, ...)
func (s AppointmentStatus) Canonical() string {
	return canonicalOf(appointmentStatusTable, s)
}

// Canonical returns the upper-case canonical name
func (s PaymentStatus) Canonical() string {
	return canonicalOf(paymentStatusTable, s)
}

// Canonical returns the upper-case canonical name (GATEWAY_A, BANK_TRANSFER, ...)
func (m PaymentMethod) Canonical() string {
	return canonicalOf(paymentMethodTable, m)
}
