package payment

import "github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"

// DBExecutor interface for database operations
type DBExecutor = dbmetrics.Querier

const (
	activeAppointmentConstraint = "payments_active_appointment_uidx"
	pgUniqueViolation           = "23505"
)
