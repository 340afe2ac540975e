package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"client_name",
	"email",
	"phone",
	"service",
	"scheduled_at",
	"message",
	"status",
	"booked_by",
	"admin_notes",
	"calendar_event_id",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на консультацию
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись
// Если в контексте есть транзакция, запрос выполняется в ней.
// Нарушение индекса appointments_active_slot_uidx (второй активный клиент на то же время)
// возвращается как ErrSlotTaken: это последний рубеж против гонки check-then-insert.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"client_name",
			"email",
			"phone",
			"service",
			"scheduled_at",
			"message",
			"status",
			"booked_by",
		).
		Values(
			a.ID,
			a.ClientName,
			a.Email,
			a.Phone,
			a.Service,
			a.ScheduledAt,
			a.Message,
			a.Status,
			a.BookedBy,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isSlotViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переходы статусов были последовательными
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// ExistsActiveAt проверяет, занят ли момент времени активной записью (pending, confirmed)
// В транзакции найденная строка блокируется (FOR UPDATE)
func (r *Repository) ExistsActiveAt(ctx context.Context, instant time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id").
		From("appointments").
		Where(squirrel.Eq{"scheduled_at": instant.UTC()}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveAt - build select query: %v", ErrBuildQuery, err)
	}

	var id uuid.UUID
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveAt - execute query: %w", ErrExecQuery, err)
	}

	return true, nil
}

// ListActiveInstants возвращает занятые моменты времени в полуинтервале [from, to)
func (r *Repository) ListActiveInstants(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("scheduled_at").
		From("appointments").
		Where(squirrel.GtOrEq{"scheduled_at": from.UTC()}).
		Where(squirrel.Lt{"scheduled_at": to.UTC()}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		OrderBy("scheduled_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveInstants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveInstants - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	instants := make([]time.Time, 0)
	for rows.Next() {
		var instant time.Time
		if err := rows.Scan(&instant); err != nil {
			return nil, fmt.Errorf("%w: ListActiveInstants - scan row: %v", ErrScanRow, err)
		}
		instants = append(instants, instant.UTC())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveInstants - rows error: %v", ErrScanRow, err)
	}

	return instants, nil
}

// TransitionStatus переводит запись в статус to, только если текущий статус входит в from
// Возвращает ErrStatusMismatch, если строка не обновилась
func (r *Repository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from []domain.AppointmentStatus,
	to domain.AppointmentStatus,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStrings := make([]string, len(from))
	for i, s := range from {
		fromStrings[i] = string(s)
	}

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStrings})

	if to == domain.AppointmentCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, query, args, "TransitionStatus", ErrStatusMismatch)
}

// SetCalendarEventID сохраняет ссылку на событие во внешнем календаре
func (r *Repository) SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("calendar_event_id", eventID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetCalendarEventID - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, query, args, "SetCalendarEventID", ErrAppointmentNotFound)
}

// UpdateNotes обновляет заметки администратора
func (r *Repository) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("admin_notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateNotes - build update query: %v", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, query, args, "UpdateNotes", ErrAppointmentNotFound)
}

func (r *Repository) execSingle(
	ctx context.Context,
	executor dbmetrics.Querier,
	query string,
	args []interface{},
	op string,
	notAffected error,
) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return notAffected
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var cancelledAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.ClientName,
		&a.Email,
		&a.Phone,
		&a.Service,
		&a.ScheduledAt,
		&a.Message,
		&a.Status,
		&a.BookedBy,
		&a.AdminNotes,
		&a.CalendarEventID,
		&cancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.ScheduledAt = a.ScheduledAt.UTC()
	if cancelledAt.Valid {
		t := cancelledAt.Time
		a.CancelledAt = &t
	}

	return &a, nil
}

func activeStatusStrings() []string {
	out := make([]string, len(domain.ActiveAppointmentStatuses))
	for i, s := range domain.ActiveAppointmentStatuses {
		out[i] = string(s)
	}
	return out
}

func isSlotViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation && pqErr.Constraint == activeSlotConstraint
	}
	return false
}
