package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/psqlbuilder"
)

var paymentColumns = []string{
	"id",
	"appointment_id",
	"amount",
	"currency",
	"method",
	"status",
	"transaction_ref",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый платеж
// Второй активный платеж для той же записи отклоняется индексом payments_active_appointment_uidx
func (r *Repository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"id",
			"appointment_id",
			"amount",
			"currency",
			"method",
			"status",
			"transaction_ref",
		).
		Values(
			p.ID,
			p.AppointmentID,
			p.Amount,
			p.Currency,
			p.Method,
			p.Status,
			p.TransactionRef,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isActivePaymentViolation(err) {
			return nil, ErrActivePaymentExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// GetByID получает платеж по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, selectBuilder, "GetByID")
}

// GetLatestByAppointmentID получает последнюю попытку оплаты записи
func (r *Repository) GetLatestByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*domain.Payment, error) {
	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("created_at DESC").
		Limit(1)

	return r.getOne(ctx, selectBuilder, "GetLatestByAppointmentID")
}

// TransitionStatus переводит pending платеж в терминальный статус
// ref и method обновляются, только если переданы
func (r *Repository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	to domain.PaymentStatus,
	ref *string,
	method *domain.PaymentMethod,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("payments").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.PaymentPending})

	if ref != nil {
		updateBuilder = updateBuilder.Set("transaction_ref", *ref)
	}
	if method != nil {
		updateBuilder = updateBuilder.Set("method", *method)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execPending(ctx, executor, query, args, "TransitionStatus")
}

// UpdateMethod меняет способ оплаты у pending платежа
func (r *Repository) UpdateMethod(ctx context.Context, id uuid.UUID, method domain.PaymentMethod) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("method", method).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.PaymentPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateMethod - build update query: %v", ErrBuildQuery, err)
	}

	return r.execPending(ctx, executor, query, args, "UpdateMethod")
}

// SetTransactionRef сохраняет ссылку провайдера у pending платежа
func (r *Repository) SetTransactionRef(ctx context.Context, id uuid.UUID, ref string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("transaction_ref", ref).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.PaymentPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetTransactionRef - build update query: %v", ErrBuildQuery, err)
	}

	return r.execPending(ctx, executor, query, args, "SetTransactionRef")
}

func (r *Repository) getOne(ctx context.Context, selectBuilder squirrel.SelectBuilder, op string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var p domain.Payment
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.AppointmentID,
		&p.Amount,
		&p.Currency,
		&p.Method,
		&p.Status,
		&p.TransactionRef,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan payment: %w", ErrScanRow, op, err)
	}

	return &p, nil
}

func (r *Repository) execPending(
	ctx context.Context,
	executor dbmetrics.Querier,
	query string,
	args []interface{},
	op string,
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
		return ErrStatusMismatch
	}

	return nil
}

func isActivePaymentViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation && pqErr.Constraint == activeAppointmentConstraint
	}
	return false
}
