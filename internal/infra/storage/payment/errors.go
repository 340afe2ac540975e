package payment

import "errors"

var (
	// ErrPaymentNotFound платеж не найден
	ErrPaymentNotFound = errors.New("payment.repository: payment not found")

	// ErrActivePaymentExists у записи уже есть платеж в статусе pending или completed
	ErrActivePaymentExists = errors.New("payment.repository: active payment already exists for appointment")

	// ErrStatusMismatch платеж уже не в статусе pending
	ErrStatusMismatch = errors.New("payment.repository: payment is not pending")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow ошибка чтения строки результата
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
