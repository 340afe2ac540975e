package reconcile_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном callback (нет id, неизвестный исход)
	ErrInvalidInput = errors.New("reconcile_payment: invalid input data")

	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("reconcile_payment: payment not found")

	// ErrOutcomeConflict возвращается, когда платеж уже завершён с другим исходом
	ErrOutcomeConflict = errors.New("reconcile_payment: payment already settled with a different outcome")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reconcile_payment: internal error")
)
