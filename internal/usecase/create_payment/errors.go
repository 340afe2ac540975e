package create_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_payment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("create_payment: appointment not found")

	// ErrAppointmentNotPayable возвращается для отменённой или проведённой записи
	ErrAppointmentNotPayable = errors.New("create_payment: appointment is not open for payment")

	// ErrDuplicatePayment возвращается, когда запись уже оплачена
	ErrDuplicatePayment = errors.New("create_payment: appointment is already paid")

	// ErrAmountMismatch возвращается, когда сумма не совпадает с зафиксированной при записи
	ErrAmountMismatch = errors.New("create_payment: amount does not match the booked price")

	// ErrGatewayUnavailable возвращается, когда шлюз для способа оплаты не настроен или не ответил
	ErrGatewayUnavailable = errors.New("create_payment: payment gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment: internal error")
)
