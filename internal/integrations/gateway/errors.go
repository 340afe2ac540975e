package gateway

import "errors"

var (
	// ErrNotConfigured для способа оплаты не настроен шлюз
	ErrNotConfigured = errors.New("gateway: payment gateway not configured")

	// ErrInvalidCheckout некорректная сумма или валюта
	ErrInvalidCheckout = errors.New("gateway: invalid checkout")

	// ErrInitiate шлюз отклонил запрос или недоступен
	ErrInitiate = errors.New("gateway: failed to initiate payment")
)
