package slotledger

import "errors"

var (
	// ErrInvalidRange конец интервала не позже начала
	ErrInvalidRange = errors.New("slotledger: invalid time range")

	// ErrInternal ошибка хранилища
	ErrInternal = errors.New("slotledger: internal error")
)
