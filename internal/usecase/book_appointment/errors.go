package book_appointment

import "errors"

var (
	// ErrValidation возвращается при некорректных полях запроса (все поля перечисляются в validation.Error)
	ErrValidation = errors.New("book_appointment: validation failed")

	// ErrSlotConflict возвращается, когда момент времени уже занят активной записью
	ErrSlotConflict = errors.New("book_appointment: time slot is already booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
