package calendar

import "errors"

var (
	// ErrEventNotFound событие удалено в календаре
	ErrEventNotFound = errors.New("calendar client: event not found")

	// ErrInternal ошибка при подготовке или выполнении запроса
	ErrInternal = errors.New("calendar client: internal error")

	// ErrInvalidResponse некорректный ответ календаря
	ErrInvalidResponse = errors.New("calendar client: invalid response")
)
