package catalog

import "errors"

var (
	// ErrServiceNotFound услуга не найдена или выключена
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrScanRow ошибка чтения строки результата
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
