package pricing

import "errors"

var (
	// ErrInternal каталог недоступен, операцию можно повторить
	ErrInternal = errors.New("pricing: internal error")
)
