package lock

import "errors"

var (
	// ErrLockBackend redis недоступен или вернул ошибку
	ErrLockBackend = errors.New("lock: backend error")
)
