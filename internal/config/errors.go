package config

import "errors"

var (
	// ErrReadConfig ошибка чтения toml файла
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrEnvOverride ошибка применения переменных окружения
	ErrEnvOverride = errors.New("config: failed to apply environment overrides")

	// ErrInvalidConfig конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)
