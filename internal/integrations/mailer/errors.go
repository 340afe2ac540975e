package mailer

import "errors"

var (
	// ErrUnknownTemplate шаблон с таким типом не зарегистрирован
	ErrUnknownTemplate = errors.New("mailer: unknown template")

	// ErrRender ошибка подстановки данных в шаблон
	ErrRender = errors.New("mailer: failed to render template")

	// ErrNoRecipient пустой адрес получателя
	ErrNoRecipient = errors.New("mailer: empty recipient")

	// ErrSend ошибка SMTP
	ErrSend = errors.New("mailer: failed to send email")

	// ErrPublish ошибка публикации в очередь
	ErrPublish = errors.New("mailer: failed to publish email")

	// ErrInvalidMessage сообщение из очереди не удалось разобрать
	ErrInvalidMessage = errors.New("mailer: invalid queued message")
)
