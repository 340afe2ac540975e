package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// fieldTag тег с именем поля в ответе клиенту (совпадает с JSON-именем)
const fieldTag = "field"

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-.]{5,30}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

// FieldError ошибка валидации одного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error ошибка валидации со списком всех невалидных полей
// Unwrap возвращает Kind, поэтому errors.Is(err, ErrValidation) работает для sentinel'а пакета-владельца
type Error struct {
	Kind   error
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return fmt.Sprintf("%v: %s", e.Kind, strings.Join(parts, ", "))
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError создает ошибку из уже собранных полей
func NewError(kind error, fields ...FieldError) *Error {
	return &Error{Kind: kind, Fields: fields}
}

// Struct проверяет структуру по тегам validate и возвращает все невалидные поля
// nil, если структура валидна
func Struct(kind error, s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", kind, err)
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return NewError(kind, fields...)
}

// Fields извлекает список полей из ошибки (nil, если это не ошибка валидации)
func Fields(err error) []FieldError {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return nil
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get(fieldTag), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match format %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}
