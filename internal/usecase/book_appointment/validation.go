package book_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/validation"
)

// normalizeRequest убирает пробелы по краям, чтобы "   " не проходило как заполненное поле
func normalizeRequest(req *Request) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Service = strings.TrimSpace(req.Service)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Message = trimOptional(req.Message)
	req.BookedBy = trimOptional(req.BookedBy)
}

// validateRequest проверяет все поля и возвращает *validation.Error со списком невалидных
func validateRequest(req *Request) error {
	return validation.Struct(ErrValidation, req)
}

// scheduledInstant переводит дату и время в часовом поясе компании в UTC-момент
func scheduledInstant(date, clock string, loc *time.Location) (time.Time, error) {
	local, err := time.ParseInLocation(domain.DateFormat+" "+domain.TimeFormat, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, validation.NewError(ErrValidation, validation.FieldError{
			Field:   "time",
			Message: fmt.Sprintf("is not a valid local time: %v", err),
		})
	}
	return local.UTC(), nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
