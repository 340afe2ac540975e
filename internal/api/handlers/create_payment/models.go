package create_payment

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	createPayment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/create_payment"
)

// Amount сумма, переданная числом (150) или строкой ("150.00")
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	if _, err := decimal.NewFromString(string(data)); err != nil {
		return errors.New("amount must be a number or a numeric string")
	}
	*a = Amount(data)
	return nil
}

// CreatePaymentRequest HTTP request model
type CreatePaymentRequest struct {
	AppointmentID string  `json:"appointmentId"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        *Amount `json:"amount,omitempty"`
}

// CreatePaymentResponse HTTP response model
// PaymentURL null для банковского перевода: реквизиты отправляются письмом
type CreatePaymentResponse struct {
	PaymentID     string  `json:"paymentId"`
	AppointmentID string  `json:"appointmentId"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
	Amount        string  `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentURL    *string `json:"paymentUrl"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreatePaymentRequest) ToUseCaseRequest() *createPayment.Request {
	req := &createPayment.Request{
		AppointmentID: r.AppointmentID,
		PaymentMethod: r.PaymentMethod,
	}
	if r.Amount != nil {
		amount := string(*r.Amount)
		req.Amount = &amount
	}
	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createPayment.Response) *CreatePaymentResponse {
	return &CreatePaymentResponse{
		PaymentID:     resp.PaymentID.String(),
		AppointmentID: resp.AppointmentID.String(),
		PaymentMethod: resp.Method.Canonical(),
		Status:        resp.Status.Canonical(),
		Amount:        resp.Amount.StringFixed(2),
		Currency:      resp.Currency,
		PaymentURL:    resp.PaymentURL,
	}
}
