package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OmiseGateway оплата по платёжной ссылке Omise (payment_uri)
type OmiseGateway struct {
	links LinkAPI
	log   Logger
}

// NewOmiseGateway создает шлюз поверх LinkAPI
func NewOmiseGateway(links LinkAPI, log Logger) *OmiseGateway {
	return &OmiseGateway{links: links, log: log}
}

// NewOmiseClient создает клиент Omise по ключам
// timeout ограничивает каждый HTTP запрос к Omise, включая чтение ответа
func NewOmiseClient(publicKey, secretKey string, timeout time.Duration) (*OmiseClient, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: omise client: %v", ErrNotConfigured, err)
	}
	c.Client.Timeout = timeout
	return &OmiseClient{client: c}, nil
}

// OmiseClient адаптер *omise.Client к LinkAPI
type OmiseClient struct {
	client *omise.Client
}

// CreateLink создает платёжную ссылку
func (c *OmiseClient) CreateLink(op *operations.CreateLink) (*omise.Link, error) {
	link := &omise.Link{}
	if err := c.client.Do(link, op); err != nil {
		return nil, err
	}
	return link, nil
}

// Initiate создает платёжную ссылку на сумму checkout
// Сумма передаётся в минимальных единицах валюты
func (g *OmiseGateway) Initiate(ctx context.Context, checkout Checkout) (*Session, error) {
	if !checkout.Amount.IsPositive() || checkout.Currency == "" {
		return nil, fmt.Errorf("%w: amount=%s currency=%q", ErrInvalidCheckout, checkout.Amount, checkout.Currency)
	}

	op := &operations.CreateLink{
		Amount:      checkout.Amount.Mul(hundred).Round(0).IntPart(),
		Currency:    strings.ToLower(checkout.Currency),
		Title:       fmt.Sprintf("Payment %s", checkout.PaymentID),
		Description: checkout.Description,
		Multiple:    false,
	}

	type result struct {
		link *omise.Link
		err  error
	}
	done := make(chan result, 1)
	go func() {
		link, err := g.links.CreateLink(op)
		done <- result{link: link, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: payment=%s: %w", ErrInitiate, checkout.PaymentID, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return nil, fmt.Errorf("%w: payment=%s: %v", ErrInitiate, checkout.PaymentID, res.err)
	}
	if res.link == nil || res.link.PaymentURI == "" {
		return nil, fmt.Errorf("%w: payment=%s: empty payment uri", ErrInitiate, checkout.PaymentID)
	}

	g.log.Info("Omise link %s created for payment=%s", res.link.ID, checkout.PaymentID)
	return &Session{Reference: res.link.ID, PaymentURL: res.link.PaymentURI}, nil
}
