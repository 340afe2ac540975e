package gateway

import (
	"context"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// Registry шлюзы по способам оплаты, собирается один раз при старте
type Registry struct {
	gateways map[domain.PaymentMethod]Gateway
}

// NewRegistry создает пустой реестр: все способы оплаты не настроены
func NewRegistry() *Registry {
	return &Registry{gateways: make(map[domain.PaymentMethod]Gateway)}
}

// Register назначает шлюз способам оплаты
func (r *Registry) Register(g Gateway, methods ...domain.PaymentMethod) *Registry {
	for _, m := range methods {
		r.gateways[m] = g
	}
	return r
}

// For шлюз для способа оплаты; Unconfigured, если не назначен
func (r *Registry) For(method domain.PaymentMethod) Gateway {
	if g, ok := r.gateways[method]; ok {
		return g
	}
	return Unconfigured{}
}

// Unconfigured шлюз-заглушка
type Unconfigured struct{}

// Initiate всегда возвращает ErrNotConfigured
func (Unconfigured) Initiate(context.Context, Checkout) (*Session, error) {
	return nil, ErrNotConfigured
}
