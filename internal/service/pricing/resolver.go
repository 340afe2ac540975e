package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	catalogRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/catalog"
)

// currencySuffixes суффиксы, которые встречаются в ценах каталога ("150 TND", "150DT", "80€")
var currencySuffixes = []string{"tnd", "dt", "eur", "€", "$"}

// Price результат разрешения цены
type Price struct {
	Amount   decimal.Decimal
	Currency string
	// Fallback true, если каталог не дал пригодной цены и применена цена по умолчанию
	Fallback bool
}

// Resolver определяет цену услуги по каталогу
type Resolver struct {
	catalog      CatalogRepository
	defaultPrice decimal.Decimal
	currency     string
	logger       Logger
}

// NewResolver создает Resolver с ценой по умолчанию defaultPrice
func NewResolver(catalog CatalogRepository, defaultPrice decimal.Decimal, currency string, logger Logger) *Resolver {
	return &Resolver{
		catalog:      catalog,
		defaultPrice: defaultPrice,
		currency:     currency,
		logger:       logger,
	}
}

// ResolvePrice возвращает цену услуги
// Неизвестная, выключенная услуга, цена "sur devis" или нечитаемая цена дают цену по умолчанию
// и строку в логе уровня Warn. Ошибка хранилища возвращается как ErrInternal.
func (r *Resolver) ResolvePrice(ctx context.Context, service domain.ServiceType) (Price, error) {
	entry, err := r.catalog.FindActiveService(ctx, service)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return r.fallback(service, "service not found or inactive"), nil
		}
		return Price{}, fmt.Errorf("%w: ResolvePrice - catalog error: %w", ErrInternal, err)
	}

	amount, ok := ParseAmount(entry.Price)
	if !ok {
		return r.fallback(service, fmt.Sprintf("unusable catalog price %q", entry.Price)), nil
	}

	return Price{Amount: amount, Currency: r.currency}, nil
}

func (r *Resolver) fallback(service domain.ServiceType, reason string) Price {
	r.logger.Warn("ResolvePrice: service=%s %s, using default price %s %s",
		service, reason, r.defaultPrice.String(), r.currency)
	return Price{Amount: r.defaultPrice, Currency: r.currency, Fallback: true}
}

// ParseAmount разбирает цену каталога: "150", "150 TND", "150,50 DT", "80€"
// Возвращает false для "sur devis", пустой, нечисловой или неположительной цены
func ParseAmount(raw string) (decimal.Decimal, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == domain.QuoteOnRequestPrice {
		return decimal.Decimal{}, false
	}

	for _, suffix := range currencySuffixes {
		if strings.HasSuffix(value, suffix) {
			value = strings.TrimSpace(strings.TrimSuffix(value, suffix))
			break
		}
	}
	value = strings.Replace(value, ",", ".", 1)

	amount, err := decimal.NewFromString(value)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}
