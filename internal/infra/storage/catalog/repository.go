package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/psqlbuilder"
)

// Repository каталог услуг, только чтение
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindActiveService ищет активную услугу по идентификатору
// Выключенная услуга считается отсутствующей
func (r *Repository) FindActiveService(ctx context.Context, id domain.ServiceType) (*domain.ServiceEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name_fr",
		"name_en",
		"description_fr",
		"description_en",
		"price",
		"active",
		"display_order",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveService - build select query: %v", ErrBuildQuery, err)
	}

	var entry domain.ServiceEntry
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.NameFR,
		&entry.NameEN,
		&entry.DescriptionFR,
		&entry.DescriptionEN,
		&entry.Price,
		&entry.Active,
		&entry.DisplayOrder,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveService - scan service: %w", ErrScanRow, err)
	}

	return &entry, nil
}
