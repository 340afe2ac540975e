package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

var serviceColumns = []string{
	"id", "name_fr", "name_en", "description_fr", "description_en", "price", "active", "display_order",
}

func TestRepository_FindActiveService(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name_fr, name_en, description_fr, description_en, price, active, display_order FROM services WHERE id = $1 AND active = $2")).
		WithArgs("ORIENTATION_SESSION", true).
		WillReturnRows(sqlmock.NewRows(serviceColumns).AddRow(
			"ORIENTATION_SESSION", "Séance d'orientation", "Orientation session", "", "", "150 TND", true, 1,
		))

	entry, err := repo.FindActiveService(context.Background(), domain.ServiceOrientationSession)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceOrientationSession, entry.ID)
	assert.Equal(t, "150 TND", entry.Price)
	assert.True(t, entry.Active)
	assert.Equal(t, 1, entry.DisplayOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindActiveService_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).
		WillReturnRows(sqlmock.NewRows(serviceColumns))

	_, err = NewRepository(db).FindActiveService(context.Background(), "UNKNOWN")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRepository_FindActiveService_StoreError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).
		WillReturnError(errors.New("connection reset"))

	_, err = NewRepository(db).FindActiveService(context.Background(), domain.ServiceCVReview)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScanRow)
	assert.NotErrorIs(t, err, ErrServiceNotFound)
}
