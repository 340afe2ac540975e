package slotledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAppointmentRepository struct {
	mock.Mock
}

func (m *mockAppointmentRepository) ExistsActiveAt(ctx context.Context, instant time.Time) (bool, error) {
	args := m.Called(ctx, instant)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentRepository) ListActiveInstants(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func TestLedger_IsSlotFree(t *testing.T) {
	ctx := context.Background()
	tunis := time.FixedZone("CET", 3600)
	local := time.Date(2030, 3, 15, 10, 0, 0, 0, tunis)
	utc := time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC)

	t.Run("free", func(t *testing.T) {
		repo := new(mockAppointmentRepository)
		repo.On("ExistsActiveAt", ctx, utc).Return(false, nil)

		free, err := NewLedger(repo).IsSlotFree(ctx, local)
		require.NoError(t, err)
		assert.True(t, free)
		repo.AssertExpectations(t)
	})

	t.Run("taken", func(t *testing.T) {
		repo := new(mockAppointmentRepository)
		repo.On("ExistsActiveAt", ctx, utc).Return(true, nil)

		free, err := NewLedger(repo).IsSlotFree(ctx, utc)
		require.NoError(t, err)
		assert.False(t, free)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(mockAppointmentRepository)
		repo.On("ExistsActiveAt", ctx, utc).Return(false, errors.New("boom"))

		_, err := NewLedger(repo).IsSlotFree(ctx, utc)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestLedger_TakenInstants(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	nine := from.Add(9 * time.Hour)

	repo := new(mockAppointmentRepository)
	repo.On("ListActiveInstants", ctx, from, to).Return([]time.Time{nine}, nil)

	taken, err := NewLedger(repo).TakenInstants(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, taken, 1)
	_, ok := taken[nine]
	assert.True(t, ok)

	_, err = NewLedger(repo).TakenInstants(ctx, to, from)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
