package get_available_slots

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
)

type mockLedger struct{ mock.Mock }

func (m *mockLedger) TakenInstants(ctx context.Context, from, to time.Time) (map[time.Time]struct{}, error) {
	args := m.Called(ctx, from, to)
	if taken := args.Get(0); taken != nil {
		return taken.(map[time.Time]struct{}), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func tunisHours(t *testing.T) domain.BookingHours {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Tunis")
	require.NoError(t, err)
	return domain.BookingHours{
		OpenTime:       "09:00",
		CloseTime:      "12:00",
		SlotMinutes:    60,
		ClosedWeekdays: []time.Weekday{time.Sunday},
		Location:       loc,
	}
}

func TestExecute_MarksTakenSlots(t *testing.T) {
	hours := tunisHours(t)
	ledger := &mockLedger{}

	// 2030-03-15 пятница; 10:00 Tunis = 09:00 UTC
	taken := map[time.Time]struct{}{
		time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC): {},
	}
	ledger.On("TakenInstants", mock.Anything, mock.Anything, mock.Anything).Return(taken, nil)

	uc := NewUseCase(ledger, hours, logger.NewNop()).
		WithTimeProvider(fixedTime{now: time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2030-03-15"})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "09:00", resp.Slots[0].Time)
	assert.True(t, resp.Slots[0].Available)
	assert.Equal(t, "10:00", resp.Slots[1].Time)
	assert.False(t, resp.Slots[1].Available)
	assert.Equal(t, "11:00", resp.Slots[2].Time)
	assert.Equal(t, time.Date(2030, 3, 15, 10, 0, 0, 0, time.UTC), resp.Slots[2].StartsAt)
	assert.Equal(t, "Africa/Tunis", resp.Timezone)
}

func TestExecute_ClosedDayIsEmpty(t *testing.T) {
	ledger := &mockLedger{}
	uc := NewUseCase(ledger, tunisHours(t), logger.NewNop()).
		WithTimeProvider(fixedTime{now: time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2030-03-17"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	ledger.AssertNotCalled(t, "TakenInstants", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_PastSlotsOmitted(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("TakenInstants", mock.Anything, mock.Anything, mock.Anything).Return(map[time.Time]struct{}{}, nil)

	// 10:30 по Тунису
	now := time.Date(2030, 3, 15, 9, 30, 0, 0, time.UTC)
	uc := NewUseCase(ledger, tunisHours(t), logger.NewNop()).WithTimeProvider(fixedTime{now: now})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2030-03-15"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "11:00", resp.Slots[0].Time)
}

func TestExecute_PastDateIsEmpty(t *testing.T) {
	ledger := &mockLedger{}
	uc := NewUseCase(ledger, tunisHours(t), logger.NewNop()).
		WithTimeProvider(fixedTime{now: time.Date(2030, 3, 20, 0, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{Date: "2030-03-15"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InvalidDate(t *testing.T) {
	uc := NewUseCase(&mockLedger{}, tunisHours(t), logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Date: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Date: "15/03/2030"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGenerateSlots_PartialLastSlotDropped(t *testing.T) {
	hours := domain.BookingHours{OpenTime: "09:00", CloseTime: "10:30", SlotMinutes: 60, Location: time.UTC}
	window, err := parseDay("2030-03-15", time.UTC)
	require.NoError(t, err)

	slots, err := generateSlots(hours, window, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{time.Date(2030, 3, 15, 9, 0, 0, 0, time.UTC)}, slots)
}
