package get_available_slots

import (
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date string // YYYY-MM-DD в часовом поясе компании
}

// Response модель ответа со списком слотов дня
type Response struct {
	Date            string
	Timezone        string
	DurationMinutes int
	Slots           []domain.AvailableSlot
}

// dayWindow полуинтервал [start, end) локального дня
type dayWindow struct {
	day   time.Time
	start time.Time
	end   time.Time
}
