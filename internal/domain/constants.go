package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// MaxNotesLength limit for admin notes on an appointment
const MaxNotesLength = 2000

// Defaults used when configuration omits a value
const (
	DefaultCurrency      = "TND"
	DefaultPrice         = "100"
	DefaultSlotMinutes   = 60
	DefaultOpenTime      = "09:00"
	DefaultCloseTime     = "18:00"
	DefaultTimezone      = "Africa/Tunis"
	DefaultPaymentMethod = MethodBankTransfer
)
