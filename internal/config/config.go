package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// EnvPrefix префикс переменных окружения, перекрывающих значения из файла
// Имя переменной: префикс, секция и поле через "_" (BOOKING_DATABASE_PASSWORD, BOOKING_SERVER_HTTP_PORT)
const EnvPrefix = "BOOKING"

// Mailer drivers
const (
	MailerDriverNone = ""
	MailerDriverSMTP = "smtp"
	MailerDriverAMQP = "amqp"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server" split_words:"true"`
	Database      DatabaseConfig      `toml:"database" split_words:"true"`
	Logs          LogsConfig          `toml:"logs" split_words:"true"`
	Metrics       MetricsConfig       `toml:"metrics" split_words:"true"`
	Booking       BookingConfig       `toml:"booking" split_words:"true"`
	Pricing       PricingConfig       `toml:"pricing" split_words:"true"`
	Notifications NotificationsConfig `toml:"notifications" split_words:"true"`
	Calendar      CalendarConfig      `toml:"calendar" split_words:"true"`
	Mailer        MailerConfig        `toml:"mailer" split_words:"true"`
	Gateway       GatewayConfig       `toml:"gateway" split_words:"true"`
	Redis         RedisConfig         `toml:"redis" split_words:"true"`
	Auth          AuthConfig          `toml:"auth" split_words:"true"`
	Webhook       WebhookConfig       `toml:"webhook" split_words:"true"`
	RateLimit     RateLimitConfig     `toml:"ratelimit" split_words:"true"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig подключение к postgres
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

// LogsConfig настройки логгера
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// BookingConfig часы работы и часовой пояс консультаций
type BookingConfig struct {
	Timezone       string   `toml:"timezone" split_words:"true"`
	SlotMinutes    int      `toml:"slot_minutes" split_words:"true"`
	OpenTime       string   `toml:"open_time" split_words:"true"`
	CloseTime      string   `toml:"close_time" split_words:"true"`
	ClosedWeekdays []string `toml:"closed_weekdays" split_words:"true"`
}

// PricingConfig цена по умолчанию и валюта
type PricingConfig struct {
	DefaultPrice  string `toml:"default_price" split_words:"true"`
	Currency      string `toml:"currency" split_words:"true"`
	DefaultMethod string `toml:"default_method" split_words:"true"`
}

// NotificationsConfig фоновые уведомления
type NotificationsConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds" split_words:"true"`
	Workers        int    `toml:"workers" split_words:"true"`
	AdminEmail     string `toml:"admin_email" split_words:"true"`
}

// CalendarConfig внешний календарь
type CalendarConfig struct {
	Enabled    bool   `toml:"enabled" split_words:"true"`
	URL        string `toml:"url" split_words:"true"`
	Token      string `toml:"token" split_words:"true"`
	CalendarID string `toml:"calendar_id" split_words:"true"`
	Timeout    int    `toml:"timeout" split_words:"true"`
}

// MailerConfig отправка писем
type MailerConfig struct {
	Driver string     `toml:"driver" split_words:"true"`
	SMTP   SMTPConfig `toml:"smtp" split_words:"true"`
	AMQP   AMQPConfig `toml:"amqp" split_words:"true"`
}

// SMTPConfig прямая отправка через SMTP
type SMTPConfig struct {
	Host     string `toml:"host" split_words:"true"`
	Port     int    `toml:"port" split_words:"true"`
	Username string `toml:"username" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	From     string `toml:"from" split_words:"true"`
}

// AMQPConfig публикация писем в очередь RabbitMQ
type AMQPConfig struct {
	URL   string `toml:"url" split_words:"true"`
	Queue string `toml:"queue" split_words:"true"`
}

// GatewayConfig онлайн оплата через Omise
// Methods перечисляет способы оплаты, которые обслуживает шлюз (gateway_a, gateway_b, gateway_c)
type GatewayConfig struct {
	OmisePublicKey string   `toml:"omise_public_key" split_words:"true"`
	OmiseSecretKey string   `toml:"omise_secret_key" split_words:"true"`
	Methods        []string `toml:"methods" split_words:"true"`
	Timeout        int      `toml:"timeout" split_words:"true"`
}

// RedisConfig распределённая блокировка слотов
type RedisConfig struct {
	Enabled        bool   `toml:"enabled" split_words:"true"`
	Addr           string `toml:"addr" split_words:"true"`
	Password       string `toml:"password" split_words:"true"`
	DB             int    `toml:"db" split_words:"true"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds" split_words:"true"`
}

// AuthConfig проверка JWT администратора
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" split_words:"true"`
}

// WebhookConfig подпись callback'ов платёжного шлюза
type WebhookConfig struct {
	Secret string `toml:"secret" split_words:"true"`
}

// RateLimitConfig ограничение частоты бронирований с одного IP
type RateLimitConfig struct {
	BookingRPS   float64 `toml:"booking_rps" split_words:"true"`
	BookingBurst int     `toml:"booking_burst" split_words:"true"`
}

// Load читает конфигурацию из toml файла, затем применяет .env и переменные окружения
// Отсутствующий файл не является ошибкой: используются значения по умолчанию и окружение
func Load(path string) (*Config, error) {
	cfg := Default()

	// .env опционален
	_ = godotenv.Load()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "becof-booking",
		},
		Booking: BookingConfig{
			Timezone:       domain.DefaultTimezone,
			SlotMinutes:    domain.DefaultSlotMinutes,
			OpenTime:       domain.DefaultOpenTime,
			CloseTime:      domain.DefaultCloseTime,
			ClosedWeekdays: []string{"sunday"},
		},
		Pricing: PricingConfig{
			DefaultPrice:  domain.DefaultPrice,
			Currency:      domain.DefaultCurrency,
			DefaultMethod: string(domain.DefaultPaymentMethod),
		},
		Notifications: NotificationsConfig{
			TimeoutSeconds: 5,
			Workers:        16,
		},
		Calendar: CalendarConfig{
			Timeout: 5,
		},
		Gateway: GatewayConfig{
			Timeout: 10,
		},
		Mailer: MailerConfig{
			SMTP: SMTPConfig{Port: 587},
			AMQP: AMQPConfig{Queue: "mail.outbox"},
		},
		Redis: RedisConfig{
			Addr:           "localhost:6379",
			LockTTLSeconds: 10,
		},
		RateLimit: RateLimitConfig{
			BookingRPS:   1,
			BookingBurst: 5,
		},
	}
}

// Validate проверяет обязательные и взаимосвязанные значения
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 {
		problems = append(problems, "server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host and database.dbname are required")
	}
	if _, err := c.Booking.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("booking.timezone: %v", err))
	}
	if c.Booking.SlotMinutes <= 0 {
		problems = append(problems, "booking.slot_minutes must be positive")
	}
	open, errOpen := time.Parse(domain.TimeFormat, c.Booking.OpenTime)
	closeAt, errClose := time.Parse(domain.TimeFormat, c.Booking.CloseTime)
	if errOpen != nil || errClose != nil || !open.Before(closeAt) {
		problems = append(problems, "booking.open_time and booking.close_time must be HH:MM with open before close")
	}
	if _, err := c.Booking.Weekdays(); err != nil {
		problems = append(problems, fmt.Sprintf("booking.closed_weekdays: %v", err))
	}
	if amount, err := decimal.NewFromString(c.Pricing.DefaultPrice); err != nil || !amount.IsPositive() {
		problems = append(problems, "pricing.default_price must be a positive number")
	}
	if c.Pricing.Currency == "" {
		problems = append(problems, "pricing.currency is required")
	}
	if _, err := domain.ParsePaymentMethod(c.Pricing.DefaultMethod); err != nil {
		problems = append(problems, fmt.Sprintf("pricing.default_method: %v", err))
	}
	for _, m := range c.Gateway.Methods {
		method, err := domain.ParsePaymentMethod(m)
		if err != nil || !method.IsGateway() {
			problems = append(problems, fmt.Sprintf("gateway.methods: %q is not a gateway method", m))
		}
	}
	if c.Gateway.Timeout <= 0 {
		problems = append(problems, "gateway.timeout must be positive")
	}
	if c.Calendar.Enabled && c.Calendar.URL == "" {
		problems = append(problems, "calendar.url is required when calendar is enabled")
	}
	switch c.Mailer.Driver {
	case MailerDriverNone:
	case MailerDriverSMTP:
		if c.Mailer.SMTP.Host == "" || c.Mailer.SMTP.From == "" {
			problems = append(problems, "mailer.smtp.host and mailer.smtp.from are required for the smtp driver")
		}
	case MailerDriverAMQP:
		if c.Mailer.AMQP.URL == "" || c.Mailer.AMQP.Queue == "" {
			problems = append(problems, "mailer.amqp.url and mailer.amqp.queue are required for the amqp driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("mailer.driver: unknown driver %q", c.Mailer.Driver))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.RateLimit.BookingRPS < 0 || c.RateLimit.BookingBurst < 0 {
		problems = append(problems, "ratelimit values must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DSN строка подключения к postgres
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Location часовой пояс, в котором клиент выбирает дату и время
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Weekdays разбирает closed_weekdays ("sunday", "Sun")
func (b BookingConfig) Weekdays() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(b.ClosedWeekdays))
	for _, raw := range b.ClosedWeekdays {
		day, ok := parseWeekday(raw)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", raw)
		}
		days = append(days, day)
	}
	return days, nil
}

// Hours рабочие часы для генерации слотов
func (b BookingConfig) Hours() (domain.BookingHours, error) {
	loc, err := b.Location()
	if err != nil {
		return domain.BookingHours{}, err
	}
	days, err := b.Weekdays()
	if err != nil {
		return domain.BookingHours{}, err
	}
	return domain.BookingHours{
		OpenTime:       b.OpenTime,
		CloseTime:      b.CloseTime,
		SlotMinutes:    b.SlotMinutes,
		ClosedWeekdays: days,
		Location:       loc,
	}, nil
}

// DefaultAmount цена по умолчанию
func (p PricingConfig) DefaultAmount() decimal.Decimal {
	return decimal.RequireFromString(p.DefaultPrice)
}

// Method способ оплаты, с которым создаётся платеж при бронировании
func (p PricingConfig) Method() domain.PaymentMethod {
	method, err := domain.ParsePaymentMethod(p.DefaultMethod)
	if err != nil {
		return domain.DefaultPaymentMethod
	}
	return method
}

// Timeout таймаут одной фоновой задачи
func (n NotificationsConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// GatewayMethods способы оплаты, обслуживаемые Omise
func (g GatewayConfig) GatewayMethods() []domain.PaymentMethod {
	methods := make([]domain.PaymentMethod, 0, len(g.Methods))
	for _, raw := range g.Methods {
		if m, err := domain.ParsePaymentMethod(raw); err == nil && m.IsGateway() {
			methods = append(methods, m)
		}
	}
	return methods
}

// RequestTimeout предельное время одного запроса к шлюзу
func (g GatewayConfig) RequestTimeout() time.Duration {
	return time.Duration(g.Timeout) * time.Second
}

// Configured true, если заданы ключи Omise
func (g GatewayConfig) Configured() bool {
	return g.OmisePublicKey != "" && g.OmiseSecretKey != ""
}

// LockTTL время жизни блокировки слота
func (r RedisConfig) LockTTL() time.Duration {
	return time.Duration(r.LockTTLSeconds) * time.Second
}

func parseWeekday(raw string) (time.Weekday, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if key == name || key == name[:3] {
			return d, true
		}
	}
	return 0, false
}
