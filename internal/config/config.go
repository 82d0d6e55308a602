package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/domain"
)

// Config is the full service configuration, loaded once at startup and
// injected explicitly into every component. No package reads settings from
// process-wide state.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Hudle    HudleConfig    `toml:"hudle"`
	Razorpay RazorpayConfig `toml:"razorpay"`
	Worker   WorkerConfig   `toml:"worker"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrationsPath  string `toml:"migrations_path"`
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig carries the cross-cutting booking policy. The original
// system kept these in global key-value settings; here they are explicit
// so the commit and cancellation logic is testable with different values.
type BookingConfig struct {
	Currency              string `toml:"currency"`
	ConfirmationMode      string `toml:"confirmation_mode"` // auto | manual | payment
	CancellationLeadHours int    `toml:"cancellation_lead_hours"`
	RefundPolicy          string `toml:"refund_policy"` // full | partial | none
}

// ConfirmationModeValue returns the typed confirmation mode.
func (b BookingConfig) ConfirmationModeValue() domain.ConfirmationMode {
	return domain.ConfirmationMode(b.ConfirmationMode)
}

// RefundPolicyValue returns the typed refund policy.
func (b BookingConfig) RefundPolicyValue() domain.RefundPolicy {
	return domain.RefundPolicy(b.RefundPolicy)
}

type HudleConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Timeout int    `toml:"timeout"`
}

type RazorpayConfig struct {
	BaseURL   string `toml:"base_url"`
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Timeout   int    `toml:"timeout"`
}

// Configured reports whether gateway credentials are present.
func (r RazorpayConfig) Configured() bool {
	return r.KeyID != "" && r.KeySecret != ""
}

// WorkerConfig configures the outbox consumer.
type WorkerConfig struct {
	Enabled       bool   `toml:"enabled"`
	ConsumerGroup string `toml:"consumer_group"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrationsPath:  "migrations",
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "turf-booking",
		},
		Booking: BookingConfig{
			Currency:              "INR",
			ConfirmationMode:      string(domain.ConfirmOnPayment),
			CancellationLeadHours: 24,
			RefundPolicy:          string(domain.RefundFull),
		},
		Hudle:    HudleConfig{Timeout: 30},
		Razorpay: RazorpayConfig{BaseURL: "https://api.razorpay.com", Timeout: 30},
		Worker: WorkerConfig{
			Enabled:       true,
			ConsumerGroup: "turf-booking-sync",
		},
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database host and dbname are required")
	}

	if !c.Booking.ConfirmationModeValue().Valid() {
		return fmt.Errorf("config: unknown confirmation_mode %q", c.Booking.ConfirmationMode)
	}

	if !c.Booking.RefundPolicyValue().Valid() {
		return fmt.Errorf("config: unknown refund_policy %q", c.Booking.RefundPolicy)
	}

	if c.Booking.CancellationLeadHours < 0 {
		return fmt.Errorf("config: cancellation_lead_hours must not be negative")
	}

	if c.Booking.Currency == "" {
		return fmt.Errorf("config: currency is required")
	}

	return nil
}
