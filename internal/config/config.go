package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Допустимый формат secret_token в Bot API
var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Salon     SalonConfig     `toml:"salon"`
	Reminders RemindersConfig `toml:"reminders"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Email     EmailConfig     `toml:"email"`
	Redis     RedisConfig     `toml:"redis"`

	// Location часовой пояс салона, вычисляется из Salon.Timezone
	Location *time.Location `toml:"-"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
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

// SalonConfig данные салона для сообщений и правил записи
type SalonConfig struct {
	Timezone            string `toml:"timezone"`
	Address             string `toml:"address"`
	ContactPhone        string `toml:"contact_phone"`
	MaxBookingDaysAhead int    `toml:"max_booking_days_ahead"`
}

// RemindersConfig параметры фоновой рассылки напоминаний
type RemindersConfig struct {
	Enabled          bool   `toml:"enabled"`
	Schedule         string `toml:"schedule"`           // cron-выражение
	DefaultLeadHours int    `toml:"default_lead_hours"` // если в БД нет активных настроек
	ClaimBeforeSend  bool   `toml:"claim_before_send"`
	DispatchTimeout  int    `toml:"dispatch_timeout"` // секунды на одну отправку
	LockKey          string `toml:"lock_key"`
	LockTTL          int    `toml:"lock_ttl"` // секунды
}

type TelegramConfig struct {
	Enabled       bool    `toml:"enabled"`
	Token         string  `toml:"token"`
	AdminChatID   int64   `toml:"admin_chat_id"`
	RatePerSecond float64 `toml:"rate_per_second"`
	WebhookURL    string  `toml:"webhook_url"`    // если задан, вебхук регистрируется при старте
	WebhookSecret string  `toml:"webhook_secret"` // X-Telegram-Bot-Api-Secret-Token
}

type EmailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Load читает TOML файл, затем .env (если есть) и переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Salon.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrInvalidConfig, cfg.Salon.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-booking-service",
		},
		Salon: SalonConfig{
			Timezone:            "Europe/Moscow",
			MaxBookingDaysAhead: 90,
		},
		Reminders: RemindersConfig{
			Enabled:          true,
			Schedule:         "*/5 * * * *",
			DefaultLeadHours: 24,
			ClaimBeforeSend:  true,
			DispatchTimeout:  30,
			LockKey:          "salon:reminders:lock",
			LockTTL:          240,
		},
		Telegram: TelegramConfig{RatePerSecond: 25},
		Email:    EmailConfig{Port: 587},
	}
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setInt(&cfg.Database.Port, "DB_PORT")

	setString(&cfg.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setInt64(&cfg.Telegram.AdminChatID, "TELEGRAM_ADMIN_CHAT_ID")
	setString(&cfg.Telegram.WebhookURL, "TELEGRAM_WEBHOOK_URL")
	setString(&cfg.Telegram.WebhookSecret, "TELEGRAM_WEBHOOK_SECRET")

	setString(&cfg.Email.Username, "SMTP_USERNAME")
	setString(&cfg.Email.Password, "SMTP_PASSWORD")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Salon.Timezone, "SALON_TIMEZONE")
}

func (c *Config) validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Salon.MaxBookingDaysAhead < 0 {
		problems = append(problems, "salon.max_booking_days_ahead must not be negative")
	}
	if c.Reminders.DefaultLeadHours <= 0 {
		problems = append(problems, "reminders.default_lead_hours must be positive")
	}
	if c.Reminders.Enabled && strings.TrimSpace(c.Reminders.Schedule) == "" {
		problems = append(problems, "reminders.schedule is required when reminders are enabled")
	}
	if c.Reminders.DispatchTimeout <= 0 {
		problems = append(problems, "reminders.dispatch_timeout must be positive")
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		problems = append(problems, "telegram.token (TELEGRAM_BOT_TOKEN) is required when telegram is enabled")
	}
	if c.Telegram.Enabled && !webhookSecretPattern.MatchString(c.Telegram.WebhookSecret) {
		problems = append(problems, "telegram.webhook_secret (TELEGRAM_WEBHOOK_SECRET) must be 1-256 characters of A-Z, a-z, 0-9, _ and -")
	}
	if c.Email.Enabled && (c.Email.Host == "" || c.Email.From == "") {
		problems = append(problems, "email.host and email.from are required when email is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
