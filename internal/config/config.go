// Package config loads runtime settings from the environment (and an
// optional .env file) and holds the fixed policy constants of the portal.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full set of environment-driven settings.
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"host=localhost user=user password=password dbname=mlaconnect port=5432 sslmode=disable"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret    string `env:"JWT_SECRET,required,notEmpty"`
	MLASecretKey string `env:"MLA_SECRET_KEY"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	UploadDir      string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	Timezone       string   `env:"TIMEZONE" envDefault:"Asia/Kolkata"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	Email    EmailConfig    `envPrefix:"EMAIL_"`
	Twilio   TwilioConfig   `envPrefix:"TWILIO_"`
	Telegram TelegramConfig `envPrefix:"TELEGRAM_"`
}

// EmailConfig holds SMTP credentials.
type EmailConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// TwilioConfig holds SMS credentials.
type TwilioConfig struct {
	AccountSID  string `env:"ACCOUNT_SID"`
	AuthToken   string `env:"AUTH_TOKEN"`
	PhoneNumber string `env:"PHONE_NUMBER"`
}

// TelegramConfig configures the optional office alert bot.
type TelegramConfig struct {
	BotToken     string `env:"BOT_TOKEN"`
	OfficeChatID int64  `env:"OFFICE_CHAT_ID"`
}

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
