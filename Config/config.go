package Config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = "8080"
	DefaultDBDriver         = "sqlite"
	DefaultDBDSN            = "database.db"
	DefaultTokenTTL         = 10 * time.Hour
	DefaultLogDir           = "logs"
	DefaultReminderSchedule = "0 0 8 * * *"

	// HS256 keys shorter than the hash output weaken the signature.
	MinSecretLength = 32
)

// Config is built once at startup and handed to every constructor that needs it.
type Config struct {
	Port        string
	DBDriver    string
	DBDSN       string
	JWTSecret   []byte
	TokenTTL    time.Duration
	LogDir      string
	LogFormat   string
	CORSOrigins string

	ReminderSchedule string
	SMTP             SMTPConfig
}

// SMTPConfig holds the outgoing mail settings for task reminders.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// Enabled reports whether enough settings are present to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

// Load reads .env (if present) and the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Error loading %s: %v", f, err)
		}
	}

	cfg := Config{
		Port:             getEnv("PORT", DefaultPort),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", DefaultDBDriver)),
		DBDSN:            getEnv("DB_DSN", DefaultDBDSN),
		JWTSecret:        []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:         DefaultTokenTTL,
		LogDir:           getEnv("LOG_DIR", DefaultLogDir),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		ReminderSchedule: DefaultReminderSchedule,
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     587,
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			FromName: getEnv("SMTP_FROM_NAME", "Task Tracker"),
		},
	}

	if v, ok := os.LookupEnv("REMINDER_SCHEDULE"); ok {
		cfg.ReminderSchedule = strings.TrimSpace(v)
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTP.Port = port
	}

	if v := os.Getenv("SMTP_TLS"); v != "" {
		tls, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SMTP_TLS %q: %w", v, err)
		}
		cfg.SMTP.TLS = tls
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot fall back to a default.
func (c Config) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
