package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/multierr"

	"ticketqr/internal/ticket"
)

// Config is read once at startup from the environment (and .env when present).
type Config struct {
	Port           string `default:"8080"`
	TicketBaseURL  string `default:"https://preview-ebon.vercel.app"`
	SessionSecret  string
	SessionTTL     time.Duration `default:"24h"`
	RedisURL       string
	QRSize         int      `default:"256"`
	QRLevel        string   `default:"medium"`
	QRFilename     string   `default:"qr_code.png"`
	AllowedOrigins []string `default:"[\"*\"]"`
	MaxUploadBytes int64    `default:"10485760"`
}

// Load builds a Config from getenv, falling back to os.Getenv when nil.
func Load(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("config: defaults: %w", err)
	}

	var errs error
	setString(&cfg.Port, getenv("PORT"))
	setString(&cfg.TicketBaseURL, getenv("TICKET_BASE_URL"))
	setString(&cfg.SessionSecret, getenv("SESSION_SECRET"))
	setString(&cfg.RedisURL, getenv("REDIS_URL"))
	setString(&cfg.QRLevel, getenv("QR_LEVEL"))
	setString(&cfg.QRFilename, getenv("QR_FILENAME"))

	if v := strings.TrimSpace(getenv("SESSION_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		errs = multierr.Append(errs, wrap("SESSION_TTL", err))
		if err == nil {
			cfg.SessionTTL = d
		}
	}
	if v := strings.TrimSpace(getenv("QR_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		errs = multierr.Append(errs, wrap("QR_SIZE", err))
		if err == nil {
			cfg.QRSize = n
		}
	}
	if v := strings.TrimSpace(getenv("MAX_UPLOAD_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		errs = multierr.Append(errs, wrap("MAX_UPLOAD_BYTES", err))
		if err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := strings.TrimSpace(getenv("ALLOWED_ORIGINS")); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	errs = multierr.Append(errs, cfg.Validate())
	return cfg, errs
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs error
	if c.SessionSecret == "" {
		errs = multierr.Append(errs, errors.New("config: SESSION_SECRET is required"))
	}
	if c.SessionTTL <= 0 {
		errs = multierr.Append(errs, errors.New("config: SESSION_TTL must be positive"))
	}
	if c.QRSize <= 0 {
		errs = multierr.Append(errs, errors.New("config: QR_SIZE must be positive"))
	}
	if _, err := ticket.ParseLevel(c.QRLevel); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("config: QR_LEVEL: %w", err))
	}
	if c.MaxUploadBytes <= 0 {
		errs = multierr.Append(errs, errors.New("config: MAX_UPLOAD_BYTES must be positive"))
	}
	if !strings.HasPrefix(c.TicketBaseURL, "http://") && !strings.HasPrefix(c.TicketBaseURL, "https://") {
		errs = multierr.Append(errs, fmt.Errorf("config: TICKET_BASE_URL %q is not an http(s) URL", c.TicketBaseURL))
	}
	return errs
}

// Addr is the listen address for http.Server.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("config: %s: %w", name, err)
}
