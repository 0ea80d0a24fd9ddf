package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = "8080"
	defaultAuthMaxAge      = "24h"
	defaultPendingTimeout  = "15m"
	defaultSweepInterval   = "5m"
	defaultTightWindowDays = 3
	defaultRefundLeadHours = 24
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	DatabaseURL string
	Host        string
	Port        string

	BotToken  string
	AdminTgID int64
	WebappURL string

	// Telegram initData older than this is rejected.
	AuthMaxAge time.Duration

	YooKassaShopID    string
	YooKassaSecretKey string

	// Pending-payment bookings older than PendingTimeout are expired
	// by the sweep running every SweepInterval.
	PendingTimeout time.Duration
	SweepInterval  time.Duration

	// Availability switches to tight mode within this many days.
	TightWindowDays int

	// Client cancellations this close to the appointment get no refund.
	RefundLeadTime time.Duration
}

// PaymentsEnabled reports whether a payment gateway is configured.
// Without one, bookings skip pending_payment and land confirmed.
func (c *Config) PaymentsEnabled() bool {
	return c.YooKassaShopID != "" && c.YooKassaSecretKey != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       strings.TrimSpace(getEnv("DATABASE_URL", "lashstudio.db")),
		Host:              getEnv("HOST", defaultHost),
		Port:              getEnv("PORT", defaultPort),
		BotToken:          strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		WebappURL:         strings.TrimSpace(os.Getenv("WEBAPP_URL")),
		YooKassaShopID:    strings.TrimSpace(os.Getenv("YOOKASSA_SHOP_ID")),
		YooKassaSecretKey: strings.TrimSpace(os.Getenv("YOOKASSA_SECRET_KEY")),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	adminID, err := strconv.ParseInt(strings.TrimSpace(os.Getenv("ADMIN_TG_ID")), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_TG_ID must be a number: %w", err)
	}
	cfg.AdminTgID = adminID

	if cfg.AuthMaxAge, err = parseDurationEnv("AUTH_MAX_AGE", defaultAuthMaxAge); err != nil {
		return nil, err
	}
	if cfg.PendingTimeout, err = parseDurationEnv("PENDING_TIMEOUT", defaultPendingTimeout); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return nil, err
	}

	cfg.TightWindowDays = parseIntEnv("TIGHT_WINDOW_DAYS", defaultTightWindowDays)
	cfg.RefundLeadTime = time.Duration(parseIntEnv("REFUND_LEAD_HOURS", defaultRefundLeadHours)) * time.Hour

	if cfg.PendingTimeout <= 0 || cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("PENDING_TIMEOUT and SWEEP_INTERVAL must be > 0")
	}

	return cfg, nil
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, raw, err)
	}
	return d, nil
}

func parseIntEnv(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
