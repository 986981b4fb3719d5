package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ProjectID           string
	LogLevel            string
	LogFile             string
	Port                string
	BitrixWebhookURL    string
	BitrixWebhookSecret string
	CatalogPath         string
	StaticDir           string
	TimeZone            string
	FetchTimeout        time.Duration
	RequestTimeout      time.Duration
	DedupeWindow        time.Duration
	PollInterval        time.Duration
	RateLimit           float64
	RateBurst           int
	RetryAttempts       int
	RetryBaseDelay      time.Duration
}

// New reads the process environment. Unset values take their defaults;
// malformed values are reported together.
func New() (*Config, error) {
	var errList []error
	cfg := &Config{
		ProjectID:           os.Getenv("PROJECTID"),
		LogLevel:            os.Getenv("LOGLEVEL"),
		LogFile:             os.Getenv("LOGFILE"),
		Port:                getString("PORT", "8080"),
		BitrixWebhookURL:    os.Getenv("BITRIXWEBHOOKURL"),
		BitrixWebhookSecret: os.Getenv("BITRIXWEBHOOKSECRET"),
		CatalogPath:         os.Getenv("CATALOGPATH"),
		StaticDir:           os.Getenv("STATICDIR"),
		TimeZone:            getString("TIMEZONE", "America/Sao_Paulo"),
		FetchTimeout:        getDuration("FETCHTIMEOUT", 45*time.Second, &errList),
		RequestTimeout:      getDuration("REQUESTTIMEOUT", 15*time.Second, &errList),
		DedupeWindow:        getDuration("DEDUPEWINDOW", 5*time.Second, &errList),
		PollInterval:        getDuration("POLLINTERVAL", 30*time.Second, &errList),
		RateLimit:           getFloat("RATELIMIT", 2, &errList),
		RateBurst:           getInt("RATEBURST", 2, &errList),
		RetryAttempts:       getInt("RETRYATTEMPTS", 5, &errList),
		RetryBaseDelay:      getDuration("RETRYBASEDELAY", time.Second, &errList),
	}
	if cfg.RetryAttempts < 1 {
		errList = append(errList, fmt.Errorf("RETRYATTEMPTS must be at least 1, got %d", cfg.RetryAttempts))
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		errList = append(errList, fmt.Errorf("RATEBURST must be at least 1 when RATELIMIT is set, got %d", cfg.RateBurst))
	}
	if cfg.BitrixWebhookURL == "" && cfg.BitrixWebhookSecret == "" {
		errList = append(errList, errors.New("one of BITRIXWEBHOOKURL or BITRIXWEBHOOKSECRET is required"))
	}
	return cfg, errors.Join(errList...)
}

// Location loads the board time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, errList *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errList *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64, errList *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}
