package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	bitrixclient "github.com/GregMSThompson/sales-dashboard/internal/client/bitrix"
	"github.com/GregMSThompson/sales-dashboard/internal/config"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/pkg/backoff"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

type Bootstrap struct {
	Log           *slog.Logger
	Location      *time.Location
	Catalog       *models.Catalog
	RetryPolicy   backoff.Policy
	BitrixAdapter *bitrixclient.Adapter
}

// Run builds the process-wide dependencies, logging to stdout and LOGFILE.
// Log is always set, even on error.
func Run(cfg *config.Config) (*Bootstrap, error) {
	return RunTo(cfg, logger.Output(cfg.LogFile))
}

// RunTo is Run with logs written to out.
func RunTo(cfg *config.Config, out io.Writer) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.CloudRunHandlerTo(out))
	slog.SetDefault(bs.Log)

	// amounts are served as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	bs.Location, err = cfg.Location()
	if err != nil {
		return bs, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	bs.Catalog, err = config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return bs, err
	}

	webhookURL := cfg.BitrixWebhookURL
	if webhookURL == "" {
		webhookURL, err = ResolveWebhookURL(applicationCtx, cfg.ProjectID, cfg.BitrixWebhookSecret)
		if err != nil {
			return bs, err
		}
	}

	bs.RetryPolicy = backoff.Policy{
		MaxAttempts: cfg.RetryAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	bs.BitrixAdapter = bitrixclient.NewAdapter(
		webhookURL,
		&http.Client{Timeout: cfg.RequestTimeout},
		rate.NewLimiter(limit, cfg.RateBurst),
	)

	bs.Log.Info("bootstrap complete",
		"funnels", len(bs.Catalog.Funnels),
		"salespeople", len(bs.Catalog.Salespeople),
		"time_zone", bs.Location.String())
	return bs, nil
}
