// Command snapshot runs one fetch cycle against Bitrix24 and prints the
// /deals envelope to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/sales-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/sales-dashboard/internal/config"
	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/response"
	"github.com/GregMSThompson/sales-dashboard/internal/services"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		exitOnError("load .env failed", err, slog.Default())
	}

	// bootstrap
	cfg, err := config.New()
	exitOnError("invalid configuration", err, slog.Default())
	// stdout carries the snapshot, logs go to stderr
	bs, err := bootstrap.RunTo(cfg, os.Stderr)
	exitOnError("bootstrap failed", err, bs.Log)

	// services
	dealsvc := services.NewDealService(bs.BitrixAdapter, bs.Catalog, bs.RetryPolicy)
	dashsvc := services.NewDashboardService(dealsvc, bs.Catalog, bs.Location, cfg.FetchTimeout)

	ctx := logger.ToContext(context.Background(), bs.Log)
	snap, fetchErr := dashsvc.GetDashboard(ctx)
	if fetchErr != nil {
		bs.Log.Error("fetch cycle failed", "error", fetchErr)
	}
	exitOnError("encode snapshot failed", writeEnvelope(os.Stdout, snap, fetchErr), bs.Log)
	if fetchErr != nil {
		os.Exit(1)
	}
}

// writeEnvelope prints the same body GET /deals would answer with.
func writeEnvelope(w io.Writer, snap dto.DashboardSnapshot, fetchErr error) error {
	env := response.Envelope{Success: true, Data: snap}
	if fetchErr != nil {
		status, code := response.Classify(fetchErr)
		msg := "Failed to fetch deals"
		if status < http.StatusInternalServerError {
			msg = fetchErr.Error()
		}
		env = response.Envelope{Error: msg, Code: code}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
