package handlers

import (
	"log/slog"
	"time"

	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/internal/present"
	"github.com/GregMSThompson/sales-dashboard/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
	Catalog         *models.Catalog
	Formatter       *present.Formatter
	PollInterval    time.Duration
	StaticDir       string
}
