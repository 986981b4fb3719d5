package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

// dealCollector is the deal fetching interface used by dashboardService.
type dealCollector interface {
	FetchOpenDeals(ctx context.Context) ([]models.Deal, error)
	FetchClosedDeals(ctx context.Context, start, end time.Time) ([]models.Deal, error)
}

type dashboardService struct {
	deals    dealCollector
	catalog  *models.Catalog
	loc      *time.Location
	timeout  time.Duration
	clockNow func() time.Time
}

// NewDashboardService builds the snapshot service. loc is the board time zone used
// for the current-month window; a zero timeout disables the cycle deadline.
func NewDashboardService(deals dealCollector, catalog *models.Catalog, loc *time.Location, timeout time.Duration) *dashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		deals:    deals,
		catalog:  catalog,
		loc:      loc,
		timeout:  timeout,
		clockNow: time.Now,
	}
}

// --- Public service methods ---

// GetDashboard runs one full fetch cycle. Open and closed deals are fetched
// concurrently; either failing fails the cycle.
func (s *dashboardService) GetDashboard(ctx context.Context) (dto.DashboardSnapshot, error) {
	log, ctx := logger.With(ctx, "cycle_id", uuid.NewString())
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := s.clockNow()
	period := MonthWindow(started, s.loc)
	log.Debug("fetch cycle started", "period_start", period.Start, "period_end", period.End)

	var open, closed []models.Deal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deals, err := s.deals.FetchOpenDeals(gctx)
		if err != nil {
			return fmt.Errorf("fetch open deals: %w", err)
		}
		open = deals
		return nil
	})
	g.Go(func() error {
		deals, err := s.deals.FetchClosedDeals(gctx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("fetch closed deals: %w", err)
		}
		closed = deals
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("fetch cycle failed", "error", err, "elapsed", s.clockNow().Sub(started))
		return dto.DashboardSnapshot{}, err
	}

	snap := Aggregate(open, closed, s.catalog, period, s.clockNow())
	log.Info("fetch cycle finished",
		"open_deals", len(open),
		"closed_deals", len(closed),
		"grand_total", snap.GrandTotal.String(),
		"elapsed", s.clockNow().Sub(started))
	return snap, nil
}

// --- Calendar helpers ---

// MonthWindow returns the calendar month containing now in loc, from the first
// instant of the month to one second before the next month starts.
func MonthWindow(now time.Time, loc *time.Location) dto.Period {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return dto.Period{Start: start, End: end}
}
