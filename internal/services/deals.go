package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/pkg/backoff"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

// --- Dependencies ---

// dealLister is the Bitrix adapter surface used by this service.
type dealLister interface {
	ListDeals(ctx context.Context, q dto.DealQuery, start int) (dto.DealPage, error)
}

type dealService struct {
	client   dealLister
	catalog  *models.Catalog
	policy   backoff.Policy
	clockNow func() time.Time
}

func NewDealService(client dealLister, catalog *models.Catalog, policy backoff.Policy) *dealService {
	return &dealService{
		client:   client,
		catalog:  catalog,
		policy:   policy,
		clockNow: time.Now,
	}
}

// FetchAll walks crm.deal.list page by page until the vendor stops returning a next offset.
// Every page request is retried on rate limiting.
func (s *dealService) FetchAll(ctx context.Context, q dto.DealQuery) ([]dto.RawDeal, error) {
	var all []dto.RawDeal
	start := 0
	pages := 0

	for {
		page, err := backoff.Retry(ctx, s.policy, errs.IsTransient, func(ctx context.Context) (dto.DealPage, error) {
			return s.client.ListDeals(ctx, q, start)
		})
		if err != nil {
			return nil, fmt.Errorf("list deals at offset %d: %w", start, err)
		}
		pages++
		all = append(all, page.Deals...)

		if page.Next == nil {
			break
		}
		if *page.Next <= start {
			return nil, errs.NewExternalServiceError("bitrix", 0,
				fmt.Sprintf("pagination did not advance: next=%d start=%d", *page.Next, start), nil)
		}
		start = *page.Next
	}

	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("deals fetched",
			"stage_id", q.StageID,
			"category_id", q.CategoryID,
			"closed", q.Closed,
			"owners", len(q.OwnerIDs),
			"pages", pages,
			"deals", len(all))
	}
	return all, nil
}

// FetchOpenDeals returns the open deals of every configured funnel, in funnel order.
func (s *dealService) FetchOpenDeals(ctx context.Context) ([]models.Deal, error) {
	owners := s.catalog.OwnerIDs()
	return s.collect(ctx, func(f models.Funnel) dto.DealQuery {
		return dto.DealQuery{
			StageID:  f.StageID,
			OwnerIDs: owners,
		}
	})
}

// FetchClosedDeals returns deals closed within [start, end] in every configured funnel.
func (s *dealService) FetchClosedDeals(ctx context.Context, start, end time.Time) ([]models.Deal, error) {
	if end.Before(start) {
		return nil, errs.NewValidationError("closed deal window ends before it starts")
	}
	owners := s.catalog.OwnerIDs()
	return s.collect(ctx, func(f models.Funnel) dto.DealQuery {
		return dto.DealQuery{
			CategoryID: f.ID,
			Closed:     true,
			ClosedFrom: &start,
			ClosedTo:   &end,
			OwnerIDs:   owners,
		}
	})
}

// collect fetches every funnel concurrently. The first failure cancels
// the remaining fetches and no partial result is returned.
func (s *dealService) collect(ctx context.Context, query func(models.Funnel) dto.DealQuery) ([]models.Deal, error) {
	funnels := s.catalog.Funnels
	results := make([][]dto.RawDeal, len(funnels))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range funnels {
		g.Go(func() error {
			raws, err := s.FetchAll(gctx, query(f))
			if err != nil {
				logger.FromContext(gctx).Warn("funnel fetch failed", "funnel", f.ShortName, "error", err)
				return fmt.Errorf("funnel %s: %w", f.ShortName, err)
			}
			results[i] = raws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	flat := make([]dto.RawDeal, 0, total)
	for _, r := range results {
		flat = append(flat, r...)
	}

	return TransformDeals(flat, s.clockNow())
}
