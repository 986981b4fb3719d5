package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// Bitrix stage codes end in WON / LOSE for the terminal stages of every category.
const (
	wonToken  = "WON"
	lostToken = "LOSE"
)

// Aggregate builds the board snapshot. It is pure: the same inputs always
// produce the same snapshot. Deals owned by unconfigured salespeople, or
// sitting outside a configured stage, are ignored.
func Aggregate(open, closed []models.Deal, catalog *models.Catalog, period dto.Period, now time.Time) dto.DashboardSnapshot {
	snap := dto.DashboardSnapshot{
		Salespeople:  make([]dto.SalespersonSummary, 0, len(catalog.Salespeople)),
		Funnels:      catalog.Funnels,
		FunnelTotals: zeroTotals(catalog.Funnels),
		GrandTotal:   decimal.Zero,
		Period:       period,
		LastUpdated:  now,
	}

	openByOwner := groupByOwner(open)
	closedByOwner := groupByOwner(closed)

	for _, sp := range catalog.Salespeople {
		sum := summarize(sp, openByOwner[sp.ID], closedByOwner[sp.ID], catalog.Funnels)
		for stage, v := range sum.TotalByFunnel {
			snap.FunnelTotals[stage] = snap.FunnelTotals[stage].Add(v)
		}
		snap.Salespeople = append(snap.Salespeople, sum)
	}

	for _, f := range catalog.Funnels {
		snap.GrandTotal = snap.GrandTotal.Add(snap.FunnelTotals[f.StageID])
	}
	return snap
}

func summarize(sp models.Salesperson, open, closed []models.Deal, funnels []models.Funnel) dto.SalespersonSummary {
	sum := dto.SalespersonSummary{
		ID:            sp.ID,
		Name:          sp.Name,
		Photo:         sp.Photo,
		Deals:         make([]models.Deal, 0, len(open)),
		TotalByFunnel: zeroTotals(funnels),
		GrandTotal:    decimal.Zero,
		WonValue:      decimal.Zero,
		LostValue:     decimal.Zero,
	}

	for _, d := range open {
		total, ok := sum.TotalByFunnel[d.StageID]
		if !ok {
			continue
		}
		sum.TotalByFunnel[d.StageID] = total.Add(d.Opportunity)
		sum.Deals = append(sum.Deals, d)
	}
	for _, f := range funnels {
		sum.GrandTotal = sum.GrandTotal.Add(sum.TotalByFunnel[f.StageID])
	}

	for _, d := range closed {
		switch {
		case strings.Contains(d.StageID, wonToken):
			sum.WonCount++
			sum.WonValue = sum.WonValue.Add(d.Opportunity)
		case strings.Contains(d.StageID, lostToken):
			sum.LostCount++
			sum.LostValue = sum.LostValue.Add(d.Opportunity)
		}
	}
	return sum
}

func groupByOwner(deals []models.Deal) map[int64][]models.Deal {
	out := make(map[int64][]models.Deal)
	for _, d := range deals {
		out[d.OwnerID] = append(out[d.OwnerID], d)
	}
	return out
}

func zeroTotals(funnels []models.Funnel) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(funnels))
	for _, f := range funnels {
		out[f.StageID] = decimal.Zero
	}
	return out
}
