package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

// DashboardSnapshot is the aggregate served to the board. It is rebuilt on every fetch cycle.
type DashboardSnapshot struct {
	Salespeople  []SalespersonSummary       `json:"salespeople"`
	Funnels      []models.Funnel            `json:"funnels"`
	FunnelTotals map[string]decimal.Decimal `json:"funnelTotals"` // keyed by stage id
	GrandTotal   decimal.Decimal            `json:"grandTotal"`
	Period       Period                     `json:"period"`
	LastUpdated  time.Time                  `json:"lastUpdated"`
}

type SalespersonSummary struct {
	ID            int64                      `json:"id"`
	Name          string                     `json:"name"`
	Photo         string                     `json:"photo,omitempty"`
	Deals         []models.Deal              `json:"deals"`
	TotalByFunnel map[string]decimal.Decimal `json:"totalByFunnel"` // keyed by stage id
	GrandTotal    decimal.Decimal            `json:"grandTotal"`
	WonCount      int                        `json:"wonCount"`
	WonValue      decimal.Decimal            `json:"wonValue"`
	LostCount     int                        `json:"lostCount"`
	LostValue     decimal.Decimal            `json:"lostValue"`
}

// Period is the inclusive close-date window used for won/lost metrics.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
