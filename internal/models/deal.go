package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpportunityStatus tells a genuine zero amount apart from one coerced to zero.
type OpportunityStatus string

const (
	OpportunityOK      OpportunityStatus = "ok"
	OpportunityMissing OpportunityStatus = "missing"
	OpportunityInvalid OpportunityStatus = "invalid"
)

// Deal is a normalized Bitrix24 deal.
type Deal struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Opportunity       decimal.Decimal   `json:"opportunity"`
	OpportunityStatus OpportunityStatus `json:"opportunityStatus"`
	OwnerID           int64             `json:"assignedById"`
	StageID           string            `json:"stageId"`
	CompanyTitle      string            `json:"companyTitle"`
	LastUpdated       time.Time         `json:"lastUpdated"`
	CloseDate         *time.Time        `json:"closeDate,omitempty"`
}
