package dto

import "time"

// RawDeal is a crm.deal.list record exactly as Bitrix24 returns it.
// Every field is a string and any of them may be empty.
type RawDeal struct {
	ID           string `json:"ID"`
	Title        string `json:"TITLE"`
	Opportunity  string `json:"OPPORTUNITY"`
	AssignedByID string `json:"ASSIGNED_BY_ID"`
	StageID      string `json:"STAGE_ID"`
	CompanyTitle string `json:"COMPANY_TITLE,omitempty"`
	DateModify   string `json:"DATE_MODIFY,omitempty"`
	CloseDate    string `json:"CLOSEDATE,omitempty"`
}

// DealPage is one page of crm.deal.list. A nil Next marks the last page.
type DealPage struct {
	Deals []RawDeal `json:"result"`
	Next  *int      `json:"next,omitempty"`
	Total int       `json:"total,omitempty"`
}

// DealQuery selects deals for crm.deal.list.
// StageID is used for open deals, CategoryID for closed ones.
type DealQuery struct {
	StageID    string
	CategoryID string
	Closed     bool
	ClosedFrom *time.Time
	ClosedTo   *time.Time
	OwnerIDs   []int64
}
