package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

const (
	untitledDeal  = "Sem título"
	unknownClient = "Sem empresa"
	dateOnly      = "2006-01-02"
)

// TransformDeal normalizes a Bitrix record. now fills a missing DATE_MODIFY.
// Unparseable ids and dates are returned as *errs.TransformError.
func TransformDeal(raw dto.RawDeal, now time.Time) (models.Deal, error) {
	var deal models.Deal

	id, err := strconv.ParseInt(strings.TrimSpace(raw.ID), 10, 64)
	if err != nil {
		return deal, errs.NewTransformError(raw.ID, "ID", raw.ID, err)
	}
	ownerID, err := strconv.ParseInt(strings.TrimSpace(raw.AssignedByID), 10, 64)
	if err != nil {
		return deal, errs.NewTransformError(raw.ID, "ASSIGNED_BY_ID", raw.AssignedByID, err)
	}

	deal.ID = id
	deal.OwnerID = ownerID
	deal.StageID = raw.StageID
	deal.Opportunity, deal.OpportunityStatus = parseOpportunity(raw.Opportunity)

	deal.Title = raw.Title
	if deal.Title == "" {
		deal.Title = untitledDeal
	}
	switch {
	case raw.CompanyTitle != "":
		deal.CompanyTitle = raw.CompanyTitle
	case raw.Title != "":
		deal.CompanyTitle = raw.Title
	default:
		deal.CompanyTitle = unknownClient
	}

	deal.LastUpdated = now
	if raw.DateModify != "" {
		t, err := parseVendorTime(raw.DateModify)
		if err != nil {
			return deal, errs.NewTransformError(raw.ID, "DATE_MODIFY", raw.DateModify, err)
		}
		deal.LastUpdated = t
	}
	if raw.CloseDate != "" {
		t, err := parseVendorTime(raw.CloseDate)
		if err != nil {
			return deal, errs.NewTransformError(raw.ID, "CLOSEDATE", raw.CloseDate, err)
		}
		deal.CloseDate = &t
	}

	return deal, nil
}

// TransformDeals stops at the first defective record.
func TransformDeals(raws []dto.RawDeal, now time.Time) ([]models.Deal, error) {
	deals := make([]models.Deal, 0, len(raws))
	for _, raw := range raws {
		deal, err := TransformDeal(raw, now)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

func parseOpportunity(s string) (decimal.Decimal, models.OpportunityStatus) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, models.OpportunityMissing
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, models.OpportunityInvalid
	}
	return d, models.OpportunityOK
}

func parseVendorTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	if d, derr := time.Parse(dateOnly, s); derr == nil {
		return d, nil
	}
	return time.Time{}, err
}
