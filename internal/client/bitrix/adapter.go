package bitrixclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
)

const (
	serviceName = "bitrix"
	listMethod  = "crm.deal.list.json"

	// PageSize is fixed by Bitrix24 for list methods.
	PageSize = 50

	maxBodyBytes = 8 << 20
)

var selectFields = []string{
	"ID", "TITLE", "OPPORTUNITY", "ASSIGNED_BY_ID", "STAGE_ID", "COMPANY_TITLE", "DATE_MODIFY", "CLOSEDATE",
}

type Adapter struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewAdapter talks to the inbound webhook at webhookURL
// (https://<portal>.bitrix24.com/rest/<user>/<token>/). limiter may be nil.
func NewAdapter(webhookURL string, client *http.Client, limiter *rate.Limiter) *Adapter {
	if !strings.HasSuffix(webhookURL, "/") {
		webhookURL += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Adapter{
		baseURL: webhookURL,
		client:  client,
		limiter: limiter,
	}
}

type listResponse struct {
	Result           []dto.RawDeal `json:"result"`
	Next             *int          `json:"next"`
	Total            int           `json:"total"`
	Error            string        `json:"error"`
	ErrorDescription string        `json:"error_description"`
}

// ListDeals fetches one page of crm.deal.list starting at offset start.
func (a *Adapter) ListDeals(ctx context.Context, q dto.DealQuery, start int) (dto.DealPage, error) {
	var page dto.DealPage

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			// Wait refuses early when the next token lands after the deadline
			if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
				return page, fmt.Errorf("bitrix rate limiter: %w: %v", context.DeadlineExceeded, err)
			}
			if ctx.Err() != nil {
				return page, fmt.Errorf("bitrix rate limiter: %w", ctx.Err())
			}
			return page, fmt.Errorf("bitrix rate limiter: %w", err)
		}
	}

	endpoint := a.baseURL + listMethod + "?" + EncodeQuery(q, start).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return page, fmt.Errorf("build bitrix request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return page, errs.NewExternalServiceError(serviceName, 0, "bitrix request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return page, errs.NewExternalServiceError(serviceName, resp.StatusCode, "failed to read bitrix response", err)
	}

	var lr listResponse
	decodeErr := json.Unmarshal(body, &lr)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if decodeErr == nil && lr.Error != "" {
			msg = fmt.Sprintf("%s (%s)", msg, lr.Error)
		}
		return page, errs.NewExternalServiceError(serviceName, resp.StatusCode, msg, nil)
	}
	if decodeErr != nil {
		return page, errs.NewExternalServiceError(serviceName, resp.StatusCode, "malformed bitrix response", decodeErr)
	}
	if lr.Error != "" {
		return page, errs.NewExternalServiceError(serviceName, resp.StatusCode,
			fmt.Sprintf("bitrix error %s: %s", lr.Error, lr.ErrorDescription), nil)
	}

	page.Deals = lr.Result
	page.Next = lr.Next
	page.Total = lr.Total
	return page, nil
}

// EncodeQuery builds the crm.deal.list parameters for q.
// Close-date bounds use the inclusive >= and <= operators.
func EncodeQuery(q dto.DealQuery, start int) url.Values {
	params := url.Values{}

	if q.StageID != "" {
		params.Set("filter[STAGE_ID]", q.StageID)
	}
	if q.CategoryID != "" {
		params.Set("filter[CATEGORY_ID]", q.CategoryID)
	}
	if q.Closed {
		params.Set("filter[CLOSED]", "Y")
	} else {
		params.Set("filter[CLOSED]", "N")
	}
	if q.ClosedFrom != nil {
		params.Set("filter[>=CLOSEDATE]", q.ClosedFrom.Format(time.RFC3339))
	}
	if q.ClosedTo != nil {
		params.Set("filter[<=CLOSEDATE]", q.ClosedTo.Format(time.RFC3339))
	}
	for _, id := range q.OwnerIDs {
		params.Add("filter[ASSIGNED_BY_ID][]", strconv.FormatInt(id, 10))
	}
	for _, f := range selectFields {
		params.Add("select[]", f)
	}
	params.Set("start", strconv.Itoa(start))

	return params
}
