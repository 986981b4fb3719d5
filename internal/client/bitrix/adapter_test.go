package bitrixclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	// no trailing slash on purpose
	return NewAdapter(srv.URL+"/rest/1/token", srv.Client(), nil), srv
}

func TestListDealsOpenQuery(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	a, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":[{"ID":"10","TITLE":"Loja","OPPORTUNITY":"1500.50","ASSIGNED_BY_ID":"52","STAGE_ID":"C8:NEW"}],"next":50,"total":120}`))
	})

	page, err := a.ListDeals(context.Background(), dto.DealQuery{
		StageID:  "C8:NEW",
		OwnerIDs: []int64{52, 190},
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/rest/1/token/crm.deal.list.json" {
		t.Fatalf("path mismatch: %q", gotPath)
	}
	if gotQuery["filter[STAGE_ID]"][0] != "C8:NEW" || gotQuery["filter[CLOSED]"][0] != "N" {
		t.Fatalf("filter mismatch: %v", gotQuery)
	}
	if owners := gotQuery["filter[ASSIGNED_BY_ID][]"]; len(owners) != 2 || owners[0] != "52" || owners[1] != "190" {
		t.Fatalf("owner filter mismatch: %v", owners)
	}
	if len(gotQuery["select[]"]) != len(selectFields) {
		t.Fatalf("select mismatch: %v", gotQuery["select[]"])
	}
	if gotQuery["start"][0] != "0" {
		t.Fatalf("start mismatch: %v", gotQuery["start"])
	}
	if _, ok := gotQuery["filter[CATEGORY_ID]"]; ok {
		t.Fatal("category filter must not be sent for open deals")
	}

	if len(page.Deals) != 1 || page.Deals[0].ID != "10" || page.Deals[0].Opportunity != "1500.50" {
		t.Fatalf("deals mismatch: %+v", page.Deals)
	}
	if page.Next == nil || *page.Next != 50 || page.Total != 120 {
		t.Fatalf("pagination mismatch: next=%v total=%d", page.Next, page.Total)
	}
}

func TestListDealsClosedQuery(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, loc)
	to := time.Date(2026, 10, 31, 23, 59, 59, 0, loc)

	params := EncodeQuery(dto.DealQuery{
		CategoryID: "8",
		Closed:     true,
		ClosedFrom: &from,
		ClosedTo:   &to,
		OwnerIDs:   []int64{70},
	}, 100)

	if params.Get("filter[CATEGORY_ID]") != "8" || params.Get("filter[CLOSED]") != "Y" {
		t.Fatalf("filter mismatch: %v", params)
	}
	if params.Get("filter[>=CLOSEDATE]") != "2026-10-01T00:00:00-03:00" {
		t.Fatalf("lower bound mismatch: %q", params.Get("filter[>=CLOSEDATE]"))
	}
	if params.Get("filter[<=CLOSEDATE]") != "2026-10-31T23:59:59-03:00" {
		t.Fatalf("upper bound mismatch: %q", params.Get("filter[<=CLOSEDATE]"))
	}
	if params.Get("filter[STAGE_ID]") != "" {
		t.Fatal("stage filter must not be sent for closed deals")
	}
	if params.Get("start") != "100" {
		t.Fatalf("start mismatch: %q", params.Get("start"))
	}
}

func TestListDealsLastPageHasNoNext(t *testing.T) {
	a, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[],"total":0}`))
	})

	page, err := a.ListDeals(context.Background(), dto.DealQuery{StageID: "C8:NEW"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Next != nil {
		t.Fatalf("expected nil next, got %d", *page.Next)
	}
}

func TestListDealsClassifiesFailures(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		transient bool
		contains  string
	}{
		{"query limit", http.StatusServiceUnavailable, `{"error":"QUERY_LIMIT_EXCEEDED","error_description":"Too many requests"}`, true, "QUERY_LIMIT_EXCEEDED"},
		{"too many requests", http.StatusTooManyRequests, ``, true, "HTTP 429"},
		{"unauthorized", http.StatusUnauthorized, `{"error":"INVALID_CREDENTIALS"}`, false, "INVALID_CREDENTIALS"},
		{"server error", http.StatusInternalServerError, `oops`, false, "HTTP 500"},
		{"error body on 200", http.StatusOK, `{"error":"ERROR_CORE","error_description":"bad filter"}`, false, "bad filter"},
		{"malformed json", http.StatusOK, `{"result":`, false, "malformed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := a.ListDeals(context.Background(), dto.DealQuery{StageID: "C8:NEW"}, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			var ext *errs.ExternalServiceError
			if !errors.As(err, &ext) {
				t.Fatalf("expected ExternalServiceError, got %T", err)
			}
			if ext.Transient != tc.transient {
				t.Fatalf("transient mismatch: got %v", ext.Transient)
			}
			if ext.Service != "bitrix" || ext.Status != tc.status {
				t.Fatalf("service/status mismatch: %+v", ext)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("message %q does not contain %q", err.Error(), tc.contains)
			}
		})
	}
}

func TestListDealsNetworkFailureIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	a := NewAdapter(srv.URL, srv.Client(), nil)
	srv.Close()

	_, err := a.ListDeals(context.Background(), dto.DealQuery{StageID: "C8:NEW"}, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if errs.IsTransient(err) {
		t.Fatal("network failure must not be retried")
	}
}

func TestListDealsLimiterPastDeadlineIsTimeout(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow()
	a := NewAdapter(srv.URL, srv.Client(), limiter)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := a.ListDeals(ctx, dto.DealQuery{StageID: "C8:NEW"}, 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if n := hits.Load(); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}
