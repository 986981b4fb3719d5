package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

func newTestHandler() *responseHandler {
	return New(slog.New(logger.NewTestHandler(slog.LevelInfo)))
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestWriteCached(t *testing.T) {
	h := newTestHandler()
	rr := httptest.NewRecorder()
	h.WriteCached(rr, httptest.NewRequest(http.MethodGet, "/deals", nil), http.StatusOK, map[string]int{"n": 1}, true)

	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("status/content type mismatch: %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	body := decode(t, rr)
	if body["success"] != true || body["fromCache"] != true {
		t.Fatalf("envelope mismatch: %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("success envelope must not carry an error: %v", body)
	}
}

func TestWriteSuccessOmitsFromCache(t *testing.T) {
	h := newTestHandler()
	rr := httptest.NewRecorder()
	h.WriteSuccess(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "ok")

	body := decode(t, rr)
	if _, ok := body["fromCache"]; ok {
		t.Fatalf("fromCache should be omitted: %v", body)
	}
}

func TestHandleErrorStatuses(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"rate limited", fmt.Errorf("funnel SMB: %w", errs.NewExternalServiceError("bitrix", 503, "HTTP 503", nil)), http.StatusServiceUnavailable, "rate_limited", "Failed to fetch deals"},
		{"vendor error", errs.NewExternalServiceError("bitrix", 401, "HTTP 401", nil), http.StatusBadGateway, "upstream_error", "Failed to fetch deals"},
		{"bad record", errs.NewTransformError("x", "ID", "x", nil), http.StatusBadGateway, "upstream_bad_data", "Failed to fetch deals"},
		{"timeout", fmt.Errorf("fetch open deals: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "upstream_timeout", "Failed to fetch deals"},
		{"validation", errs.NewValidationError("bad window"), http.StatusBadRequest, "invalid_input", "bad window"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error", "Failed to fetch deals"},
	}

	for _, tc := range cases {
		h := newTestHandler()
		rr := httptest.NewRecorder()
		h.HandleError(rr, httptest.NewRequest(http.MethodGet, "/deals", nil), tc.err, "Failed to fetch deals")

		if rr.Code != tc.status {
			t.Fatalf("%s: status %d want %d", tc.name, rr.Code, tc.status)
		}
		body := decode(t, rr)
		if body["success"] != false || body["code"] != tc.code || body["error"] != tc.message {
			t.Fatalf("%s: envelope mismatch: %v", tc.name, body)
		}
		if _, ok := body["data"]; ok {
			t.Fatalf("%s: error envelope must not carry data", tc.name)
		}
	}
}
