package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

func TestLoggerMiddlewareAttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.CloudRunHandlerTo(&buf)(slog.LevelInfo))
	m := NewLoggerMiddleware(log)

	h := chimiddleware.RequestID(m.LoggerMiddleware(m.AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/deals", nil))

	dec := json.NewDecoder(&buf)
	var entries []map[string]any
	for dec.More() {
		var e map[string]any
		if err := dec.Decode(&e); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}

	for _, e := range entries {
		data, _ := e["data"].(map[string]any)
		if data["path"] != "/deals" || data["method"] != http.MethodGet || data["request_id"] == "" {
			t.Fatalf("request attributes missing: %v", e)
		}
	}
	access, _ := entries[1]["data"].(map[string]any)
	if entries[1]["message"] != "request completed" || access["status"] != float64(http.StatusTeapot) {
		t.Fatalf("access log mismatch: %v", entries[1])
	}
}
