package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"service unavailable", NewExternalServiceError("bitrix", http.StatusServiceUnavailable, "busy", nil), true},
		{"too many requests", NewExternalServiceError("bitrix", http.StatusTooManyRequests, "slow down", nil), true},
		{"bad gateway", NewExternalServiceError("bitrix", http.StatusBadGateway, "down", nil), false},
		{"network", NewExternalServiceError("bitrix", 0, "dial failed", errors.New("refused")), false},
		{"wrapped", fmt.Errorf("page 2: %w", NewExternalServiceError("bitrix", http.StatusServiceUnavailable, "busy", nil)), true},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Fatalf("%s: IsTransient = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTransformErrorUnwraps(t *testing.T) {
	_, parseErr := strconv.ParseInt("abc", 10, 64)
	err := NewTransformError("abc", "ID", "abc", parseErr)

	if !errors.Is(err, strconv.ErrSyntax) {
		t.Fatalf("expected ErrSyntax in chain: %v", err)
	}
	if err.Error() != `deal "abc": invalid ID "abc"` {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
