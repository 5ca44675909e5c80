package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/law-makers/localevents/internal/retry"
)

func TestEngineError_IsByCode(t *testing.T) {
	err := fmt.Errorf("insider: %w", StatusError("https://insider.in/pune/all-events", 403))

	if !errors.Is(err, &EngineError{Code: ErrCodeHTTPStatus}) {
		t.Error("expected errors.Is to match by code")
	}
	if errors.Is(err, &EngineError{Code: ErrCodeTimeout}) {
		t.Error("unexpected match on a different code")
	}
	if !retry.IsStatus(err, 403) {
		t.Error("expected status 403 to be visible to the retry package")
	}
}

func TestFromTransport(t *testing.T) {
	if got := FromTransport("u", context.DeadlineExceeded).Code; got != ErrCodeTimeout {
		t.Errorf("code = %s, want %s", got, ErrCodeTimeout)
	}
	if got := FromTransport("u", errors.New("connection refused")).Code; got != ErrCodeNetworkError {
		t.Errorf("code = %s, want %s", got, ErrCodeNetworkError)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{StatusError("u", 404), "http_404"},
		{FromTransport("u", context.DeadlineExceeded), "timeout"},
		{errors.New("x"), "error"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
