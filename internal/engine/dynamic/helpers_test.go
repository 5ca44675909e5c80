package dynamic

import (
	"testing"

	"github.com/law-makers/localevents/internal/proxy"
)

func mustPool(t *testing.T, raw ...string) *proxy.Pool {
	t.Helper()
	p, err := proxy.NewPool(raw)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
