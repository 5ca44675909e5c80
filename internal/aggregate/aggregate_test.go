package aggregate

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/law-makers/localevents/pkg/models"
)

// fakeSource returns one fragment per title listed for the city spelling
type fakeSource struct {
	name   string
	delay  time.Duration
	byCity map[string][]string
	err    error
	panics bool

	mu     sync.Mutex
	cities []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(ctx context.Context, city string) ([]models.Fragment, error) {
	f.mu.Lock()
	f.cities = append(f.cities, city)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panics {
		panic("selector blew up")
	}
	if f.err != nil {
		return nil, f.err
	}
	var frags []models.Fragment
	for _, title := range f.byCity[city] {
		frags = append(frags, models.Fragment{Title: title, Source: f.name})
	}
	return frags, nil
}

func titles(frags []models.Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Title
	}
	return out
}

func TestAggregator_Search_PriorityOrderAndIsolation(t *testing.T) {
	a := &fakeSource{name: "a", byCity: map[string][]string{"pune": {"a1", "a2"}}}
	broken := &fakeSource{name: "broken", err: errors.New("HTTP 403")}
	panicky := &fakeSource{name: "panicky", panics: true}
	b := &fakeSource{name: "b", byCity: map[string][]string{"pune": {"b1"}}}

	var progress []string
	agg := New(asSources(a, broken, panicky, b), Options{
		Progress: func(source string, n int, err error) {
			progress = append(progress, source)
		},
	})

	got := titles(agg.Search(context.Background(), "pune"))
	want := []string{"a1", "a2", "b1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(progress, []string{"a", "broken", "panicky", "b"}) {
		t.Errorf("progress order = %v", progress)
	}
}

func TestAggregator_Search_ConcurrentKeepsOrder(t *testing.T) {
	slow := &fakeSource{name: "slow", delay: 30 * time.Millisecond, byCity: map[string][]string{"pune": {"s1"}}}
	fast := &fakeSource{name: "fast", byCity: map[string][]string{"pune": {"f1", "f2"}}}
	broken := &fakeSource{name: "broken", err: errors.New("timeout")}

	agg := New(asSources(slow, broken, fast), Options{Concurrency: 3})

	got := titles(agg.Search(context.Background(), "pune"))
	want := []string{"s1", "f1", "f2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search() = %v, want %v", got, want)
	}
}

func TestAggregator_Search_NoSources(t *testing.T) {
	got := New(nil, Options{}).Search(context.Background(), "pune")
	if got == nil || len(got) != 0 {
		t.Errorf("Search() = %v, want empty non-nil", got)
	}
}

func TestAggregator_SearchLocation_StopsAtFirstHit(t *testing.T) {
	src := &fakeSource{name: "a", byCity: map[string][]string{"new-delhi": {"Rally"}}}
	agg := New(asSources(src), Options{})

	city, frags := agg.SearchLocation(context.Background(), "New Delhi")
	if city != "new-delhi" {
		t.Errorf("city = %q, want new-delhi", city)
	}
	if !reflect.DeepEqual(titles(frags), []string{"Rally"}) {
		t.Errorf("fragments = %v", titles(frags))
	}

	if !reflect.DeepEqual(src.cities, []string{"New Delhi", "new delhi", "new-delhi"}) {
		t.Errorf("tried %v, want to stop at the hyphenated spelling", src.cities)
	}
}

func TestAggregator_SearchLocation_NothingFound(t *testing.T) {
	src := &fakeSource{name: "a"}
	agg := New(asSources(src), Options{})

	city, frags := agg.SearchLocation(context.Background(), "Pune")
	if frags == nil || len(frags) != 0 {
		t.Errorf("fragments = %v, want empty non-nil", frags)
	}
	if city != "Pune" {
		t.Errorf("city = %q, want last spelling tried", city)
	}
	// Pune, pune (hyphen and no-space spellings equal "pune"), Pune
	if !reflect.DeepEqual(src.cities, []string{"Pune", "pune", "Pune"}) {
		t.Errorf("tried %v", src.cities)
	}
}

func TestCityVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Pune", []string{"Pune", "pune", "Pune"}},
		{"pune", []string{"pune"}},
		{"New Delhi", []string{"New Delhi", "new delhi", "new-delhi", "newdelhi", "New Delhi"}},
		{"Mumbai, Maharashtra", []string{"Mumbai, Maharashtra", "mumbai, maharashtra", "mumbai,-maharashtra", "mumbai,maharashtra", "Mumbai"}},
	}

	for _, tt := range tests {
		if got := CityVariants(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("CityVariants(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
