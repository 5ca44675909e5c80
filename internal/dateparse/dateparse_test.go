package dateparse

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantNone  bool
	}{
		{
			name:      "ordinal with abbreviated month",
			input:     "15th Jan 2024",
			wantYear:  2024,
			wantMonth: time.January,
			wantDay:   15,
		},
		{
			name:      "ISO date",
			input:     "2024-01-15",
			wantYear:  2024,
			wantMonth: time.January,
			wantDay:   15,
		},
		{
			name:      "day first slash date",
			input:     "15/01/2024",
			wantYear:  2024,
			wantMonth: time.January,
			wantDay:   15,
		},
		{
			name:      "full month name",
			input:     "15 January 2024",
			wantYear:  2024,
			wantMonth: time.January,
			wantDay:   15,
		},
		{
			name:      "connector words and noise",
			input:     "Starts on Sat, 1st Mar 2025 | 7 PM",
			wantYear:  2025,
			wantMonth: time.March,
			wantDay:   1,
		},
		{
			name:      "range keeps first date",
			input:     "from 2025-03-01 to 2025-03-05",
			wantYear:  2025,
			wantMonth: time.March,
			wantDay:   1,
		},
		{
			name:      "month word containing a connector",
			input:     "Ends 4 October 2025",
			wantYear:  2025,
			wantMonth: time.October,
			wantDay:   4,
		},
		{
			name:      "multi-line card text",
			input:     "Sun\n  22 Jun\n 2025",
			wantYear:  2025,
			wantMonth: time.June,
			wantDay:   22,
		},
		{
			name:     "abbreviated month without year",
			input:    "15 Mar",
			wantNone: true,
		},
		{
			name:     "empty",
			input:    "",
			wantNone: true,
		},
		{
			name:     "no date at all",
			input:    "Every weekend",
			wantNone: true,
		},
		{
			name:     "impossible calendar date",
			input:    "31/02/2025",
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)

			if tt.wantNone {
				if ok {
					t.Errorf("Parse(%q) = %v, want absent", tt.input, got)
				}
				return
			}

			if !ok {
				t.Fatalf("Parse(%q) returned absent", tt.input)
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("Parse(%q) = %s, want %d-%02d-%02d", tt.input, FormatISO(got), tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestParse_EncodingsAgree(t *testing.T) {
	inputs := []string{"15th Jan 2024", "2024-01-15", "15/01/2024", "15 January 2024"}

	for _, in := range inputs {
		got, ok := Parse(in)
		if !ok {
			t.Fatalf("Parse(%q) returned absent", in)
		}
		if FormatISO(got) != "2024-01-15" {
			t.Errorf("Parse(%q) = %s, want 2024-01-15", in, FormatISO(got))
		}
	}
}

func TestParseISO(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-03-01", "2025-03-01", false},
		{"2025-3-1", "2025-03-01", false},
		{"2025-12-31", "2025-12-31", false},
		{"2025-02-30", "", true},
		{"2025-13-01", "", true},
		{"01/03/2025", "", true},
		{"2025-03-01T10:00", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseISO(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseISO(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseISO(%q) error = %v", tt.in, err)
			continue
		}
		if FormatISO(got) != tt.want {
			t.Errorf("ParseISO(%q) = %s, want %s", tt.in, FormatISO(got), tt.want)
		}
	}
}

func TestFormatDisplay(t *testing.T) {
	d := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatDisplay(d); got != "March 01, 2025" {
		t.Errorf("FormatDisplay() = %q, want %q", got, "March 01, 2025")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("SameDay() should match times on the same date")
	}
	if SameDay(a, c) {
		t.Error("SameDay() should not match different dates")
	}
}
