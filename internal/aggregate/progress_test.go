package aggregate

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestComputeProgressMidway(t *testing.T) {
	// 15 of 30 days elapsed.
	p := ComputeProgress("01/01/2025", "31/01/2025", day(2025, time.January, 16))
	if p.Percentage != 50 {
		t.Errorf("percentage = %d, want 50", p.Percentage)
	}
	if p.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", p.Status, StatusInProgress)
	}
	if p.Days != 15 {
		t.Errorf("days remaining = %d, want 15", p.Days)
	}
}

func TestComputeProgressBeforeStart(t *testing.T) {
	p := ComputeProgress("10/06/2025", "10/12/2025", day(2025, time.June, 1))
	if p.Percentage != 0 {
		t.Errorf("percentage = %d, want forced 0 before start", p.Percentage)
	}
	if p.Status != StatusNotStarted {
		t.Errorf("status = %q, want %q", p.Status, StatusNotStarted)
	}
}

func TestComputeProgressInvalidDates(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"garbage start", "soon", "31/01/2025"},
		{"garbage end", "01/01/2025", "later"},
		{"start equals end", "01/01/2025", "01/01/2025"},
		{"start after end", "05/02/2025", "31/01/2025"},
		{"calendar rollover", "32/01/2025", "28/02/2025"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ComputeProgress(tc.start, tc.end, day(2025, time.January, 16))
			if p.Status != StatusInvalidDates {
				t.Errorf("status = %q, want %q", p.Status, StatusInvalidDates)
			}
			if p.Percentage != 0 {
				t.Errorf("percentage = %d, want 0", p.Percentage)
			}
		})
	}
}

func TestComputeProgressOverdue(t *testing.T) {
	p := ComputeProgress("01/01/2025", "31/01/2025", day(2025, time.February, 5))
	if p.Status != StatusOverdue {
		t.Fatalf("status = %q, want %q", p.Status, StatusOverdue)
	}
	if p.Days != 5 {
		t.Errorf("overdue days = %d, want 5", p.Days)
	}
	if p.Percentage != 100 {
		t.Errorf("percentage = %d, want clamped 100", p.Percentage)
	}
}

func TestComputeProgressDeadlineToday(t *testing.T) {
	p := ComputeProgress("01/01/2025", "31/01/2025", day(2025, time.January, 31))
	if p.Status != StatusDeadlineToday {
		t.Errorf("status = %q, want %q", p.Status, StatusDeadlineToday)
	}
}

func TestParseDMYAcceptsSingleDigits(t *testing.T) {
	got, err := ParseDMY("5/3/2025")
	if err != nil {
		t.Fatalf("ParseDMY: %v", err)
	}
	want := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
