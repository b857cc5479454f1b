// Package aggregate derives display state from stored records: schedule
// progress from a project's date range, and report views joined with the
// project's review map.
package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ProgressStatus classifies where a project sits relative to its schedule.
type ProgressStatus string

const (
	StatusInvalidDates  ProgressStatus = "invalid_dates"
	StatusNotStarted    ProgressStatus = "not_started"
	StatusInProgress    ProgressStatus = "in_progress"
	StatusDeadlineToday ProgressStatus = "deadline_today"
	StatusOverdue       ProgressStatus = "overdue"
)

// Progress is the derived schedule state of a project.
type Progress struct {
	Percentage int            `json:"percentage"`
	Status     ProgressStatus `json:"status"`
	// Days is days remaining for in_progress, days past the deadline
	// for overdue, zero otherwise.
	Days  int    `json:"days"`
	Label string `json:"label"`
}

// ParseDMY parses a DD/MM/YYYY date. Single-digit day/month components
// are accepted, silent calendar rollover (e.g. 32/01) is not.
func ParseDMY(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: want DD/MM/YYYY", s)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: non-numeric component", s)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date %q: no such calendar day", s)
	}
	return d, nil
}

// ComputeProgress derives schedule progress from the project's
// construction start and planned acceptance dates. Unparsable dates or a
// start on/after the end yield the distinct invalid-dates status at 0%.
// The percentage is forced to 0 before the start regardless of the raw
// formula.
func ComputeProgress(startDate, endDate string, today time.Time) Progress {
	start, errStart := ParseDMY(startDate)
	end, errEnd := ParseDMY(endDate)
	if errStart != nil || errEnd != nil || !start.Before(end) {
		return Progress{Percentage: 0, Status: StatusInvalidDates, Label: "invalid date data"}
	}

	day := truncateToDay(today)

	pct := 0
	if day.After(start) {
		elapsed := day.Sub(start)
		total := end.Sub(start)
		pct = int(math.Round(float64(elapsed) / float64(total) * 100))
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	daysRemaining := int(math.Ceil(end.Sub(day).Hours() / 24))

	switch {
	case day.Before(start):
		return Progress{Percentage: 0, Status: StatusNotStarted, Days: daysRemaining, Label: "not started"}
	case daysRemaining < 0:
		overdue := -daysRemaining
		return Progress{Percentage: pct, Status: StatusOverdue, Days: overdue, Label: fmt.Sprintf("overdue by %d days", overdue)}
	case daysRemaining == 0:
		return Progress{Percentage: pct, Status: StatusDeadlineToday, Label: "deadline today"}
	default:
		return Progress{Percentage: pct, Status: StatusInProgress, Days: daysRemaining, Label: fmt.Sprintf("%d days remaining", daysRemaining)}
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
