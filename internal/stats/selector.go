// Package stats implements the statistics pipeline: the period
// selector state machine, snapshot aggregation into summaries, and the
// chart payload fan-out.
package stats

import "sort"

const (
	ModeYear  Mode = "year"
	ModeMonth Mode = "month"
)

type Mode string

func (m Mode) Valid() bool { return m == ModeYear || m == ModeMonth }

// Dates is the transaction-dates payload: the years that have
// transactions and the months with data within each year.
type Dates struct {
	Years        []int         `json:"years"`
	MonthsByYear map[int][]int `json:"monthsByYear"`
}

// Latest returns the most recent year with data, or 0 when empty.
func (d Dates) Latest() int {
	latest := 0
	for _, y := range d.Years {
		if y > latest {
			latest = y
		}
	}
	return latest
}

// LatestMonth returns the most recent month with data in the given
// year, or 0 when the year has none.
func (d Dates) LatestMonth(year int) int {
	latest := 0
	for _, m := range d.MonthsByYear[year] {
		if m > latest {
			latest = m
		}
	}
	return latest
}

// Query identifies one statistics request. Month is 0 in year mode.
type Query struct {
	Year  int
	Mode  Mode
	Month int
}

// Selector is the period selector state machine. In year mode the
// month selector is blank and disabled; entering month mode re-enables
// it and auto-selects the latest month with data for the current year.
type Selector struct {
	dates Dates
	mode  Mode
	year  int
	month int
}

// NewSelector starts in month mode on the latest year and month with
// data. With no data at all it stays on year 0 until dates arrive.
func NewSelector(dates Dates) *Selector {
	s := &Selector{dates: dates, mode: ModeMonth}
	s.year = dates.Latest()
	s.month = dates.LatestMonth(s.year)
	return s
}

// SetMode switches between year and month mode. Entering year mode
// blanks the month; entering month mode picks the latest month for the
// selected year. Invalid modes are ignored.
func (s *Selector) SetMode(m Mode) {
	if !m.Valid() || m == s.mode {
		return
	}
	s.mode = m
	if m == ModeYear {
		s.month = 0
	} else {
		s.month = s.dates.LatestMonth(s.year)
	}
}

// SetYear changes the selected year, preserving the mode. In month
// mode the month snaps to the latest one available in the new year.
func (s *Selector) SetYear(year int) {
	s.year = year
	if s.mode == ModeMonth {
		s.month = s.dates.LatestMonth(year)
	}
}

// SetMonth changes the selected month. Ignored in year mode and for
// months without data in the selected year.
func (s *Selector) SetMonth(month int) {
	if s.mode != ModeMonth {
		return
	}
	for _, m := range s.dates.MonthsByYear[s.year] {
		if m == month {
			s.month = month
			return
		}
	}
}

// MonthDisabled reports whether the month selector is disabled.
func (s *Selector) MonthDisabled() bool { return s.mode == ModeYear }

// MonthOptions returns the selectable months for the current year in
// ascending order.
func (s *Selector) MonthOptions() []int {
	months := append([]int(nil), s.dates.MonthsByYear[s.year]...)
	sort.Ints(months)
	return months
}

// Query returns the fetch parameters for the current selection.
func (s *Selector) Query() Query {
	q := Query{Year: s.year, Mode: s.mode}
	if s.mode == ModeMonth {
		q.Month = s.month
	}
	return q
}
