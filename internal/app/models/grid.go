package models

import (
	"fmt"
	"sort"
)

// The weekly grid is DaysPerWeek x PeriodsPerDay cells.
const (
	DaysPerWeek   = 7
	PeriodsPerDay = 8
)

// Stored day-of-week values. Sunday is 0.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [DaysPerWeek]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// UIDayToStored converts a Monday-first UI column (0 = Monday .. 6 = Sunday)
// into the stored day-of-week.
func UIDayToStored(d int) int {
	if d == 6 {
		return 0
	}
	return d + 1
}

// StoredDayToUI is the inverse of UIDayToStored.
func StoredDayToUI(dayOfWeek int) int {
	if dayOfWeek == 0 {
		return 6
	}
	return dayOfWeek - 1
}

// DayName returns the English name of a stored day-of-week
func DayName(dayOfWeek int) string {
	if !ValidDay(dayOfWeek) {
		return fmt.Sprintf("day %d", dayOfWeek)
	}
	return dayNames[dayOfWeek]
}

// ValidDay reports whether dayOfWeek is a stored day index
func ValidDay(dayOfWeek int) bool {
	return dayOfWeek >= 0 && dayOfWeek < DaysPerWeek
}

// ValidPeriod reports whether period is inside the daily grid
func ValidPeriod(period int) bool {
	return period >= 0 && period < PeriodsPerDay
}

// SlotCoordinate addresses one cell of the weekly grid.
type SlotCoordinate struct {
	DayOfWeek int `json:"dayOfWeek"`
	Period    int `json:"period"`
}

// Valid reports whether the coordinate lies inside the grid
func (c SlotCoordinate) Valid() bool {
	return ValidDay(c.DayOfWeek) && ValidPeriod(c.Period)
}

// Less orders coordinates by day then period
func (c SlotCoordinate) Less(o SlotCoordinate) bool {
	if c.DayOfWeek != o.DayOfWeek {
		return c.DayOfWeek < o.DayOfWeek
	}
	return c.Period < o.Period
}

func (c SlotCoordinate) String() string {
	return fmt.Sprintf("%s, period %d", DayName(c.DayOfWeek), c.Period+1)
}

// SortCoordinates sorts coordinates in place by day then period
func SortCoordinates(coords []SlotCoordinate) {
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
}

// Grid is an occupancy map for one teacher, course or student week.
type Grid[T any] struct {
	cells [DaysPerWeek][PeriodsPerDay]*T
}

// Set stores v at c. Out-of-grid coordinates are ignored.
func (g *Grid[T]) Set(c SlotCoordinate, v *T) {
	if !c.Valid() {
		return
	}
	g.cells[c.DayOfWeek][c.Period] = v
}

// At returns the value stored at c, or nil
func (g *Grid[T]) At(c SlotCoordinate) *T {
	if !c.Valid() {
		return nil
	}
	return g.cells[c.DayOfWeek][c.Period]
}

// Rows returns the grid in UI order: row 0 is Monday, row 6 is Sunday.
func (g *Grid[T]) Rows() [][]*T {
	rows := make([][]*T, DaysPerWeek)
	for ui := 0; ui < DaysPerWeek; ui++ {
		day := UIDayToStored(ui)
		row := make([]*T, PeriodsPerDay)
		copy(row, g.cells[day][:])
		rows[ui] = row
	}
	return rows
}
