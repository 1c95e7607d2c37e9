package model

import "time"

// Weekday - день недели, 1 = Monday ... 7 = Sunday
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Valid проверяет что день недели в диапазоне 1-7
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// FromTimeWeekday переводит time.Weekday (0 = Sunday) в Weekday (7 = Sunday)
func FromTimeWeekday(wd time.Weekday) Weekday {
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// TimeWeekday переводит обратно в time.Weekday
func (d Weekday) TimeWeekday() time.Weekday {
	if d == Sunday {
		return time.Sunday
	}
	return time.Weekday(d)
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(?)"
	}
	return d.TimeWeekday().String()
}
