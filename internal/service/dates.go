package service

import (
	"time"

	"nutritrack/internal/models"
)

const (
	// DateLayout is the calendar-day format used for log, summary and login dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the default log_time format.
	TimeLayout = "15:04:05"
)

// Clock returns the current instant. Services convert it to a UTC calendar day.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

func orSystemClock(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}

// Today is the UTC calendar date of clock.
func Today(clock Clock) string {
	return orSystemClock(clock)().UTC().Format(DateLayout)
}

// PreviousDay returns the calendar day before date.
func PreviousDay(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -1).Format(DateLayout), nil
}

// ValidateDate rejects anything that is not a real YYYY-MM-DD day.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return models.NewValidationError("Invalid date, expected YYYY-MM-DD")
	}
	return nil
}

// DateOrToday validates date, substituting today when it is empty.
func DateOrToday(date string, clock Clock) (string, error) {
	if date == "" {
		return Today(clock), nil
	}
	if err := ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}
