package utils

import "time"

// DateOf truncates t to a calendar date at UTC midnight.
// The wall-clock date of t in its own location is kept.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// AddMonths moves date forward by the given number of calendar months.
// The day of month is clamped to the last day of the target month,
// so Jan 31 + 1 month is Feb 28 (or 29) instead of rolling into March.
func AddMonths(date time.Time, months int) time.Time {
	date = DateOf(date)
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()

	day := date.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// CalculateDueDate returns the due date of the given installment number.
// Installment 1 is due one calendar month after the sanction date.
func CalculateDueDate(sanctionDate time.Time, installmentNo int) time.Time {
	return AddMonths(sanctionDate, installmentNo)
}

// DaysBetween returns the number of whole calendar days from -> to.
// The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// IsDateOverdue reports whether dueDate lies strictly before today.
func IsDateOverdue(dueDate, today time.Time) bool {
	return DateOf(dueDate).Before(DateOf(today))
}
