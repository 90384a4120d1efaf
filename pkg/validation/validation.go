// Package validation holds the input checks shared by the intake and booking
// forms.
package validation

import (
	"regexp"
	"strconv"
	"strings"
)

var phonePattern = regexp.MustCompile(`^09\d{9}$`)

// Phone reports whether s is an Iranian mobile number: exactly 11 digits
// starting with 09.
func Phone(s string) bool {
	return phonePattern.MatchString(s)
}

// PersianDate reports whether s looks like a jYYYY/jMM/jDD date. The check is
// deliberately loose: year in [1300,1500], month in [1,12], day in [1,31],
// with no per-month day count or leap-year handling. "1403/02/31" passes even
// though that month is shorter; the panels have always accepted it.
func PersianDate(s string) bool {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}

	if year < 1300 || year > 1500 {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}

	return true
}
