// Package datefmt converts between the MM/YYYY month inputs used by order forms
// and the ISO calendar dates stored in order_details.
package datefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidMonthYear = errors.New("date must be in MM/YYYY format")

const isoDay = "2006-01-02"

// ToStorageDate turns "MM/YYYY" into "YYYY-MM-01".
// An empty input yields "" and no error: the column is left NULL.
func ToStorageDate(in string) (string, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return "", nil
	}
	parts := strings.Split(in, "/")
	if len(parts) != 2 || len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 4 ||
		!digits(parts[0]) || !digits(parts[1]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthYear, in)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthYear, in)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 1000 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthYear, in)
	}
	return fmt.Sprintf("%04d-%02d-01", year, month), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ToDisplayDate turns an ISO date (or RFC 3339 timestamp) into "MM/YYYY".
// Empty or unparsable input yields "".
func ToDisplayDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	t, err := time.Parse(isoDay, iso)
	if err != nil {
		t, err = time.Parse(time.RFC3339, iso)
		if err != nil {
			return ""
		}
	}
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year())
}

// FormatDay renders t as DD/MM/YYYY.
func FormatDay(t time.Time) string {
	return t.Format("02/01/2006")
}
