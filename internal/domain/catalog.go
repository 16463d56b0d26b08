package domain

import (
	"fmt"
	"strings"
	"time"
)

var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Biography",
	"Science Fiction",
	"History",
	"Poetry",
	"Cooking",
}

var Languages = []string{"Russian", "English", "French", "Uzbek"}

var AgeGroups = []string{
	"for children from 0 to 2 ages",
	"for children from 3 to 5 ages",
	"for children from 6 to 9 ages",
	"for children from 10 to 15 ages",
}

const (
	MinBarcodeLen = 8
	MaxBarcodeLen = 13
)

// publication dates are accepted in any of these layouts
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"01/02/2006",
	"2006/01/02",
	"January 2, 2006",
	"2 January 2006",
}

func ParsePublicationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid publication date format %q: %w", s, ErrValidation)
}

func ValidateBarcode(barcode string) error {
	if n := len(barcode); n < MinBarcodeLen || n > MaxBarcodeLen {
		return fmt.Errorf("barcode should be between %d and %d digits: %w", MinBarcodeLen, MaxBarcodeLen, ErrValidation)
	}
	return nil
}

func OneOf(value string, allowed []string, field string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return fmt.Errorf("%s %q is not one of %s: %w", field, value, strings.Join(allowed, ", "), ErrValidation)
}
