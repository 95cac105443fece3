package billing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
)

// parseNumber parses a user-typed number into a finite float64. Anything
// decimal cannot parse, including NaN and Inf, is a validation error carrying
// hint, as is a value whose magnitude does not fit a float64.
func parseNumber(text, hint string) (float64, error) {
	text = strings.TrimSpace(text)
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(map[string]any{"input": text}).
			Mark(ierr.ErrValidation)
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, ierr.NewErrorf("amount %s is out of range", text).
			WithHint(hint).
			WithReportableDetails(map[string]any{"input": text}).
			Mark(ierr.ErrValidation)
	}
	return f, nil
}

// parsePositive parses an increment that must be strictly greater than zero
// once converted. An empty input is reported with emptyHint, anything else
// with hint.
func parsePositive(text, emptyHint, hint string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ierr.NewError("amount is empty").
			WithHint(emptyHint).
			Mark(ierr.ErrValidation)
	}
	f, err := parseNumber(text, hint)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, ierr.NewErrorf("amount %s is not positive", strings.TrimSpace(text)).
			WithHint(hint).
			Mark(ierr.ErrValidation)
	}
	return f, nil
}

// addAmount returns base+amount, rejecting a sum that overflows float64.
func addAmount(base, amount float64, hint string) (float64, error) {
	sum := base + amount
	if math.IsInf(sum, 0) {
		return 0, ierr.NewError("amount overflows the stored total").
			WithHint(hint).
			WithReportableDetails(map[string]any{"base": base, "amount": amount}).
			Mark(ierr.ErrValidation)
	}
	return sum, nil
}
