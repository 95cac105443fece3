// Package notify sends payment confirmations as WhatsApp deep links.
//
// The dispatcher never talks to a messaging API. It builds a wa.me link with
// the message pre-filled and asks the platform to open it.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// DefaultCountryCode replaces the leading 0 of national phone numbers.
const DefaultCountryCode = "+977"

// deepLinkBase is the WhatsApp click-to-chat endpoint.
const deepLinkBase = "https://wa.me/"

// BuildMessage returns the payment confirmation text.
func BuildMessage(amount, due float64) string {
	return fmt.Sprintf("Thanks for your %s payment and your remaining due is %s",
		core.FormatAmount(amount), core.FormatAmount(due))
}

// NormalizePhone reduces raw to digits with an optional leading +. A leading
// 0 is replaced by countryCode; numbers already starting with + are kept.
// Anything else is not internationally addressable.
func NormalizePhone(raw, countryCode string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	p := b.String()

	switch {
	case p == "" || p == "+":
		return "", ierr.NewErrorf("no digits in phone %q", raw).
			WithHint("No phone number provided.").
			Mark(ierr.ErrNormalization)
	case strings.HasPrefix(p, "0"):
		return countryCode + p[1:], nil
	case strings.HasPrefix(p, "+"):
		return p, nil
	default:
		return "", ierr.NewErrorf("ambiguous phone %q", raw).
			WithHintf("Use international format (e.g., %s...).", countryCode).
			Mark(ierr.ErrNormalization)
	}
}

// BuildDeepLink returns the wa.me link for phone with message pre-filled.
// The + of the phone number is dropped; spaces are encoded as %20.
func BuildDeepLink(phone, message string) string {
	digits := strings.TrimPrefix(phone, "+")
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return deepLinkBase + digits + "?text=" + text
}
