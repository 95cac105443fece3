package notify

import (
	"context"
	"log/slog"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
)

// Dispatcher turns a confirmation message into an opened deep link.
type Dispatcher struct {
	countryCode string
	native      Opener
	fallback    Opener
	logger      *slog.Logger
}

// Dispatch describes a link handed to an opener.
type Dispatch struct {
	Phone    string
	Message  string
	URI      string
	Fallback bool // the native opener failed and the fallback opened the link
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCountryCode sets the prefix that replaces a leading 0.
func WithCountryCode(code string) Option {
	return func(d *Dispatcher) {
		if code != "" {
			d.countryCode = code
		}
	}
}

// WithOpeners sets the native opener (may be nil) and the fallback opener.
func WithOpeners(native, fallback Opener) Option {
	return func(d *Dispatcher) {
		d.native = native
		d.fallback = fallback
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher using the platform's openers unless
// WithOpeners is given.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		countryCode: DefaultCountryCode,
		fallback:    NewBrowserOpener(),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CountryCode returns the configured default country code.
func (d *Dispatcher) CountryCode() string {
	return d.countryCode
}

// Dispatch normalizes phone, builds the deep link and opens it. The native
// opener is tried first; when it fails the fallback opener is used. Nothing
// is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, phone, message string) (*Dispatch, error) {
	normalized, err := NormalizePhone(phone, d.countryCode)
	if err != nil {
		return nil, err
	}

	res := &Dispatch{
		Phone:   normalized,
		Message: message,
		URI:     BuildDeepLink(normalized, message),
	}

	if d.native != nil {
		err := d.native.Open(ctx, res.URI)
		if err == nil {
			d.logger.Debug("notification opened", "phone", normalized, "opener", "native")
			return res, nil
		}
		d.logger.Warn("native opener failed, falling back", "error", err)
		res.Fallback = true
	}

	if d.fallback == nil {
		return res, ierr.NewError("no URI opener configured").
			WithHint("Could not open WhatsApp: no opener available.").
			Mark(ierr.ErrNotification)
	}
	if err := d.fallback.Open(ctx, res.URI); err != nil {
		return res, ierr.WithError(err).
			WithHintf("Could not open WhatsApp link %s.", res.URI).
			Mark(ierr.ErrNotification)
	}

	d.logger.Debug("notification opened", "phone", normalized, "fallback", res.Fallback)
	return res, nil
}
