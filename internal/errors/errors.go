// Package errors defines the error taxonomy shared by the ledger packages.
//
// Every failure that reaches an operation boundary is marked with one of the
// sentinel errors below so callers can branch with errors.Is while the
// message shown to the user comes from the hints attached through the
// builder.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	ErrCodeValidation         = "validation_error"
	ErrCodeState              = "state_error"
	ErrCodePersistence        = "persistence_error"
	ErrCodeFormat             = "format_error"
	ErrCodeIO                 = "io_error"
	ErrCodeBackendUnavailable = "backend_unavailable"
	ErrCodeNormalization      = "normalization_error"
	ErrCodeNotification       = "notification_error"
	ErrCodeSystem             = "system_error"
)

var (
	ErrValidation    = new(ErrCodeValidation, "validation error")
	ErrState         = new(ErrCodeState, "invalid ledger state")
	ErrPersistence   = new(ErrCodePersistence, "persistence error")
	ErrNormalization = new(ErrCodeNormalization, "phone normalization error")
	ErrNotification  = new(ErrCodeNotification, "notification error")
	ErrSystem        = new(ErrCodeSystem, "system error")

	// The persistence family. Each of these also matches ErrPersistence.
	ErrFormat             = newChild(ErrCodeFormat, "file is not tabular data", ErrPersistence)
	ErrIO                 = newChild(ErrCodeIO, "backing file not writable", ErrPersistence)
	ErrBackendUnavailable = newChild(ErrCodeBackendUnavailable, "no workbook backend available", ErrPersistence)
)

// InternalError represents a domain error.
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
	parent  *InternalError
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors. A child sentinel matches
// its parent, so ErrIO is also ErrPersistence.
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	for cur := e; cur != nil; cur = cur.parent {
		if cur.Code == t.Code {
			return true
		}
	}
	return false
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func newChild(code, message string, parent *InternalError) *InternalError {
	e := new(code, message)
	e.parent = parent
	return e
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsState checks if an error is a selection or index error
func IsState(err error) bool {
	return errors.Is(err, ErrState)
}

// IsPersistence checks if an error came from reading or writing the backing file
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsNormalization checks if an error is a phone normalization error
func IsNormalization(err error) bool {
	return errors.Is(err, ErrNormalization)
}

// IsNotification checks if an error is an opener failure
func IsNotification(err error) bool {
	return errors.Is(err, ErrNotification)
}

// Code returns the taxonomy code of the most specific sentinel err is marked
// with, or ErrCodeSystem.
func Code(err error) string {
	for _, ref := range []*InternalError{
		ErrValidation, ErrState, ErrFormat, ErrIO, ErrBackendUnavailable,
		ErrPersistence, ErrNormalization, ErrNotification,
	} {
		if errors.Is(err, ref) {
			return ref.Code
		}
	}
	return ErrCodeSystem
}

// DisplayMessage converts err into the message surfaced to the user. Hints
// attached with WithHint take precedence over the raw error text.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		return strings.Join(hints, "; ")
	}
	return err.Error()
}
