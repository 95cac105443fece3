// Package core defines the shared language of the LeapLedger system.
//
// This package contains:
//   - Domain entities (Customer, Event)
//   - Service interfaces (Journal)
//   - The persisted column schema
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
