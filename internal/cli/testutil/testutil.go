// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapledger/internal/cli/output"
	"github.com/leapstack-labs/leapledger/internal/store"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// SampleCustomers returns the customers written by SetupTestLedger.
func SampleCustomers() []core.Customer {
	return []core.Customer{
		{Name: "Asha Rai", Phone: "0981234567", Monthly: 1500, Payment: 500},
		{Name: "Bikash Thapa", Phone: "9841000000", Monthly: 800, Payment: 800},
		{Name: "Chandra Gurung", Phone: "01-4411223", Monthly: 1200, Payment: 1500},
	}
}

// SetupTestLedger creates a temporary directory holding customers.xlsx with
// the given customers and returns the ledger path.
func SetupTestLedger(t *testing.T, customers ...core.Customer) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "customers.xlsx")
	WriteLedger(t, path, customers...)
	return path
}

// WriteLedger saves customers to path through the store.
func WriteLedger(t *testing.T, path string, customers ...core.Customer) {
	t.Helper()

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("failed to open ledger %s: %v", path, err)
	}
	if err := st.Save(customers); err != nil {
		t.Fatalf("failed to write ledger %s: %v", path, err)
	}
}

// ReadLedger loads the customers stored at path.
func ReadLedger(t *testing.T, path string) []core.Customer {
	t.Helper()

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("failed to open ledger %s: %v", path, err)
	}
	customers, err := st.Load()
	if err != nil {
		t.Fatalf("failed to load ledger %s: %v", path, err)
	}
	return customers
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks that headers have content and code fences are balanced.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
