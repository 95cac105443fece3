package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// LedgerCSVHeader is the header line of a CSV ledger.
const LedgerCSVHeader = "Name,Phone,Monthly,Payment,Due"

// WriteLedgerCSV writes a CSV ledger with the given data lines into dir and
// returns its path. Lines are raw CSV, e.g. "Asha,0981234567,10,3,7".
func WriteLedgerCSV(t testing.TB, dir string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, "customers.csv")
	content := strings.Join(append([]string{LedgerCSVHeader}, lines...), "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write ledger fixture: %v", err)
	}
	return path
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}
