package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFields(t *testing.T) {
	fields := configFields()

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
		assert.NotEmpty(t, configDescriptions[f.Key], "key %q needs a description", f.Key)
	}
	assert.Equal(t, []string{
		"ledger_path", "template_path", "journal_path", "verbose", "output",
		"notify.enabled", "notify.country_code", "notify.opener",
	}, keys)
}

func TestGenerateDocs(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, generateConfigDocs(dir))
	require.NoError(t, generateCLIDocs(filepath.Join(dir, "cli")))

	cfg, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "`LEAPLEDGER_NOTIFY__COUNTRY_CODE`")
	assert.Contains(t, string(cfg), "`customers.xlsx`")

	pay, err := os.ReadFile(filepath.Join(dir, "cli", "pay.md"))
	require.NoError(t, err)
	assert.Contains(t, string(pay), "leapledger pay <index> <amount>")
	assert.Contains(t, string(pay), "leapledger pay 2 500 --no-open")
}
