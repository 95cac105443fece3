package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapledger/internal/cli/testutil"
	"github.com/leapstack-labs/leapledger/internal/store"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"leapledger.yaml", "customers.xlsx"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapledger.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapledger.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"leapledger.yaml", "customers.xlsx"},
		},
		{
			name:      "init named directory",
			args:      []string{"shop"},
			wantFiles: []string{"shop/leapledger.yaml", "shop/customers.xlsx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(tmpDir, f))
				assert.NoError(t, err, "expected %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile("leapledger.yaml")
	require.NoError(t, err, "failed to read leapledger.yaml")

	for _, expected := range []string{
		"ledger_path: customers.xlsx",
		"journal_path: .leapledger/journal.db",
		"country_code:",
		"+977",
		"opener: auto",
	} {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}

	st, err := store.Open("customers.xlsx")
	require.NoError(t, err)
	customers, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestInitKeepsExistingLedger(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	testutil.WriteLedger(t, filepath.Join(dir, "customers.xlsx"), testutil.SampleCustomers()...)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	st, err := store.Open("customers.xlsx")
	require.NoError(t, err)
	customers, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, customers, len(testutil.SampleCustomers()))
}
