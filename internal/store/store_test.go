package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/testutil"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

func sampleCustomers() []core.Customer {
	return []core.Customer{
		{Name: "Asha", Phone: "0981234567", Monthly: 10, Payment: 3},
		{Name: "Bikash", Phone: "+447700900", Monthly: 25.5, Payment: 30},
		{Name: "Chandra", Phone: "+97798", Monthly: 0.1, Payment: 0.2},
	}
}

func openTestStore(t *testing.T, name string, opts ...Option) *Store {
	t.Helper()
	opts = append(opts, WithLogger(testutil.NewTestLogger(t)))
	s, err := Open(filepath.Join(t.TempDir(), name), opts...)
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantErr   bool
		format    Format
		available bool
	}{
		{"xlsx", "ledger/customers.xlsx", false, FormatXLSX, true},
		{"xlsm uppercase", "CUSTOMERS.XLSM", false, FormatXLSX, true},
		{"csv", "customers.csv", false, FormatCSV, true},
		{"unknown", "customers.ods", false, FormatUnknown, false},
		{"empty", "  ", true, FormatUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, s.Format())
			assert.Equal(t, tt.available, s.Available())
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"customers.xlsx", "customers.csv"} {
		t.Run(name, func(t *testing.T) {
			s := openTestStore(t, name)
			want := sampleCustomers()

			require.NoError(t, s.Save(want))

			got, err := s.Load()
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].Name, got[i].Name)
				assert.Equal(t, want[i].Phone, got[i].Phone)
				assert.InDelta(t, want[i].Monthly, got[i].Monthly, 1e-9)
				assert.InDelta(t, want[i].Payment, got[i].Payment, 1e-9)
				assert.InDelta(t, want[i].Due(), got[i].Due(), 1e-9)
			}
		})
	}
}

func TestSave_OverwritesWholeFile(t *testing.T) {
	s := openTestStore(t, "customers.csv")
	require.NoError(t, s.Save(sampleCustomers()))
	require.NoError(t, s.Save(sampleCustomers()[:1]))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_XLSXSchema(t *testing.T) {
	s := openTestStore(t, "customers.xlsx")
	require.NoError(t, s.Save(sampleCustomers()[:1]))

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, SheetName, f.GetSheetName(f.GetActiveSheetIndex()))
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, core.Columns, rows[0])
	assert.Equal(t, "0981234567", rows[1][1])
	assert.Equal(t, "7", rows[1][4])
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := openTestStore(t, "absent.xlsx")

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_NotTabular(t *testing.T) {
	s := openTestStore(t, "broken.xlsx")
	require.NoError(t, os.WriteFile(s.Path(), []byte("this is not a workbook"), 0600))

	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrFormat))
	assert.True(t, ierr.IsPersistence(err))
}

func TestLoad_LenientRows(t *testing.T) {
	s := openTestStore(t, "customers.csv")
	content := strings.Join([]string{
		"Phone,Name,Monthly,Payment,Due,Notes",
		"0981,Asha,10,3,999,vip",
		",,abc,,,",
		"+44,Bikash,,5",
		",,,,,",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0600))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 3)

	// stale Due is ignored, columns mapped by header
	assert.Equal(t, core.Customer{Name: "Asha", Phone: "0981", Monthly: 10, Payment: 3}, got[0])
	assert.Equal(t, 7.0, got[0].Due())

	// unparseable amounts default to zero
	assert.Equal(t, core.Customer{}, got[1])

	// short row
	assert.Equal(t, core.Customer{Name: "Bikash", Phone: "+44", Payment: 5}, got[2])
	assert.Equal(t, -5.0, got[2].Due())
}

func TestLoad_MissingColumns(t *testing.T) {
	s := openTestStore(t, "customers.csv")
	require.NoError(t, os.WriteFile(s.Path(), []byte("Name\nAsha\n"), 0600))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, core.Customer{Name: "Asha"}, got[0])
}

func TestEnsureReady_CreatesHeaderOnlyFile(t *testing.T) {
	s := openTestStore(t, "nested/dir/customers.csv")

	require.NoError(t, s.EnsureReady())

	content, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "Name,Phone,Monthly,Payment,Due\n", string(content))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnsureReady_ExistingFileUntouched(t *testing.T) {
	s := openTestStore(t, "customers.csv")
	require.NoError(t, s.Save(sampleCustomers()))

	require.NoError(t, s.EnsureReady())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestEnsureReady_CopiesTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := Open(filepath.Join(dir, "template.xlsx"))
	require.NoError(t, err)
	require.NoError(t, tmpl.Save(sampleCustomers()[:2]))

	s := openTestStore(t, "customers.xlsx", WithTemplate(tmpl.Path()))
	require.NoError(t, s.EnsureReady())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEnsureReady_TemplateMissingFallsBackToHeader(t *testing.T) {
	s := openTestStore(t, "customers.xlsx", WithTemplate(filepath.Join(t.TempDir(), "nope.xlsx")))

	require.NoError(t, s.EnsureReady())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnsureReady_BackendUnavailable(t *testing.T) {
	s := openTestStore(t, "customers.ods")

	err := s.EnsureReady()
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrBackendUnavailable))

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnsureReady_UnknownFormatWithTemplate(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "template.ods")
	require.NoError(t, os.WriteFile(tmplPath, []byte("opaque"), 0600))

	s := openTestStore(t, "customers.ods", WithTemplate(tmplPath))
	require.NoError(t, s.EnsureReady())

	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrBackendUnavailable))
}

func TestSave_NotWritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	s, err := Open(filepath.Join(blocker, "customers.csv"))
	require.NoError(t, err)

	err = s.Save(sampleCustomers())
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrIO))
	assert.True(t, ierr.IsPersistence(err))
	assert.Contains(t, ierr.DisplayMessage(err), "Could not save")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatXLSX, DetectFormat("a/b.xlsx"))
	assert.Equal(t, FormatCSV, DetectFormat("b.CSV"))
	assert.Equal(t, FormatUnknown, DetectFormat("b"))
}

func TestCSV_LoadSaveFixture(t *testing.T) {
	path := testutil.WriteLedgerCSV(t, t.TempDir(),
		"Asha,0981234567,10,3,7",
		"Bikash,+447700900,25.5,30,-4.5",
	)
	s, err := Open(path, WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	got[0].Payment += 2
	require.NoError(t, s.Save(got))

	assert.Equal(t, testutil.LedgerCSVHeader+"\n"+
		"Asha,0981234567,10,5,5\n"+
		"Bikash,+447700900,25.5,30,-4.5\n",
		testutil.ReadFile(t, path))
}
