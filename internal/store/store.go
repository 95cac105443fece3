// Package store persists the customer ledger to a tabular backing file.
//
// The file holds a single table whose header row is exactly
// Name, Phone, Monthly, Payment, Due. Every save rewrites the whole file;
// the Due column is written for readers of the spreadsheet but is never
// trusted on load.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// Format identifies the on-disk encoding of a backing file.
type Format string

// Supported formats.
const (
	FormatXLSX    Format = "xlsx"
	FormatCSV     Format = "csv"
	FormatUnknown Format = ""
)

// dueTolerance is the largest difference between a persisted Due and the
// recomputed one that is not reported as stale.
const dueTolerance = 1e-9

// codec reads and writes the table rows of one file format.
type codec interface {
	Decode(r io.Reader) ([][]string, error)
	Encode(w io.Writer, customers []core.Customer) error
}

// Store binds a ledger to its backing file.
type Store struct {
	path     string
	template string
	format   Format
	codec    codec
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTemplate sets a file copied into place when the backing file does not
// exist yet.
func WithTemplate(path string) Option {
	return func(s *Store) {
		s.template = path
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates a store for path. The backend is chosen from the file
// extension; a store with an unknown extension can still be created but
// cannot read or write (operations report ErrBackendUnavailable).
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ierr.NewError("empty ledger path").
			WithHint("A ledger file path is required (set ledger_path or --ledger).").
			Mark(ierr.ErrValidation)
	}

	s := &Store{
		path:   filepath.Clean(path),
		logger: slog.New(slog.DiscardHandler),
	}
	s.format = DetectFormat(path)
	switch s.format {
	case FormatXLSX:
		s.codec = xlsxCodec{}
	case FormatCSV:
		s.codec = csvCodec{}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DetectFormat returns the format implied by the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".csv":
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Format returns the backing file format.
func (s *Store) Format() Format {
	return s.format
}

// Available reports whether the store has a backend for its file format.
func (s *Store) Available() bool {
	return s.codec != nil
}

// Load reads all customers from the backing file. A missing file is an
// empty ledger.
func (s *Store) Load() ([]core.Customer, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not open %s.", s.path).
			Mark(ierr.ErrIO)
	}
	defer func() { _ = f.Close() }()

	if s.codec == nil {
		return nil, s.unavailable()
	}

	rows, err := s.codec.Decode(f)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("%s is not a readable %s table.", s.path, s.format).
			Mark(ierr.ErrFormat)
	}

	customers := decodeRows(rows, s.logger)
	s.logger.Debug("ledger loaded", "path", s.path, "customers", len(customers))
	return customers, nil
}

// Save rewrites the backing file with header and one row per customer.
// The file is written next to the target and renamed into place.
func (s *Store) Save(customers []core.Customer) error {
	if s.codec == nil {
		return s.unavailable()
	}

	dir := filepath.Dir(s.path)
	ext := filepath.Ext(s.path)
	stem := strings.TrimSuffix(filepath.Base(s.path), ext)

	tmp, err := os.CreateTemp(dir, "."+stem+"-*"+ext)
	if err != nil {
		return s.ioError(err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := s.codec.Encode(tmp, customers); err != nil {
		_ = tmp.Close()
		cleanup()
		return s.ioError(err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return s.ioError(err)
	}
	if info, err := os.Stat(s.path); err == nil {
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return s.ioError(err)
	}

	s.logger.Debug("ledger saved", "path", s.path, "customers", len(customers))
	return nil
}

// EnsureReady makes sure the backing file exists. A missing file is copied
// from the template when one is configured, otherwise a header-only file is
// created.
func (s *Store) EnsureReady() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return s.ioError(err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return s.ioError(err)
		}
	}

	if s.template != "" {
		err := copyFile(s.template, s.path)
		if err == nil {
			s.logger.Info("ledger created from template", "path", s.path, "template", s.template)
			return nil
		}
		s.logger.Debug("template copy failed", "template", s.template, "error", err)
	}

	if s.codec == nil {
		return s.unavailable()
	}
	if err := s.Save(nil); err != nil {
		return err
	}
	s.logger.Info("ledger created", "path", s.path, "format", s.format)
	return nil
}

func (s *Store) unavailable() error {
	return ierr.NewErrorf("no backend for %q", filepath.Ext(s.path)).
		WithHintf("Cannot read or write %s: only .xlsx and .csv ledgers are supported.", s.path).
		Mark(ierr.ErrBackendUnavailable)
}

func (s *Store) ioError(err error) error {
	return ierr.WithError(err).
		WithHintf("Could not save %s. Is it open in another program?", s.path).
		Mark(ierr.ErrIO)
}

// decodeRows maps table rows to customers using the header row to locate
// columns. Missing text cells become empty strings, missing or unparseable
// amounts become zero.
func decodeRows(rows [][]string, logger *slog.Logger) []core.Customer {
	if len(rows) == 0 {
		return nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}

	cell := func(row []string, col string) (string, bool) {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	var customers []core.Customer
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}

		name, _ := cell(row, core.ColumnName)
		phone, _ := cell(row, core.ColumnPhone)
		monthly, _ := cell(row, core.ColumnMonthly)
		payment, _ := cell(row, core.ColumnPayment)

		c := core.Customer{
			Name:    name,
			Phone:   phone,
			Monthly: safeFloat(monthly),
			Payment: safeFloat(payment),
		}

		if raw, ok := cell(row, core.ColumnDue); ok {
			if due, err := parseFloat(raw); err == nil && math.Abs(due-c.Due()) > dueTolerance {
				logger.Debug("recomputed stale due",
					"row", n+2,
					"customer", c.Name,
					"stored", due,
					"computed", c.Due(),
				)
			}
		}

		customers = append(customers, c)
	}
	return customers
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", v)
	}
	return f, nil
}

func safeFloat(v string) float64 {
	f, err := parseFloat(v)
	if err != nil {
		return 0
	}
	return f
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
