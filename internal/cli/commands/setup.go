package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapledger/internal/billing"
	"github.com/leapstack-labs/leapledger/internal/cli/config"
	"github.com/leapstack-labs/leapledger/internal/cli/output"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/journal"
	"github.com/leapstack-labs/leapledger/internal/ledger"
	"github.com/leapstack-labs/leapledger/internal/notify"
	"github.com/leapstack-labs/leapledger/internal/store"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Store    *store.Store
	Journal  *journal.Journal // nil when disabled or unavailable
	Service  *billing.Service
	Session  ledger.Session

	// LoadErr is the error from making the ledger ready or loading it.
	// Session is empty when it is set.
	LoadErr error
}

// NewCommandContext opens the ledger, the journal and the billing service.
// Returns the context and a cleanup function that must be called (typically via defer).
// Printed notification links go to stderr so stdout stays parseable.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	return newCommandContext(cmd, cmd.ErrOrStderr())
}

// newCommandContext is NewCommandContext with printed links written to linkOut.
func newCommandContext(cmd *cobra.Command, linkOut io.Writer) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutLedger(cmd)
	cfg := cc.Cfg

	st, err := store.Open(cfg.LedgerPath,
		store.WithTemplate(cfg.TemplatePath),
		store.WithLogger(cc.Logger),
	)
	if err != nil {
		return nil, nil, err
	}
	cc.Store = st

	cc.Session = ledger.Empty()
	if err := st.EnsureReady(); err != nil {
		cc.LoadErr = err
	} else if customers, err := st.Load(); err != nil {
		cc.LoadErr = err
	} else {
		cc.Session = ledger.New(customers)
	}
	if cc.LoadErr != nil {
		cc.Logger.Warn("ledger not loaded", "path", cfg.LedgerPath, "error", cc.LoadErr)
	}

	opts := []billing.Option{billing.WithLogger(cc.Logger)}
	if cfg.JournalEnabled() {
		if j := openJournal(cfg.JournalPath, cc.Logger); j != nil {
			cc.Journal = j
			opts = append(opts, billing.WithJournal(j))
		}
	}
	if cfg.Notify.Enabled {
		d, err := newDispatcher(cfg, linkOut, cc.Logger)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, billing.WithNotifier(d))
	}
	cc.Service = billing.NewService(st, opts...)

	cleanup := func() {
		if cc.Journal != nil {
			_ = cc.Journal.Close()
		}
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutLedger creates a CommandContext without opening
// the ledger. Useful for commands that only print configuration.
func NewCommandContextWithoutLedger(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// RequireLoaded fails when the ledger could not be loaded. Commands that
// write the ledger call it so a damaged file is not replaced by an empty one.
func (cc *CommandContext) RequireLoaded() error {
	return cc.LoadErr
}

// openJournal opens and migrates the journal. The journal is optional, so
// failures are logged and nil is returned.
func openJournal(path string, logger *slog.Logger) *journal.Journal {
	j, err := journal.Open(path)
	if err != nil {
		logger.Warn("journal unavailable", "path", path, "error", err)
		return nil
	}
	if err := j.Migrate(); err != nil {
		logger.Warn("journal migration failed", "path", path, "error", err)
		_ = j.Close()
		return nil
	}
	return j
}

func newDispatcher(cfg *config.Config, w io.Writer, logger *slog.Logger) (*notify.Dispatcher, error) {
	native, fallback, err := notify.OpenersFor(cfg.Notify.Opener, runtime.GOOS, w)
	if err != nil {
		return nil, err
	}
	return notify.NewDispatcher(
		notify.WithCountryCode(cfg.Notify.CountryCode),
		notify.WithOpeners(native, fallback),
		notify.WithLogger(logger),
	), nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg := config.Default()
	cfg.LedgerPath = getEnvOrDefault("LEAPLEDGER_LEDGER_PATH", cfg.LedgerPath)
	cfg.TemplatePath = os.Getenv("LEAPLEDGER_TEMPLATE_PATH")
	cfg.JournalPath = getEnvOrDefault("LEAPLEDGER_JOURNAL_PATH", cfg.JournalPath)
	cfg.OutputFormat = getEnvOrDefault("LEAPLEDGER_OUTPUT", cfg.OutputFormat)
	cfg.Verbose = os.Getenv("LEAPLEDGER_VERBOSE") == "true"
	cfg.Notify.Opener = getEnvOrDefault("LEAPLEDGER_NOTIFY__OPENER", cfg.Notify.Opener)
	cfg.Notify.CountryCode = getEnvOrDefault("LEAPLEDGER_NOTIFY__COUNTRY_CODE", cfg.Notify.CountryCode)
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// parseIndex converts a 1-based display index into a ledger index.
func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, ierr.WithError(err).
			WithHintf("%q is not a customer number.", arg).
			Mark(ierr.ErrValidation)
	}
	if i < 1 || i > n {
		return 0, ierr.NewErrorf("customer %d out of range [1,%d]", i, n).
			WithHint("Please select a customer.").
			Mark(ierr.ErrState)
	}
	return i - 1, nil
}

// selectArg selects the customer named by a 1-based index argument.
func selectArg(sess ledger.Session, arg string) (ledger.Session, int, error) {
	i, err := parseIndex(arg, sess.Len())
	if err != nil {
		return sess, 0, err
	}
	next, err := sess.Select(i)
	if err != nil {
		return sess, 0, err
	}
	return next, i, nil
}

// commandContext returns cmd's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
