package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapledger/internal/cli/config"
	"github.com/leapstack-labs/leapledger/internal/cli/output"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/store"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger directory",
		Long: `Initialize a directory with a leapledger.yaml configuration file and an
empty customers.xlsx ledger containing only the header row.

An existing ledger file is never overwritten.`,
		Example: `  # Initialize in current directory
  leapledger init

  # Initialize in a new directory
  leapledger init shop

  # Force overwrite existing config
  leapledger init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ierr.WithError(err).WithHintf("Could not create %s.", dir).Mark(ierr.ErrIO)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return ierr.NewErrorf("%s already exists", configPath).
			WithHint("leapledger.yaml already exists. Use --force to overwrite.").
			Mark(ierr.ErrState)
	}

	cfg := config.Default()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return ierr.WithError(err).WithHintf("Could not write %s.", configPath).Mark(ierr.ErrIO)
	}
	r.StatusLine(config.ConfigFileNames[0], "success", "")

	ledgerPath := filepath.Join(dir, cfg.LedgerPath)
	_, statErr := os.Stat(ledgerPath)
	st, err := store.Open(ledgerPath)
	if err != nil {
		return err
	}
	if err := st.EnsureReady(); err != nil {
		return err
	}
	if statErr == nil {
		r.StatusLine(cfg.LedgerPath, "warning", "already exists, kept")
	} else {
		r.StatusLine(cfg.LedgerPath, "success", "")
	}

	r.Println("")
	r.Success("Ledger initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'leapledger add <name> <phone> <monthly> <payment>' to add customers")
	r.Println("  2. Run 'leapledger list' to see the ledger")
	r.Println("  3. Run 'leapledger ui' for the interactive screen")

	return nil
}
