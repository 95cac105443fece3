// Package cli provides the command-line interface for LeapLedger.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapledger/internal/cli/commands"
	"github.com/leapstack-labs/leapledger/internal/cli/config"
	"github.com/leapstack-labs/leapledger/internal/cli/output"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/notify"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leapledger",
		Short: "LeapLedger - customer billing ledger",
		Long: `LeapLedger keeps a small customer billing ledger in a spreadsheet.

Each customer has a monthly charge and a running payment total; the amount
due is always derived from the two. Recording a payment opens a WhatsApp
message confirming it to the customer.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(config.WithLogger(ctx, logger))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leapledger.yaml)")
	rootCmd.PersistentFlags().String("ledger", "", "Path to the ledger file (.xlsx or .csv)")
	rootCmd.PersistentFlags().String("template", "", "File copied when the ledger does not exist yet")
	rootCmd.PersistentFlags().String("journal", "", "Path to the journal database")
	rootCmd.PersistentFlags().String("country-code", "", "Prefix replacing a leading 0 in phone numbers (e.g. +977)")
	rootCmd.PersistentFlags().String("opener", "", "How payment links are opened (auto|browser|intent|print)")
	rootCmd.PersistentFlags().Bool("no-open", false, "Print payment links instead of opening them")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("opener", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{notify.OpenerAuto, notify.OpenerBrowser, notify.OpenerIntent, notify.OpenerPrint}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("ledger", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"xlsx", "csv"}, cobra.ShellCompDirectiveFilterFileExt
	})

	// Add subcommands
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupLedger, Title: "Ledger Commands:"},
		&cobra.Group{ID: GroupView, Title: "Viewing Commands:"},
		&cobra.Group{ID: GroupInteractive, Title: "Interactive Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)
	addGrouped(rootCmd, GroupLedger,
		commands.NewAddCommand(),
		commands.NewPayCommand(),
		commands.NewRaiseCommand(),
		commands.NewRemoveCommand(),
	)
	addGrouped(rootCmd, GroupView,
		commands.NewListCommand(),
		commands.NewHistoryCommand(),
		commands.NewWatchCommand(),
	)
	addGrouped(rootCmd, GroupInteractive,
		commands.NewShellCommand(),
		commands.NewUICommand(),
	)
	addGrouped(rootCmd, GroupSetup,
		commands.NewInitCommand(),
		commands.NewConfigCommand(),
		commands.NewDoctorCommand(),
		commands.NewVersionCommand(Version),
		NewCompletionCommand(),
	)

	return rootCmd
}

// Command groups shown in help and in the generated reference.
const (
	GroupLedger      = "ledger"
	GroupView        = "view"
	GroupInteractive = "interactive"
	GroupSetup       = "setup"
)

func addGrouped(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

// newLogger returns the CLI logger: debug level when verbose, warnings otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", ierr.DisplayMessage(err))
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for LeapLedger.

To load completions:

Bash:
  $ source <(leapledger completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ leapledger completion bash > /etc/bash_completion.d/leapledger
  # macOS:
  $ leapledger completion bash > $(brew --prefix)/etc/bash_completion.d/leapledger

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ leapledger completion zsh > "${fpath[1]}/_leapledger"

Fish:
  $ leapledger completion fish | source

PowerShell:
  PS> leapledger completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
