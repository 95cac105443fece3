package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapledger/internal/cli/config"
	"github.com/leapstack-labs/leapledger/internal/cli/output"
	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/internal/notify"
	"github.com/leapstack-labs/leapledger/internal/present"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

// Check statuses.
const (
	statusPass = "pass"
	statusWarn = "warn"
	statusFail = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the ledger, journal and notification setup",
		Long: `Check that the configuration is valid, the ledger file can be read, the
journal opens and every customer phone number can receive a payment message.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  leapledger doctor
  leapledger doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := runChecks(cc)
			switch cc.Renderer.EffectiveMode() {
			case output.ModeJSON:
				return cc.Renderer.JSON(out)
			case output.ModeMarkdown:
				renderDoctorMarkdown(cc.Renderer, out)
			default:
				renderDoctorText(cc.Renderer, out)
			}
			return nil
		},
	}
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary    LedgerSummary `json:"summary"`
	Checks     []HealthCheck `json:"checks"`
	IssueCount int           `json:"issue_count"`
}

// LedgerSummary contains ledger-level figures.
type LedgerSummary struct {
	Path      string  `json:"path"`
	Customers int     `json:"customers"`
	TotalDue  float64 `json:"total_due"`
	InCredit  int     `json:"in_credit"`
}

// HealthCheck is the result of a single check.
type HealthCheck struct {
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

func runChecks(cc *CommandContext) *DoctorOutput {
	cfg := cc.Cfg
	customers := cc.Session.Customers()
	_, _, due := present.Totals(customers)

	out := &DoctorOutput{
		Summary: LedgerSummary{
			Path:      cfg.LedgerPath,
			Customers: len(customers),
			TotalDue:  due,
			InCredit:  lo.CountBy(customers, func(c core.Customer) bool { return c.Due() < 0 }),
		},
	}

	add := func(group, name, status string, details ...string) {
		out.Checks = append(out.Checks, HealthCheck{Name: name, Group: group, Status: status, Details: details})
	}

	if used := config.GetConfigFileUsed(); used != "" {
		add("configuration", "Config file", statusPass, used)
	} else {
		add("configuration", "Config file", statusWarn, "No leapledger.yaml found, using defaults")
	}

	switch {
	case !cc.Store.Available():
		add("ledger", "Backend", statusFail, fmt.Sprintf("Unsupported ledger format %q", cc.Store.Format()))
	case cc.LoadErr != nil:
		add("ledger", "Readable", statusFail, ierr.DisplayMessage(cc.LoadErr))
	default:
		add("ledger", "Readable", statusPass, fmt.Sprintf("%d customers", len(customers)))
	}
	if info, err := os.Stat(cfg.LedgerPath); err == nil && info.Mode().Perm()&0200 == 0 {
		add("ledger", "Writable", statusFail, "The ledger file is read-only")
	}

	negative := lo.FilterMap(customers, func(c core.Customer, i int) (string, bool) {
		return fmt.Sprintf("%d. %s", i+1, c.Name), c.Monthly < 0 || c.Payment < 0
	})
	add("ledger", "Non-negative amounts", statusOf(len(negative) > 0, statusWarn), negative...)

	if !cfg.JournalEnabled() {
		add("journal", "Journal", statusWarn, "Disabled")
	} else if cc.Journal == nil {
		add("journal", "Journal", statusFail, "Could not open "+cfg.JournalPath)
	} else if v, err := cc.Journal.Version(); err != nil {
		add("journal", "Journal", statusFail, err.Error())
	} else {
		add("journal", "Journal", statusPass, fmt.Sprintf("%s (schema v%d)", cfg.JournalPath, v))
	}

	if !cfg.Notify.Enabled {
		add("notifications", "Payment messages", statusWarn, "Disabled")
	} else {
		unreachable := lo.FilterMap(customers, func(c core.Customer, i int) (string, bool) {
			_, err := notify.NormalizePhone(c.Phone, cfg.Notify.CountryCode)
			if err == nil {
				return "", false
			}
			return fmt.Sprintf("%d. %s (%s): %s", i+1, c.Name, c.Phone, ierr.DisplayMessage(err)), true
		})
		add("notifications", "Phone numbers", statusOf(len(unreachable) > 0, statusWarn), unreachable...)
		add("notifications", "Opener", statusPass, cfg.Notify.Opener)
	}

	out.IssueCount = lo.CountBy(out.Checks, func(c HealthCheck) bool { return c.Status != statusPass })
	return out
}

func statusOf(failed bool, status string) string {
	if failed {
		return status
	}
	return statusPass
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("LeapLedger Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Ledger Summary"))
	r.Printf("   Customers: %d | In credit: %d | Total due: %s\n",
		out.Summary.Customers, out.Summary.InCredit, r.Amount(out.Summary.TotalDue))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case statusWarn:
			icon = styles.Warning.Render("!")
		case statusFail:
			icon = styles.Error.Render("✗")
		}
		r.Println("   " + icon + " " + check.Name)

		// Show first 3 details
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	if out.IssueCount == 0 {
		r.Success("No issues found")
		return
	}
	r.Printf("   %s\n", styles.Warning.Render(fmt.Sprintf("%d issue(s) found", out.IssueCount)))
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# LeapLedger Health Report")
	r.Println("")

	r.Println("## Ledger Summary")
	r.Println("")
	r.Println(output.FormatKeyValue("Path", out.Summary.Path))
	r.Println(output.FormatKeyValue("Customers", fmt.Sprint(out.Summary.Customers)))
	r.Println(output.FormatKeyValue("In credit", fmt.Sprint(out.Summary.InCredit)))
	r.Println(output.FormatKeyValue("Total due", core.FormatAmount(out.Summary.TotalDue)))
	r.Println("")

	r.Println("## Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **[%s]** %s\n", strings.ToUpper(check.Status), check.Name)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")
	r.Printf("**%d issue(s)**\n", out.IssueCount)
}
