package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapledger/internal/cli/output"
	"github.com/leapstack-labs/leapledger/internal/notify"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.LedgerPath == "" {
		return fmt.Errorf("ledger_path is required")
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	switch c.Notify.Opener {
	case notify.OpenerAuto, notify.OpenerBrowser, notify.OpenerIntent, notify.OpenerPrint:
	default:
		return fmt.Errorf("unknown notify.opener %q (want auto, browser, intent or print)", c.Notify.Opener)
	}
	if cc := c.Notify.CountryCode; !strings.HasPrefix(cc, "+") || len(cc) < 2 || strings.Trim(cc[1:], "0123456789") != "" {
		return fmt.Errorf("notify.country_code %q must look like +977", cc)
	}
	return nil
}
