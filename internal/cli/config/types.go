// Package config provides configuration management for the LeapLedger CLI.
//
// Configuration is layered, lowest to highest precedence: built-in defaults,
// leapledger.yaml, LEAPLEDGER_ environment variables and explicitly set
// command-line flags.
package config

// Default configuration values.
const (
	DefaultLedgerFile  = "customers.xlsx"
	DefaultJournalFile = ".leapledger/journal.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultCountryCode = "+977"
	DefaultOpener      = "auto"
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"leapledger.yaml", "leapledger.yml"}

// NotifyConfig controls payment notifications.
type NotifyConfig struct {
	Enabled     bool   `koanf:"enabled" yaml:"enabled" json:"enabled"`
	CountryCode string `koanf:"country_code" yaml:"country_code" json:"country_code"`
	Opener      string `koanf:"opener" yaml:"opener" json:"opener"`
}

// Config holds all CLI configuration options.
type Config struct {
	LedgerPath   string       `koanf:"ledger_path" yaml:"ledger_path" json:"ledger_path"`
	TemplatePath string       `koanf:"template_path" yaml:"template_path,omitempty" json:"template_path,omitempty"`
	JournalPath  string       `koanf:"journal_path" yaml:"journal_path" json:"journal_path"`
	Verbose      bool         `koanf:"verbose" yaml:"verbose" json:"verbose"`
	OutputFormat string       `koanf:"output" yaml:"output" json:"output"`
	Notify       NotifyConfig `koanf:"notify" yaml:"notify" json:"notify"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-" yaml:"-" json:"project_root,omitempty"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		LedgerPath:   DefaultLedgerFile,
		JournalPath:  DefaultJournalFile,
		OutputFormat: DefaultOutput,
		Notify: NotifyConfig{
			Enabled:     true,
			CountryCode: DefaultCountryCode,
			Opener:      DefaultOpener,
		},
	}
}

// JournalEnabled reports whether a journal path is configured.
func (c *Config) JournalEnabled() bool {
	return c.JournalPath != ""
}
