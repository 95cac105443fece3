package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapledger/internal/cli/config"
)

// configDescriptions documents each configuration key.
var configDescriptions = map[string]string{
	"ledger_path":         "Ledger file. The extension selects the format: .xlsx or .csv.",
	"template_path":       "File copied to ledger_path when the ledger does not exist yet.",
	"journal_path":        "SQLite journal of committed operations. Empty disables it.",
	"verbose":             "Log debug messages to stderr.",
	"output":              "Output format: auto, text, markdown or json.",
	"notify.enabled":      "Open a WhatsApp confirmation after each payment.",
	"notify.country_code": "Prefix replacing the leading 0 of national phone numbers.",
	"notify.opener":       "How links are opened: auto, browser, intent or print.",
}

// ConfigField is one documented configuration key.
type ConfigField struct {
	Key     string
	Type    string
	Default string
}

// configFields walks the koanf tags of config.Config.
func configFields() []ConfigField {
	var fields []ConfigField
	var walk func(prefix string, v reflect.Value)
	walk = func(prefix string, v reflect.Value) {
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("koanf")
			if tag == "" || tag == "-" {
				continue
			}
			key := prefix + tag
			fv := v.Field(i)
			if fv.Kind() == reflect.Struct {
				walk(key+".", fv)
				continue
			}
			fields = append(fields, ConfigField{
				Key:     key,
				Type:    fv.Kind().String(),
				Default: fmt.Sprint(fv.Interface()),
			})
		}
	}
	walk("", reflect.ValueOf(*config.Default()))
	return fields
}

// envName is the environment variable that sets key.
func envName(key string) string {
	return "LEAPLEDGER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "LeapLedger configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("LeapLedger reads `leapledger.yaml` from the project root, the nearest directory at or above the working directory containing one. Relative paths are resolved against that directory.")
	w.Paragraph("Precedence, lowest to highest: built-in defaults, `leapledger.yaml`, `LEAPLEDGER_` environment variables, command-line flags.")

	w.Header(2, "Keys")
	var rows [][]string
	for _, f := range configFields() {
		def := f.Default
		if def == "" {
			def = "-"
		} else {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(f.Key), f.Type, def, InlineCode(envName(f.Key)), configDescriptions[f.Key]})
	}
	w.Table([]string{"Key", "Type", "Default", "Environment", "Description"}, rows)

	example, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode example: %w", err)
	}
	w.Header(2, "Example")
	w.Paragraph("The file written by `leapledger init`:")
	w.CodeBlock("yaml", string(example))

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
