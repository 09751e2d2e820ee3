// Package cliout renders command results to the terminal as YAML or JSON.
package cliout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding for CLI commands.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// current is set by the root command's --output flag.
var current = FormatYAML

// SetFormat sets the process-wide output format. Unknown values fall back
// to YAML.
func SetFormat(format string) {
	switch format {
	case "json":
		current = FormatJSON
	default:
		current = FormatYAML
	}
}

// Print writes data to stdout in the configured format.
func Print(data any) error {
	return Fprint(os.Stdout, current, data)
}

// Fprint writes data to the given writer in the specified format.
func Fprint(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
