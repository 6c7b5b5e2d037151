// Package formatting renders Typetalk API responses for the command line.
//
// Responses are kept as raw JSON by the client library, so every formatter
// works on a json.RawMessage. The table formatter flattens nested objects into
// dotted column names, the JSON formatter indents the payload and the YAML
// formatter converts it without going through Go types.
package formatting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// SupportedFormats lists the formats accepted by ParseFormat.
var SupportedFormats = []OutputFormat{FormatTable, FormatJSON, FormatYAML}

// ParseFormat resolves a format name. An empty name selects the table format.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: table, json, yaml)", name)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Compact output without decorations
	Color  bool // Enable colored headers
	// MaxCellWidth caps table cells. Zero selects the default width.
	MaxCellWidth int
}

// Formatter writes an API response to w.
type Formatter interface {
	Format(w io.Writer, data json.RawMessage) error
}

// New creates the formatter selected by options.Format.
func New(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}
	case FormatYAML:
		return &YAMLFormatter{options: options}
	default:
		return &TableFormatter{options: options}
	}
}

// Render is a shortcut for New(options).Format(w, data).
func Render(w io.Writer, options Options, data json.RawMessage) error {
	return New(options).Format(w, data)
}
