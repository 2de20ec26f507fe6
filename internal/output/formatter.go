package output

import (
	"io"
	"strings"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatXLSX  Format = "xlsx"
)

// Formatter is an interface for output formatting
type Formatter interface {
	// Write outputs the data to the writer
	Write(w io.Writer, data any) error
}

// ParseFormat parses a format string
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "xlsx", "excel":
		return FormatXLSX
	default:
		return FormatTable
	}
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// NewFormatter creates a new formatter for the given format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatXLSX:
		return &XLSXFormatter{}
	default:
		return &TableFormatter{}
	}
}
