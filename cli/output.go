package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Output formats accepted by -o.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// tableData is what a command renders in table format.
type tableData struct {
	Headers []string
	Rows    [][]string
}

// detectFormat returns explicit when set, else table on a terminal and
// JSON when stdout is piped.
func detectFormat(explicit string, out io.Writer) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return FormatTable
	}
	return FormatJSON
}

// render writes data in format. table is used only for FormatTable.
func render(w io.Writer, format string, data any, table tableData) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		b, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatTable:
		return renderTable(w, table)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func renderTable(w io.Writer, data tableData) error {
	t := tablewriter.NewTable(w)
	headers := make([]any, len(data.Headers))
	for i, h := range data.Headers {
		headers[i] = h
	}
	t.Header(headers...)
	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := t.Append(cells...); err != nil {
			return err
		}
	}
	return t.Render()
}
