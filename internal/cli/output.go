package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer   io.Writer
	jsonMode bool

	success *color.Color
	failure *color.Color
	warning *color.Color
	info    *color.Color
	bold    *color.Color
	dim     *color.Color
}

// NewOutput creates a new Output instance. color.NoColor already turns
// colouring off when stdout is not a terminal.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	o := &Output{
		writer:   cmd.OutOrStdout(),
		jsonMode: jsonMode,
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed),
		warning:  color.New(color.FgYellow),
		info:     color.New(color.FgCyan),
		bold:     color.New(color.Bold),
		dim:      color.New(color.Faint),
	}
	if jsonMode {
		for _, c := range []*color.Color{o.success, o.failure, o.warning, o.info, o.bold, o.dim} {
			c.DisableColor()
		}
	}
	return o
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

func (o *Output) line(c *color.Color, format string, args ...interface{}) {
	c.Fprintln(o.writer, fmt.Sprintf(format, args...))
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) { o.line(o.success, format, args...) }

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) { o.line(o.failure, format, args...) }

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) { o.line(o.warning, format, args...) }

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) { o.line(o.info, format, args...) }

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) { o.line(o.bold, format, args...) }

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) { o.line(o.dim, format, args...) }

// Table is a simple aligned text table.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{headers: headers, output: output}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if n := utf8.RuneCountInString(cell); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	t.output.bold.Fprintln(t.output.writer, t.format(t.headers, widths))
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	t.output.dim.Fprintln(t.output.writer, strings.Join(seps, "──"))
	for _, row := range t.rows {
		t.output.Println(t.format(row, widths))
	}
}

func (t *Table) format(cells []string, widths []int) string {
	parts := make([]string, 0, len(widths))
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		pad := widths[i] - utf8.RuneCountInString(cell)
		if pad < 0 {
			pad = 0
		}
		parts = append(parts, cell+strings.Repeat(" ", pad))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
