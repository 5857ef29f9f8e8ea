// Package output provides the report tables of an evaluation run and the formats they are written in.
package output

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Undefined is written in place of a figure that does not exist, such as the dispersion of a tool
// with a single scored document.
const Undefined = "undefined"

// Table is a named report. Every row has one cell per header.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Append adds a row to the table.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Records returns each row keyed by header.
func (t Table) Records() []map[string]string {
	records := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		records[i] = make(map[string]string, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(row) {
				records[i][h] = row[j]
			}
		}
	}
	return records
}

// Formatter is used to write a report table in some format.
type Formatter func(t Table) (string, error)

// Formatters are the available formats, keyed by name. The name doubles as the file extension.
var Formatters = map[string]Formatter{
	"tsv":  TsvFormatter,
	"csv":  CsvFormatter,
	"json": JsonFormatter,
	"yaml": YamlFormatter,
}

// FormatterFor looks up a formatter by name.
func FormatterFor(name string) (Formatter, error) {
	f, ok := Formatters[name]
	if !ok {
		return nil, errors.Errorf("unknown output format %q", name)
	}
	return f, nil
}

// Float formats a figure as it was computed. NaN becomes Undefined.
func Float(v float64) string {
	if math.IsNaN(v) {
		return Undefined
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
