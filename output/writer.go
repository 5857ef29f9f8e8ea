package output

import (
	"io"
	"os"
	"path/filepath"

	"github.com/hscells/ontoeval/aggregate"
	"github.com/hscells/ontoeval/pipeline"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Writer writes the reports of a run into their own directory.
type Writer struct {
	Dir       string
	Format    string
	formatter Formatter
}

// NewWriter creates a writer for reports in the named format below dir.
func NewWriter(dir, format string) (Writer, error) {
	f, err := FormatterFor(format)
	if err != nil {
		return Writer{}, err
	}
	return Writer{Dir: dir, Format: format, formatter: f}, nil
}

// Write formats t and writes it to dir, returning the path of the file.
func (w Writer) Write(dir string, t Table) (string, error) {
	s, err := w.formatter(t)
	if err != nil {
		return "", errors.Wrapf(err, "formatting %s", t.Name)
	}
	path := filepath.Join(dir, t.Name+"."+w.Format)
	if err := os.WriteFile(path, []byte(s), 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}

// WriteRun writes every report of a run into Dir/runID and returns the paths written.
func (w Writer) WriteRun(runID string, gold aggregate.GoldTotals, evaluations []*pipeline.ToolEvaluation) ([]string, error) {
	dir := filepath.Join(w.Dir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	tables := []Table{Totals(gold, evaluations), Branches(gold), Summaries(evaluations)}
	for _, e := range evaluations {
		tables = append(tables, Means(e), Depths(e), Accuracy(e))
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path, err := w.Write(dir, t)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Render draws a table for a terminal.
func Render(out io.Writer, t Table) error {
	table := tablewriter.NewWriter(out)
	table.Header(cells(t.Headers)...)
	for _, row := range t.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cells(s []string) []any {
	c := make([]any, len(s))
	for i := range s {
		c[i] = s[i]
	}
	return c
}
