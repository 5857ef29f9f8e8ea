package corpus

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hscells/ontoeval/annotation"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// ToolSource reads tab-separated tool output, one file per document. The first row of every file
// is a header. Rows have the columns start, end, identifier, term and an optional reference label.
type ToolSource struct{}

// NewToolSource creates a source for tab-separated tool output.
func NewToolSource() ToolSource {
	return ToolSource{}
}

// Load reads every file in dir. The document identifier is the file name without its extension.
func (s ToolSource) Load(dir string) (annotation.Set, error) {
	paths, err := files(dir)
	if err != nil {
		return nil, err
	}
	set := make(annotation.Set)
	loadErr := &LoadError{}
	for _, path := range paths {
		name := filepath.Base(path)
		doc := strings.TrimSuffix(name, filepath.Ext(name))

		f, err := os.Open(path)
		if err != nil {
			loadErr.add(path, 0, err)
			continue
		}
		list, rowErrs, err := ParseTool(f)
		f.Close()
		if err != nil {
			loadErr.add(path, 0, err)
			continue
		}
		for _, re := range rowErrs {
			loadErr.add(path, re.Line, re.Err)
		}
		set[doc] = list
	}
	return set, loadErr.result()
}

// ParseTool reads the rows of one tool file. Rows that cannot be used at all are skipped and
// returned as row errors; the remaining rows are kept in file order.
func ParseTool(r io.Reader) (annotation.List, []FileError, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		list    annotation.List
		rowErrs []FileError
	)
	n := 0
	for scanner.Scan() {
		n++
		if n == 1 {
			continue
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		values := strings.Split(line, "\t")
		if len(values) < 4 {
			rowErrs = append(rowErrs, FileError{Line: n, Err: errors.Errorf("expected at least 4 columns, found %d", len(values))})
			continue
		}
		if len(values) == 4 {
			values = Repair(values)
		}
		a := annotation.Annotation{
			Start: offset(values[0]),
			End:   offset(values[1]),
			ID:    values[2],
			Term:  norm.NFC.String(values[3]),
		}
		if len(values) > 4 {
			a.Label = norm.NFC.String(values[4])
		}
		list = append(list, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return list, rowErrs, nil
}

// Repair fixes a four column row from incomplete tool output. Only the first applicable rule is
// applied:
//
//  1. a start that is not a non-negative integer becomes -1;
//  2. otherwise an end that is not a non-negative integer becomes -1;
//  3. otherwise an identifier that is not a GO identifier becomes N/A;
//  4. otherwise the missing reference label is appended as N/A.
//
// The input slice is not modified.
func Repair(values []string) []string {
	fixed := append([]string(nil), values...)
	switch {
	case !nonNegative(fixed[0]):
		fixed[0] = strconv.Itoa(annotation.Unknown)
	case !nonNegative(fixed[1]):
		fixed[1] = strconv.Itoa(annotation.Unknown)
	case !strings.Contains(fixed[2], "GO:"):
		fixed[2] = annotation.NotAvailable
	default:
		fixed = append(fixed, annotation.NotAvailable)
	}
	return fixed
}

func nonNegative(s string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && v >= 0
}

// offset reads a span boundary, falling back to Unknown for anything unreadable.
func offset(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return annotation.Unknown
	}
	return v
}
