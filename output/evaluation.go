package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hscells/ontoeval/aggregate"
	"github.com/hscells/ontoeval/pipeline"
)

// GoldSource is the name of the gold standard in the totals report.
const GoldSource = "gold"

// Totals reports the size of the gold standard and the summed match results of each tool.
func Totals(gold aggregate.GoldTotals, evaluations []*pipeline.ToolEvaluation) Table {
	t := Table{
		Name: "totals",
		Headers: []string{"source", "annotations", "unique_identifiers", "unresolved", "obsolete",
			"exact", "partial", "novel", "false_negative", "documents", "skipped"},
	}
	t.Append(GoldSource, itoa(gold.Annotations), itoa(gold.UniqueIdentifiers), itoa(gold.Unresolved),
		itoa(gold.Obsolete), "", "", "", "", "", "")
	for _, e := range evaluations {
		n := e.Totals
		t.Append(e.Tool, itoa(n.Exact+n.Partial+n.Novel), itoa(n.UniqueIdentifiers), "", "",
			itoa(n.Exact), itoa(n.Partial), itoa(n.Novel), itoa(n.FalseNegative), itoa(n.Documents), itoa(n.Skipped))
	}
	return t
}

// Branches reports how many gold annotations fall in each ontology branch.
func Branches(gold aggregate.GoldTotals) Table {
	t := Table{Name: "gold_branches", Headers: []string{"branch", "annotations"}}
	for _, b := range sortedKeys(gold.Branches) {
		t.Append(b, itoa(gold.Branches[b]))
	}
	if gold.Unresolved > 0 {
		t.Append(unresolvedBranch, itoa(gold.Unresolved))
	}
	return t
}

const unresolvedBranch = "unresolved"

// Means reports the mean similarity of every document of a tool. Documents whose mean is the
// sentinel are left out.
func Means(e *pipeline.ToolEvaluation) Table {
	t := Table{Name: FileName(e.Tool) + "_avg", Headers: []string{"document", "mean"}}
	for _, doc := range sortedKeys(e.Means) {
		m := e.Means[doc]
		if m == aggregate.Sentinel {
			continue
		}
		t.Append(doc, Float(m))
	}
	return t
}

// Summaries reports the mean and twice the standard error of every tool.
func Summaries(evaluations []*pipeline.ToolEvaluation) Table {
	t := Table{Name: "tool_avgs", Headers: []string{"tool", "mean", "stderr2", "documents"}}
	for _, e := range evaluations {
		t.Append(e.Tool, Float(e.Summary.Mean), Float(e.Summary.StdErr2), itoa(e.Summary.Documents))
	}
	return t
}

// Depths reports how many of a tool's annotations sit at each ontology level.
func Depths(e *pipeline.ToolEvaluation) Table {
	t := Table{Name: FileName(e.Tool) + "_depth", Headers: []string{"depth", "annotations"}}
	levels := make([]int, 0, len(e.Depths))
	for d := range e.Depths {
		levels = append(levels, d)
	}
	sort.Ints(levels)
	for _, d := range levels {
		t.Append(itoa(d), itoa(e.Depths[d]))
	}
	return t
}

// Accuracy reports every evaluation measure of every compared document of a tool.
func Accuracy(e *pipeline.ToolEvaluation) Table {
	t := Table{Name: FileName(e.Tool) + "_accuracy", Headers: []string{"document"}}
	var measures []string
	for _, scores := range e.Accuracy {
		for name := range scores {
			measures = append(measures, name)
		}
		break
	}
	sort.Strings(measures)
	t.Headers = append(t.Headers, measures...)
	for _, doc := range sortedKeys(e.Accuracy) {
		row := []string{doc}
		for _, name := range measures {
			row = append(row, Float(e.Accuracy[doc][name]))
		}
		t.Append(row...)
	}
	return t
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// FileName is the form of a tool name used in report file names. Distinct tools must have distinct
// file names or their reports overwrite each other.
func FileName(tool string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, tool)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
