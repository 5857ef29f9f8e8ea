// Package aggregate summarises per-document evaluation results into per-document and per-tool
// figures.
package aggregate

import (
	"math"
	"sort"

	"github.com/hscells/ontoeval/annotation"
	"github.com/hscells/ontoeval/eval"
	"github.com/hscells/ontoeval/ontology"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sentinel replaces a document mean of exactly zero. Such a document almost always uses an
// identifier that has since been removed or renamed in the ontology, so it is left out of reports.
const Sentinel = -1.0

// ErrUndefinedDispersion is returned when a tool has too few scored documents for a standard
// error to exist.
var ErrUndefinedDispersion = errors.New("dispersion is undefined for fewer than two documents")

// DocumentMeans averages the similarity scores of each document, rounded to two decimal places.
func DocumentMeans(scores map[string][]float64) map[string]float64 {
	means := make(map[string]float64, len(scores))
	for doc, s := range scores {
		if len(s) == 0 {
			continue
		}
		mean := stat.Mean(s, nil)
		if mean == 0 {
			mean = Sentinel
		}
		means[doc] = floats.Round(mean, 2)
	}
	return means
}

// Summary is the mean of a tool's document means and twice the standard error of that mean.
type Summary struct {
	Mean float64
	// StdErr2 is 2 × (sample standard deviation / √n).
	StdErr2   float64
	Documents int
}

// Defined reports whether both figures of the summary exist.
func (s Summary) Defined() bool {
	return !math.IsNaN(s.Mean) && !math.IsNaN(s.StdErr2)
}

// ToolSummary summarises the document means of one tool, ignoring sentinel documents. With fewer
// than two documents the undefined figures are NaN and ErrUndefinedDispersion is returned.
func ToolSummary(means map[string]float64) (Summary, error) {
	docs := make([]string, 0, len(means))
	for doc, m := range means {
		if m == Sentinel {
			continue
		}
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	values := make([]float64, len(docs))
	for i, doc := range docs {
		values[i] = means[doc]
	}

	s := Summary{Mean: math.NaN(), StdErr2: math.NaN(), Documents: len(values)}
	if len(values) > 0 {
		s.Mean = floats.Round(stat.Mean(values, nil), 2)
	}
	if len(values) < 2 {
		return s, ErrUndefinedDispersion
	}
	sd := stat.StdDev(values, nil)
	s.StdErr2 = floats.Round(2*stat.StdErr(sd, float64(len(values))), 2)
	return s, nil
}

// ToolTotals sums the match results of a tool over every compared document.
type ToolTotals struct {
	Exact         int
	Partial       int
	Novel         int
	FalseNegative int
	// Documents is the number of documents compared, Skipped the number of gold documents the
	// tool did not annotate.
	Documents int
	Skipped   int
	// UniqueIdentifiers is the number of distinct identifiers the tool used anywhere.
	UniqueIdentifiers int
}

// Totals sums match results. The identifier count covers the whole tool output, including
// documents that were not compared.
func Totals(results map[string]eval.MatchResult, tool annotation.Set, skipped int) ToolTotals {
	t := ToolTotals{Documents: len(results), Skipped: skipped}
	for _, m := range results {
		t.Exact += m.Exact
		t.Partial += m.Partial
		t.Novel += m.Novel
		t.FalseNegative += m.FalseNegative
	}
	t.UniqueIdentifiers = len(tool.Identifiers())
	return t
}

// GoldTotals describes the gold standard itself.
type GoldTotals struct {
	Annotations       int
	UniqueIdentifiers int
	// Branches counts annotations per ontology branch when the reasoner knows branches.
	Branches map[string]int
	// Unresolved counts annotations whose identifier is in no known branch of the ontology, so
	// that Branches and Unresolved together account for every annotation.
	Unresolved    int
	UnresolvedIDs []string
	// Obsolete counts annotations whose identifier has been retired from the ontology.
	Obsolete    int
	ObsoleteIDs []string
}

// Gold counts the annotations of the gold standard and checks their identifiers against r. When
// r knows branches an identifier resolves by belonging to one; otherwise by being declared.
func Gold(gold annotation.Set, r ontology.Reasoner) GoldTotals {
	t := GoldTotals{
		Annotations:       gold.Len(),
		UniqueIdentifiers: len(gold.Identifiers()),
		Branches:          make(map[string]int),
	}
	base := ontology.Unwrap(r)
	brancher, hasBranches := base.(ontology.Brancher)
	resolver, hasResolver := base.(ontology.Resolver)
	obsoleter, hasObsolete := base.(ontology.Obsoleter)
	unresolved := make(map[string]struct{})
	obsolete := make(map[string]struct{})
	for _, l := range gold {
		for _, a := range l {
			resolved := true
			switch {
			case hasBranches:
				var branch string
				branch, resolved = brancher.Branch(a.ID)
				if resolved {
					t.Branches[branch]++
				}
			case hasResolver:
				resolved = resolver.Resolves(a.ID)
			}
			if !resolved {
				t.Unresolved++
				unresolved[a.ID] = struct{}{}
			}
			if hasObsolete && obsoleter.Obsolete(a.ID) {
				t.Obsolete++
				obsolete[a.ID] = struct{}{}
			}
		}
	}
	t.UnresolvedIDs = sortedSet(unresolved)
	t.ObsoleteIDs = sortedSet(obsolete)
	return t
}

func sortedSet(m map[string]struct{}) []string {
	var ids []string
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DepthDistribution counts the annotations of a set at each ontology level.
func DepthDistribution(s annotation.Set, depth func(id string) (int, error)) (map[int]int, error) {
	dist := make(map[int]int)
	for _, l := range s {
		for _, a := range l {
			level, err := depth(a.ID)
			if err != nil {
				return nil, err
			}
			dist[level]++
		}
	}
	return dist, nil
}
