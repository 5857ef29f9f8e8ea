// Package analysis measures how semantically close the identifiers a tool assigned are to the
// gold identifiers, using the superclass structure of the ontology.
package analysis

import (
	"sort"

	"github.com/hscells/ontoeval/eval"
	"github.com/hscells/ontoeval/ontology"
	"github.com/pkg/errors"
	"github.com/xtgo/set"
)

// uniq sorts ids and removes duplicates, as required by the set operations.
func uniq(ids []string) sort.StringSlice {
	s := append(sort.StringSlice(nil), ids...)
	sort.Sort(s)
	return s[:set.Uniq(s)]
}

// inter returns the elements common to two sorted, duplicate free slices.
func inter(a, b sort.StringSlice) sort.StringSlice {
	data := append(append(sort.StringSlice(nil), a...), b...)
	return data[:set.Inter(data, len(a))]
}

// union returns the elements of two sorted, duplicate free slices.
func union(a, b sort.StringSlice) sort.StringSlice {
	data := append(append(sort.StringSlice(nil), a...), b...)
	return data[:set.Union(data, len(a))]
}

// Jaccard is the similarity of two identifiers measured over their ancestor sets. The root of the
// ontology is ignored and both identifiers are added to the union, so that
//
//	J = |A(gold) ∩ A(tool)| / |A(gold) ∪ A(tool) ∪ {gold, tool}|
//
// Unrelated or unknown identifiers score 0. An identifier is always identical to itself.
func Jaccard(r ontology.Reasoner, gold, tool string) (float64, error) {
	if gold == tool {
		return 1, nil
	}
	g, err := r.Ancestors(gold)
	if err != nil {
		return 0, errors.Wrapf(err, "ancestors of %s", gold)
	}
	t, err := r.Ancestors(tool)
	if err != nil {
		return 0, errors.Wrapf(err, "ancestors of %s", tool)
	}
	ga, ta := uniq(ontology.WithoutRoot(g)), uniq(ontology.WithoutRoot(t))

	i := inter(ga, ta)
	u := union(union(ga, ta), uniq([]string{gold, tool}))
	return float64(len(i)) / float64(len(u)), nil
}

// Score returns the similarity of every match in a document: one value per partial match, in the
// order they were found, followed by 1.0 for every exact match.
func Score(r ontology.Reasoner, m eval.MatchResult) ([]float64, error) {
	scores := make([]float64, 0, len(m.Partials)+m.Exact)
	for _, pm := range m.Partials {
		j, err := Jaccard(r, pm.GoldID, pm.ToolID)
		if err != nil {
			return nil, err
		}
		scores = append(scores, j)
	}
	for i := 0; i < m.Exact; i++ {
		scores = append(scores, 1)
	}
	return scores, nil
}

// ScoreAll scores every document in name order, calling each, when given, before a document is
// scored. Documents without any match carry no signal and are left out.
func ScoreAll(r ontology.Reasoner, results map[string]eval.MatchResult, each func(doc string, m eval.MatchResult)) (map[string][]float64, error) {
	docs := make([]string, 0, len(results))
	for doc := range results {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	scores := make(map[string][]float64, len(results))
	for _, doc := range docs {
		m := results[doc]
		if each != nil {
			each(doc, m)
		}
		s, err := Score(r, m)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring %s", doc)
		}
		if len(s) > 0 {
			scores[doc] = s
		}
	}
	return scores, nil
}
