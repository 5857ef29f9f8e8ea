// Package eval classifies the annotations of a tool against a gold standard.
package eval

import "github.com/hscells/ontoeval/annotation"

// PartialMatch is a gold and tool annotation over the same span with different identifiers.
type PartialMatch struct {
	GoldID string
	ToolID string
}

// MatchResult is the outcome of comparing one document's tool annotations to its gold annotations.
type MatchResult struct {
	Exact   int
	Partial int
	// Novel is the number of tool annotations not explained by a match. Duplicate tool rows can
	// make it negative; such values are reported as they are.
	Novel         int
	FalseNegative int
	Partials      []PartialMatch

	// Gold and Tool are the number of annotations that were compared.
	Gold int
	Tool int
}

// Compare classifies every gold annotation of a document against the tool annotations of the
// same document. A gold annotation is matched by every tool annotation over exactly the same span,
// so duplicated tool rows are each counted.
func Compare(gold, tool annotation.List) MatchResult {
	m := MatchResult{Gold: len(gold), Tool: len(tool)}
	for _, g := range gold {
		matched := false
		for _, t := range tool {
			if !g.SameSpan(t) {
				continue
			}
			matched = true
			if g.ID == t.ID {
				m.Exact++
			} else {
				m.Partial++
				m.Partials = append(m.Partials, PartialMatch{GoldID: g.ID, ToolID: t.ID})
			}
		}
		if !matched {
			m.FalseNegative++
		}
	}
	m.Novel = len(tool) - (m.Exact + m.Partial)
	return m
}

// CompareSets compares every gold document the tool also annotated. Gold documents missing from
// the tool output are not compared at all and are returned separately.
func CompareSets(gold, tool annotation.Set) (results map[string]MatchResult, skipped []string) {
	results = make(map[string]MatchResult)
	for _, doc := range gold.Documents() {
		t, ok := tool[doc]
		if !ok {
			skipped = append(skipped, doc)
			continue
		}
		results[doc] = Compare(gold[doc], t)
	}
	return results, skipped
}
