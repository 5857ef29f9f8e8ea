// Package annotation contains the in-memory model shared by every stage of an evaluation: a single
// ontology annotation over a span of text, the ordered annotations of one document, and the
// annotations of a whole corpus keyed by document.
package annotation

import (
	"sort"

	"github.com/xtgo/set"
)

const (
	// NotAvailable is written in place of an identifier or label a tool did not supply.
	NotAvailable = "N/A"
	// NotFound is the identifier some tools emit when they could not map a mention.
	NotFound = "not found"
	// Unknown is the offset used when a span boundary could not be read.
	Unknown = -1
)

// Annotation is one ontology term tagged on a span of a document.
type Annotation struct {
	// Term is the surface text in the document.
	Term string
	// ID is the ontology identifier, e.g. GO:0005634, or one of the sentinels.
	ID string
	// Label is the ontology-provided name of the term, when known.
	Label string
	Start int
	End   int
	// Level is the longest path from the term to the ontology root. Zero until backfilled.
	Level int
}

// SameSpan reports whether two annotations cover exactly the same offsets.
func (a Annotation) SameSpan(b Annotation) bool {
	return a.Start == b.Start && a.End == b.End
}

// List is the annotations of one document ordered by end offset.
type List []Annotation

// Sort orders the list by end offset, keeping parse order for ties.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].End < l[j].End
	})
}

// Set maps a document identifier to its annotations.
type Set map[string]List

// Documents returns the document identifiers of the set in lexical order.
func (s Set) Documents() []string {
	docs := make([]string, 0, len(s))
	for doc := range s {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs
}

// Len is the total number of annotations across all documents.
func (s Set) Len() int {
	n := 0
	for _, l := range s {
		n += len(l)
	}
	return n
}

// Identifiers returns the distinct identifiers used anywhere in the set, sorted.
func (s Set) Identifiers() []string {
	ids := make(sort.StringSlice, 0, s.Len())
	for _, l := range s {
		for _, a := range l {
			ids = append(ids, a.ID)
		}
	}
	sort.Sort(ids)
	n := set.Uniq(ids)
	return ids[:n]
}

// Backfill stores the level of every annotation as computed by level. Annotations are updated in
// place; this is the only mutation a set sees after it has been parsed.
func (s Set) Backfill(level func(id string) (int, error)) error {
	for _, l := range s {
		for i := range l {
			v, err := level(l[i].ID)
			if err != nil {
				return err
			}
			l[i].Level = v
		}
	}
	return nil
}

// Label fills in the reference label of annotations that have none from lookup. Labels a source
// supplied, including NotAvailable, are kept.
func (s Set) Label(lookup func(id string) (string, bool)) {
	for _, l := range s {
		for i := range l {
			if len(l[i].Label) > 0 {
				continue
			}
			if label, ok := lookup(l[i].ID); ok {
				l[i].Label = label
			}
		}
	}
}

// Merge unions two sets. Documents present in both have their lists concatenated and re-sorted;
// documents present in one are carried over. Neither input is modified.
func Merge(a, b Set) Set {
	merged := make(Set, len(a)+len(b))
	for doc, l := range a {
		merged[doc] = append(List(nil), l...)
	}
	for doc, l := range b {
		if existing, ok := merged[doc]; ok {
			existing = append(existing, l...)
			existing.Sort()
			merged[doc] = existing
			continue
		}
		merged[doc] = append(List(nil), l...)
	}
	return merged
}
