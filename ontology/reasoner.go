// Package ontology provides the reasoner that answers superclass queries over an ontology. The
// evaluation only ever asks two questions of it: the ancestors of a term, and the direct parents
// of a term.
package ontology

// Root is the name of the artificial top node every term descends from.
const Root = "Thing"

// Reasoner answers subsumption queries for ontology identifiers.
type Reasoner interface {
	// Ancestors returns every transitive superclass of id. The result may contain Root.
	Ancestors(id string) ([]string, error)
	// DirectParents returns the immediate superclasses of id. Terms directly below the top of the
	// ontology may return Root or nothing at all.
	DirectParents(id string) ([]string, error)
}

// Resolver is implemented by reasoners that can tell whether an identifier exists.
type Resolver interface {
	Resolves(id string) bool
}

// Brancher is implemented by reasoners that know which branch (namespace) a term belongs to.
type Brancher interface {
	Branch(id string) (string, bool)
}

// Labeler is implemented by reasoners that know the name of a term.
type Labeler interface {
	Label(id string) (string, bool)
}

// Obsoleter is implemented by reasoners that know which terms have been retired.
type Obsoleter interface {
	Obsolete(id string) bool
}

// Unwrap returns the reasoner underneath any caching layers, so callers can check what it can do.
func Unwrap(r Reasoner) Reasoner {
	for {
		w, ok := r.(interface{ Unwrap() Reasoner })
		if !ok {
			return r
		}
		r = w.Unwrap()
	}
}

// WithoutRoot returns ids with every occurrence of Root removed.
func WithoutRoot(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != Root {
			out = append(out, id)
		}
	}
	return out
}
