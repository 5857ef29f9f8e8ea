package analysis

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/hscells/ontoeval/ontology"
	"github.com/pkg/errors"
)

// Depther computes the level of a term: the number of edges on the longest path from the term up
// to the root, where terms directly below the root have level 1. Identifiers a resolving reasoner
// does not know have level 0. Levels are memoised.
type Depther struct {
	r        ontology.Reasoner
	memo     *lru.Cache
	visiting map[string]bool
}

// NewDepther creates a depth calculator remembering up to size levels.
func NewDepther(r ontology.Reasoner, size int) (*Depther, error) {
	memo, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating depth cache")
	}
	return &Depther{r: r, memo: memo, visiting: make(map[string]bool)}, nil
}

// Depth returns the level of id.
func (d *Depther) Depth(id string) (int, error) {
	if v, ok := d.memo.Get(id); ok {
		return v.(int), nil
	}
	if res, ok := d.r.(ontology.Resolver); ok && !res.Resolves(id) {
		d.memo.Add(id, 0)
		return 0, nil
	}
	// A cycle in the hierarchy contributes nothing rather than recursing forever.
	if d.visiting[id] {
		return 0, nil
	}
	d.visiting[id] = true
	defer delete(d.visiting, id)

	parents, err := d.r.DirectParents(id)
	if err != nil {
		return 0, errors.Wrapf(err, "parents of %s", id)
	}
	deepest := 0
	for _, p := range ontology.WithoutRoot(parents) {
		l, err := d.Depth(p)
		if err != nil {
			return 0, err
		}
		if l > deepest {
			deepest = l
		}
	}
	d.memo.Add(id, deepest+1)
	return deepest + 1, nil
}
