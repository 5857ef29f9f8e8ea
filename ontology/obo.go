package ontology

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type term struct {
	id        string
	name      string
	namespace string
	parents   []string
	obsolete  bool
}

// OBO is an in-memory reasoner over the is_a hierarchy of an OBO flat file such as go.obo. The
// transitive closure is computed once when the file is loaded.
type OBO struct {
	terms     map[string]*term
	alternate map[string]string
	ancestors map[string][]string
	version   string
}

// LoadOBO reads an ontology from an OBO file on disk.
func LoadOBO(path string) (*OBO, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening ontology %s", path)
	}
	defer f.Close()
	o, err := ReadOBO(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading ontology %s", path)
	}
	return o, nil
}

// ReadOBO parses the [Term] stanzas of an OBO document and precomputes ancestor sets.
func ReadOBO(r io.Reader) (*OBO, error) {
	o := &OBO{
		terms:     make(map[string]*term),
		alternate: make(map[string]string),
	}

	h := sha256.New()
	scanner := bufio.NewScanner(io.TeeReader(r, h))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		current *term
		alts    []string
	)
	flush := func() {
		if current != nil && len(current.id) > 0 {
			o.terms[current.id] = current
			for _, alt := range alts {
				o.alternate[alt] = current.id
			}
		}
		current, alts = nil, nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			flush()
			if line == "[Term]" {
				current = &term{}
			}
			continue
		}
		if current == nil || len(line) == 0 || line[0] == '!' {
			continue
		}
		tag, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch tag {
		case "id":
			current.id = value
		case "name":
			current.name = value
		case "namespace":
			current.namespace = value
		case "alt_id":
			alts = append(alts, value)
		case "is_a":
			// is_a: GO:0005575 ! cellular_component
			parent, _, _ := strings.Cut(value, "!")
			current.parents = append(current.parents, strings.TrimSpace(parent))
		case "is_obsolete":
			current.obsolete = value == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(o.terms) == 0 {
		return nil, errors.New("no terms found")
	}
	o.version = hex.EncodeToString(h.Sum(nil))[:16]
	o.precompute()
	return o, nil
}

// precompute walks the is_a graph once for every term.
func (o *OBO) precompute() {
	o.ancestors = make(map[string][]string, len(o.terms))
	visiting := make(map[string]bool)
	var walk func(id string) []string
	walk = func(id string) []string {
		if a, ok := o.ancestors[id]; ok {
			return a
		}
		if visiting[id] {
			return nil
		}
		visiting[id] = true
		seen := map[string]struct{}{Root: {}}
		if t, ok := o.terms[id]; ok {
			for _, p := range t.parents {
				seen[p] = struct{}{}
				for _, a := range walk(p) {
					seen[a] = struct{}{}
				}
			}
		}
		delete(visiting, id)
		a := make([]string, 0, len(seen))
		for s := range seen {
			a = append(a, s)
		}
		sort.Strings(a)
		o.ancestors[id] = a
		return a
	}
	for id := range o.terms {
		walk(id)
	}
}

// canonical maps alternate identifiers onto their primary term.
func (o *OBO) canonical(id string) string {
	if primary, ok := o.alternate[id]; ok {
		return primary
	}
	return id
}

// Ancestors returns the superclasses of id including Root. Unknown identifiers only have Root.
func (o *OBO) Ancestors(id string) ([]string, error) {
	if a, ok := o.ancestors[o.canonical(id)]; ok {
		return append([]string(nil), a...), nil
	}
	return []string{Root}, nil
}

// DirectParents returns the is_a parents of id, or Root for terms at the top of a branch.
func (o *OBO) DirectParents(id string) ([]string, error) {
	t, ok := o.terms[o.canonical(id)]
	if !ok || len(t.parents) == 0 {
		return []string{Root}, nil
	}
	return append([]string(nil), t.parents...), nil
}

// Resolves reports whether id, or an alternate id of a term, is declared in the ontology.
func (o *OBO) Resolves(id string) bool {
	_, ok := o.terms[o.canonical(id)]
	return ok
}

// Branch returns the namespace of the term, e.g. cellular_component.
func (o *OBO) Branch(id string) (string, bool) {
	t, ok := o.terms[o.canonical(id)]
	if !ok || len(t.namespace) == 0 {
		return "", false
	}
	return t.namespace, true
}

// Label returns the name of the term.
func (o *OBO) Label(id string) (string, bool) {
	t, ok := o.terms[o.canonical(id)]
	if !ok {
		return "", false
	}
	return t.name, true
}

// Obsolete reports whether the term has been marked obsolete.
func (o *OBO) Obsolete(id string) bool {
	t, ok := o.terms[o.canonical(id)]
	return ok && t.obsolete
}

// Version identifies the content the ontology was read from. Two files with the same terms but
// different bytes have different versions.
func (o *OBO) Version() string {
	return o.version
}

// Len is the number of terms in the ontology.
func (o *OBO) Len() int {
	return len(o.terms)
}
