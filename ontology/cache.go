package ontology

import (
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// NewDiskStore creates an on-disk store for caching ancestor sets between runs. Each ontology
// version gets its own directory below dir, so answers from another release are never read.
func NewDiskStore(dir, version string) *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath:     filepath.Join(dir, version),
		Transform:    BlockTransform(4),
		CacheSizeMax: 4096 * 1024,
	})
}

// CachedReasoner memoises the answers of another reasoner. Ancestor sets are kept in an LRU and,
// when a disk store is configured, persisted so that later runs can skip the reasoner entirely.
type CachedReasoner struct {
	Reasoner
	ancestors *lru.Cache
	parents   *lru.Cache
	disk      *diskv.Diskv
}

// CacheDisk persists ancestor sets to the given store.
func CacheDisk(d *diskv.Diskv) func(*CachedReasoner) {
	return func(c *CachedReasoner) {
		c.disk = d
	}
}

// NewCachedReasoner wraps r with an in-memory cache holding up to size entries per query.
func NewCachedReasoner(r Reasoner, size int, options ...func(*CachedReasoner)) (*CachedReasoner, error) {
	ancestors, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating ancestor cache")
	}
	parents, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating parent cache")
	}
	c := &CachedReasoner{Reasoner: r, ancestors: ancestors, parents: parents}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// key makes an identifier safe to use as a file name.
func key(id string) string {
	return strings.NewReplacer(":", "_", "/", "_", " ", "_").Replace(id)
}

// Ancestors returns the cached ancestors of id, asking the wrapped reasoner on a miss.
func (c *CachedReasoner) Ancestors(id string) ([]string, error) {
	if v, ok := c.ancestors.Get(id); ok {
		return append([]string(nil), v.([]string)...), nil
	}
	if c.disk != nil {
		if b, err := c.disk.Read(key(id)); err == nil {
			a := decode(b)
			c.ancestors.Add(id, a)
			return append([]string(nil), a...), nil
		}
	}
	a, err := c.Reasoner.Ancestors(id)
	if err != nil {
		return nil, err
	}
	c.ancestors.Add(id, a)
	if c.disk != nil {
		if err := c.disk.Write(key(id), encode(a)); err != nil {
			return nil, errors.Wrapf(err, "caching ancestors of %s", id)
		}
	}
	return append([]string(nil), a...), nil
}

// DirectParents returns the cached direct parents of id.
func (c *CachedReasoner) DirectParents(id string) ([]string, error) {
	if v, ok := c.parents.Get(id); ok {
		return append([]string(nil), v.([]string)...), nil
	}
	p, err := c.Reasoner.DirectParents(id)
	if err != nil {
		return nil, err
	}
	c.parents.Add(id, p)
	return append([]string(nil), p...), nil
}

// Unwrap returns the cached reasoner.
func (c *CachedReasoner) Unwrap() Reasoner {
	return c.Reasoner
}

// Resolves defers to the wrapped reasoner, assuming every identifier resolves when it cannot tell.
func (c *CachedReasoner) Resolves(id string) bool {
	if r, ok := c.Reasoner.(Resolver); ok {
		return r.Resolves(id)
	}
	return true
}

// Branch defers to the wrapped reasoner.
func (c *CachedReasoner) Branch(id string) (string, bool) {
	if b, ok := c.Reasoner.(Brancher); ok {
		return b.Branch(id)
	}
	return "", false
}

// Label defers to the wrapped reasoner.
func (c *CachedReasoner) Label(id string) (string, bool) {
	if l, ok := c.Reasoner.(Labeler); ok {
		return l.Label(id)
	}
	return "", false
}

func encode(ids []string) []byte {
	return []byte(strings.Join(ids, "\n"))
}

func decode(b []byte) []string {
	if len(b) == 0 {
		return []string{}
	}
	return strings.Split(string(b), "\n")
}
