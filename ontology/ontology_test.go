package ontology_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hscells/ontoeval/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goOBO = `format-version: 1.2
ontology: go

[Term]
id: GO:0005575
name: cellular_component
namespace: cellular_component

[Term]
id: GO:0043226
name: organelle
namespace: cellular_component
is_a: GO:0005575 ! cellular_component

[Term]
id: GO:0043227
name: membrane-bounded organelle
namespace: cellular_component
is_a: GO:0043226 ! organelle

[Term]
id: GO:0043229
name: intracellular organelle
namespace: cellular_component
is_a: GO:0043226 ! organelle

[Term]
id: GO:0005634
name: nucleus
namespace: cellular_component
alt_id: GO:0005635x
is_a: GO:0043227 ! membrane-bounded organelle
is_a: GO:0043229 ! intracellular organelle

[Term]
id: GO:0008150
name: biological_process
namespace: biological_process

[Typedef]
id: part_of
name: part of
`

func TestReadOBO(t *testing.T) {
	o, err := ontology.ReadOBO(strings.NewReader(goOBO))
	require.NoError(t, err)
	assert.Equal(t, 6, o.Len())

	a, err := o.Ancestors("GO:0005634")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GO:0043227", "GO:0043229", "GO:0043226", "GO:0005575", ontology.Root}, a)

	a, err = o.Ancestors("GO:0005635x")
	require.NoError(t, err)
	assert.Len(t, a, 5)

	p, err := o.DirectParents("GO:0005634")
	require.NoError(t, err)
	assert.Equal(t, []string{"GO:0043227", "GO:0043229"}, p)

	p, err = o.DirectParents("GO:0005575")
	require.NoError(t, err)
	assert.Equal(t, []string{ontology.Root}, p)

	a, err = o.Ancestors("GO:9999999")
	require.NoError(t, err)
	assert.Equal(t, []string{ontology.Root}, a)

	assert.True(t, o.Resolves("GO:0005634"))
	assert.False(t, o.Resolves("GO:9999999"))
	assert.False(t, o.Resolves("part_of"))

	branch, ok := o.Branch("GO:0008150")
	assert.True(t, ok)
	assert.Equal(t, "biological_process", branch)

	label, ok := o.Label("GO:0005634")
	assert.True(t, ok)
	assert.Equal(t, "nucleus", label)
}

func TestReadOBOEmpty(t *testing.T) {
	_, err := ontology.ReadOBO(strings.NewReader("format-version: 1.2\n"))
	assert.Error(t, err)
}

func TestLoadOBOMissing(t *testing.T) {
	_, err := ontology.LoadOBO(filepath.Join(t.TempDir(), "go.obo"))
	assert.Error(t, err)
}

func TestWithoutRoot(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ontology.WithoutRoot([]string{ontology.Root, "a", "b"}))
}

type countingReasoner struct {
	ancestors map[string][]string
	calls     int
}

func (c *countingReasoner) Ancestors(id string) ([]string, error) {
	c.calls++
	return c.ancestors[id], nil
}

func (c *countingReasoner) DirectParents(id string) ([]string, error) {
	c.calls++
	return nil, nil
}

func TestCachedReasonerMemory(t *testing.T) {
	r := &countingReasoner{ancestors: map[string][]string{"GO:1": {"GO:2", ontology.Root}}}
	c, err := ontology.NewCachedReasoner(r, 16)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		a, err := c.Ancestors("GO:1")
		require.NoError(t, err)
		assert.Equal(t, []string{"GO:2", ontology.Root}, a)
	}
	assert.Equal(t, 1, r.calls)

	// Without a resolver underneath every identifier is assumed to resolve.
	assert.True(t, c.Resolves("anything"))
	_, ok := c.Branch("GO:1")
	assert.False(t, ok)
}

func TestCachedReasonerDisk(t *testing.T) {
	dir := t.TempDir()
	r := &countingReasoner{ancestors: map[string][]string{"GO:0005634": {"GO:0005575", ontology.Root}}}

	c, err := ontology.NewCachedReasoner(r, 16, ontology.CacheDisk(ontology.NewDiskStore(dir, "v1")))
	require.NoError(t, err)
	_, err = c.Ancestors("GO:0005634")
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	// A fresh cache over the same directory and version is served from disk.
	fresh := &countingReasoner{}
	c, err = ontology.NewCachedReasoner(fresh, 16, ontology.CacheDisk(ontology.NewDiskStore(dir, "v1")))
	require.NoError(t, err)
	a, err := c.Ancestors("GO:0005634")
	require.NoError(t, err)
	assert.Equal(t, []string{"GO:0005575", ontology.Root}, a)
	assert.Equal(t, 0, fresh.calls)
}

const releaseOne = `[Term]
id: GO:1
name: one

[Term]
id: GO:2
name: two
is_a: GO:1
`

const releaseTwo = `[Term]
id: GO:3
name: three

[Term]
id: GO:2
name: two
is_a: GO:3
`

func TestCachedReasonerDiskPerVersion(t *testing.T) {
	dir := t.TempDir()
	cached := func(release string) ontology.Reasoner {
		o, err := ontology.ReadOBO(strings.NewReader(release))
		require.NoError(t, err)
		c, err := ontology.NewCachedReasoner(o, 16, ontology.CacheDisk(ontology.NewDiskStore(dir, o.Version())))
		require.NoError(t, err)
		return c
	}

	a, err := cached(releaseOne).Ancestors("GO:2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GO:1", ontology.Root}, a)

	// The reparented term is answered by the new release, not the stored one.
	a, err = cached(releaseTwo).Ancestors("GO:2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GO:3", ontology.Root}, a)

	// Reading the first release again still hits its own store.
	a, err = cached(releaseOne).Ancestors("GO:2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GO:1", ontology.Root}, a)
}

func TestOBOVersion(t *testing.T) {
	one, err := ontology.ReadOBO(strings.NewReader(releaseOne))
	require.NoError(t, err)
	again, err := ontology.ReadOBO(strings.NewReader(releaseOne))
	require.NoError(t, err)
	two, err := ontology.ReadOBO(strings.NewReader(releaseTwo))
	require.NoError(t, err)

	assert.Len(t, one.Version(), 16)
	assert.Equal(t, one.Version(), again.Version())
	assert.NotEqual(t, one.Version(), two.Version())
}

func TestBlockTransform(t *testing.T) {
	assert.Equal(t, []string{"GO_0", "0056"}, ontology.BlockTransform(4)("GO_0005634"))
}
