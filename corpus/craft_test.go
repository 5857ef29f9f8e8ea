package corpus_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hscells/ontoeval/corpus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const craftDump = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<annotations textSource="11532192.txt">
  <annotation>
    <mention id="CRAFT_GO_Instance_1" />
    <annotator id="CRAFT_GO_Instance_0">CCP Colorado Computational Pharmacology, UC Denver</annotator>
    <span start="120" end="127" />
    <spannedText>nucleus</spannedText>
    <creationDate>Tue Jan 17 15:32:24 MST 2006</creationDate>
  </annotation>
  <annotation>
    <mention id="CRAFT_GO_Instance_2" />
    <annotator id="CRAFT_GO_Instance_0">CCP Colorado Computational Pharmacology, UC Denver</annotator>
    <span start="10" end="14" />
    <span start="20" end="31" />
    <spannedText>cell ... cytoplasm</spannedText>
    <creationDate>Tue Jan 17 15:32:24 MST 2006</creationDate>
  </annotation>
  <annotation>
    <mention id="CRAFT_GO_Instance_3" />
    <annotator id="CRAFT_GO_Instance_0">CCP Colorado Computational Pharmacology, UC Denver</annotator>
    <span start="200" end="209" />
    <spannedText>apoptosis</spannedText>
    <creationDate>Tue Jan 17 15:32:24 MST 2006</creationDate>
  </annotation>
  <classMention id="CRAFT_GO_Instance_1">
    <mentionClass id="GO:0005634">nucleus</mentionClass>
  </classMention>
  <classMention id="CRAFT_GO_Instance_2">
    <mentionClass id="GO:0005737">cytoplasm</mentionClass>
  </classMention>
</annotations>
`

func TestParseCraft(t *testing.T) {
	doc, list, err := corpus.ParseCraft(strings.NewReader(craftDump))
	require.NoError(t, err)
	assert.Equal(t, "11532192", doc)
	require.Len(t, list, 3)

	// Ordered by end offset.
	assert.Equal(t, 31, list[0].End)
	assert.Equal(t, 127, list[1].End)
	assert.Equal(t, 209, list[2].End)

	multi := list[0]
	assert.Equal(t, 10, multi.Start)
	assert.Equal(t, "GO:0005737", multi.ID)
	assert.Equal(t, "cytoplasm", multi.Label)
	assert.Equal(t, "cell ... cytoplasm", multi.Term)

	single := list[1]
	assert.Equal(t, 120, single.Start)
	assert.Equal(t, "GO:0005634", single.ID)
	assert.Equal(t, "nucleus", single.Term)

	// A mention without a class mention keeps its mention id.
	assert.Equal(t, "CRAFT_GO_Instance_3", list[2].ID)
	assert.Empty(t, list[2].Label)
}

func TestParseCraftMissingSource(t *testing.T) {
	_, _, err := corpus.ParseCraft(strings.NewReader("<?xml?>\n<annotations>\n"))
	assert.Error(t, err)
}

func TestParseCraftBadSpan(t *testing.T) {
	dump := strings.Replace(craftDump, `start="120"`, `start="x"`, 1)
	_, _, err := corpus.ParseCraft(strings.NewReader(dump))
	assert.Error(t, err)
}

func TestCraftSourceLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "11532192.txt.knowtator.xml"), []byte(craftDump), 0644))
	other := strings.Replace(craftDump, "11532192.txt", "15492776.txt", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "15492776.txt.knowtator.xml"), []byte(other), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"), []byte("only one line"), 0644))

	set, err := corpus.NewCraftSource().Load(dir)
	require.Error(t, err)

	var loadErr *corpus.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{filepath.Join(dir, "broken.xml")}, loadErr.Excluded())

	assert.Equal(t, []string{"11532192", "15492776"}, set.Documents())
	assert.Equal(t, 6, set.Len())
}

func TestCraftSourceMissingDirectory(t *testing.T) {
	_, err := corpus.NewCraftSource().Load(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var loadErr *corpus.LoadError
	assert.False(t, errors.As(err, &loadErr))
}
