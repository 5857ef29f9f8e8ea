package ontoeval_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hscells/ontoeval"
	"github.com/hscells/ontoeval/eval"
	"github.com/hscells/ontoeval/ontology"
	"github.com/hscells/ontoeval/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const obo = `format-version: 1.2

[Term]
id: GO:0005575
name: cellular_component
namespace: cellular_component

[Term]
id: GO:0043226
name: organelle
namespace: cellular_component
is_a: GO:0005575

[Term]
id: GO:0043227
name: membrane-bounded organelle
namespace: cellular_component
is_a: GO:0043226

[Term]
id: GO:0043229
name: intracellular organelle
namespace: cellular_component
is_a: GO:0043226

[Term]
id: GO:0005634
name: nucleus
namespace: cellular_component
is_a: GO:0043227
is_a: GO:0043229
`

const gold = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<annotations textSource="11532192.txt">
  <annotation>
    <mention id="CRAFT_GO_Instance_1" />
    <annotator id="CRAFT_GO_Instance_0">CCP</annotator>
    <span start="120" end="127" />
    <spannedText>nucleus</spannedText>
  </annotation>
  <annotation>
    <mention id="CRAFT_GO_Instance_2" />
    <annotator id="CRAFT_GO_Instance_0">CCP</annotator>
    <span start="10" end="31" />
    <spannedText>intracellular organelle</spannedText>
  </annotation>
  <classMention id="CRAFT_GO_Instance_1">
    <mentionClass id="GO:0005634">nucleus</mentionClass>
  </classMention>
  <classMention id="CRAFT_GO_Instance_2">
    <mentionClass id="GO:0043229">intracellular organelle</mentionClass>
  </classMention>
</annotations>
`

const toolOutput = "start\tend\tid\tterm\tlabel\n" +
	"120\t127\tGO:0005634\tnucleus\tnucleus\n" +
	"10\t31\tGO:0043227\tintracellular organelle\n"

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func collect(p ontoeval.Pipeline) []pipeline.Result {
	c := make(chan pipeline.Result)
	go p.Execute(c)
	var results []pipeline.Result
	for r := range c {
		results = append(results, r)
	}
	return results
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "gold", "go_cc"), "11532192.txt.knowtator.xml", gold)
	write(t, filepath.Join(dir, "annotator"), "11532192.tsv", toolOutput)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "silent"), 0755))

	o, err := ontology.ReadOBO(strings.NewReader(obo))
	require.NoError(t, err)

	p := ontoeval.NewPipeline(o,
		[]string{filepath.Join(dir, "gold", "go_cc")},
		[]pipeline.Tool{
			pipeline.NewTool("annotator", filepath.Join(dir, "annotator")),
			pipeline.NewTool("missing", filepath.Join(dir, "missing")),
			pipeline.NewTool("silent", filepath.Join(dir, "silent")),
		},
		ontoeval.Evaluation(eval.ExactAccuracy),
		ontoeval.DepthCache(16))

	results := collect(p)
	require.Len(t, results, 5)

	runID := results[0].RunID
	assert.NotEmpty(t, runID)
	for _, r := range results {
		assert.Equal(t, runID, r.RunID)
	}

	require.Equal(t, pipeline.Gold, results[0].Type)
	assert.Equal(t, 2, results[0].Gold.Annotations)
	assert.Equal(t, 2, results[0].Gold.Branches["cellular_component"])
	assert.Zero(t, results[0].Gold.Unresolved)

	require.Equal(t, pipeline.Evaluation, results[1].Type)
	e := results[1].Evaluation
	assert.Equal(t, "annotator", e.Tool)
	m := e.Matches["11532192"]
	assert.Equal(t, 1, m.Exact)
	assert.Equal(t, 1, m.Partial)
	assert.Equal(t, 0, m.Novel)
	assert.Equal(t, []float64{0.5, 1}, e.Scores["11532192"])
	assert.Equal(t, 0.75, e.Means["11532192"])
	assert.Equal(t, 0.75, e.Summary.Mean)
	assert.True(t, math.IsNaN(e.Summary.StdErr2))
	assert.Equal(t, map[int]int{3: 1, 4: 1}, e.Depths)
	assert.Equal(t, 0.5, e.Accuracy["11532192"]["ExactAccuracy"])

	assert.Equal(t, pipeline.Error, results[2].Type)
	assert.Equal(t, "missing", results[2].Tool)
	assert.Error(t, results[2].Error)

	require.Equal(t, pipeline.Evaluation, results[3].Type)
	assert.Equal(t, []string{"11532192"}, results[3].Evaluation.Skipped)
	assert.Empty(t, results[3].Evaluation.Matches)
	assert.Equal(t, 1, results[3].Evaluation.Totals.Skipped)

	assert.Equal(t, pipeline.Done, results[4].Type)
}

func TestPipelineMissingGoldBranch(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "gold", "go_cc"), "11532192.txt.knowtator.xml", gold)
	write(t, filepath.Join(dir, "annotator"), "11532192.tsv", toolOutput)

	o, err := ontology.ReadOBO(strings.NewReader(obo))
	require.NoError(t, err)

	p := ontoeval.NewPipeline(o,
		[]string{filepath.Join(dir, "gold", "go_cc"), filepath.Join(dir, "gold", "go_bpmf")},
		[]pipeline.Tool{pipeline.NewTool("annotator", filepath.Join(dir, "annotator"))})

	results := collect(p)
	require.Len(t, results, 3)
	require.Equal(t, pipeline.Gold, results[0].Type)
	assert.Equal(t, 2, results[0].Gold.Annotations)
	require.Equal(t, pipeline.Evaluation, results[1].Type)
	assert.Equal(t, 1, results[1].Evaluation.Totals.Exact)
	assert.Equal(t, pipeline.Done, results[2].Type)
}

func TestPipelineMissingGold(t *testing.T) {
	o, err := ontology.ReadOBO(strings.NewReader(obo))
	require.NoError(t, err)

	p := ontoeval.NewPipeline(o, []string{filepath.Join(t.TempDir(), "nothing")}, nil)
	results := collect(p)
	require.Len(t, results, 1)
	assert.Equal(t, pipeline.Error, results[0].Type)
	assert.Error(t, results[0].Error)
}
