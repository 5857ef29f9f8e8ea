package pipeline

import (
	"github.com/hscells/ontoeval/aggregate"
	"github.com/hscells/ontoeval/eval"
)

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Gold describes the gold standard once it has been loaded.
	Gold ResultType = iota
	// Evaluation is the complete evaluation of one tool.
	Evaluation
	// Error indicates an error was raised. When Tool is set, only that tool was abandoned.
	Error
	// Done indicates the pipeline has completed.
	Done
)

// ToolEvaluation holds everything computed for one tool.
type ToolEvaluation struct {
	Tool string
	// Matches is the match result of every compared document; Skipped lists the gold documents
	// the tool did not annotate.
	Matches map[string]eval.MatchResult
	Skipped []string
	// Scores holds the similarity of every match, Means the rounded per-document mean.
	Scores map[string][]float64
	Means  map[string]float64
	// Summary may be partially undefined; see aggregate.Summary.Defined.
	Summary  aggregate.Summary
	Totals   aggregate.ToolTotals
	Depths   map[int]int
	Accuracy map[string]map[string]float64
}

// Result is the output of a pipeline.
type Result struct {
	RunID      string
	Tool       string
	Gold       *aggregate.GoldTotals
	Evaluation *ToolEvaluation
	Type       ResultType
	Error      error
}
