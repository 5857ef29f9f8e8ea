package eval

// Flag is the score of a measure that has no denominator for a document.
const Flag = -1.0

// Evaluator is an interface for scoring the match result of a document.
type Evaluator interface {
	Score(m MatchResult) float64
	Name() string
}

type exactAccuracy struct{}
type partialAccuracy struct{}
type precision struct{}

var (
	// ExactAccuracy is the fraction of gold annotations matched exactly.
	ExactAccuracy = exactAccuracy{}
	// PartialAccuracy is the fraction of gold annotations matched on span only.
	PartialAccuracy = partialAccuracy{}
	// Precision is the fraction of tool annotations that are exact matches.
	Precision = precision{}
)

func (exactAccuracy) Name() string {
	return "ExactAccuracy"
}

func (exactAccuracy) Score(m MatchResult) float64 {
	if m.Gold == 0 {
		return Flag
	}
	return float64(m.Exact) / float64(m.Gold)
}

func (partialAccuracy) Name() string {
	return "PartialAccuracy"
}

func (partialAccuracy) Score(m MatchResult) float64 {
	if m.Gold == 0 {
		return Flag
	}
	return float64(m.Partial) / float64(m.Gold)
}

func (precision) Name() string {
	return "Precision"
}

func (precision) Score(m MatchResult) float64 {
	if m.Tool == 0 {
		return Flag
	}
	return float64(m.Exact) / float64(m.Tool)
}

// Evaluate scores each document's match result with every evaluator.
func Evaluate(evaluators []Evaluator, results map[string]MatchResult) map[string]map[string]float64 {
	scores := make(map[string]map[string]float64, len(results))
	for doc, m := range results {
		scores[doc] = make(map[string]float64, len(evaluators))
		for _, e := range evaluators {
			scores[doc][e.Name()] = e.Score(m)
		}
	}
	return scores
}
