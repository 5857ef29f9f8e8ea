// Package ontoeval evaluates automatic ontology annotation tools against a manually curated gold
// standard such as the CRAFT corpus. Tool annotations are matched to gold annotations by span,
// and annotations with the right span but the wrong term are scored by how much of the ontology
// above the two terms they share.
package ontoeval

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hscells/headway"
	"github.com/hscells/ontoeval/aggregate"
	"github.com/hscells/ontoeval/analysis"
	"github.com/hscells/ontoeval/annotation"
	"github.com/hscells/ontoeval/corpus"
	"github.com/hscells/ontoeval/eval"
	"github.com/hscells/ontoeval/ontology"
	"github.com/hscells/ontoeval/pipeline"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
)

// Pipeline contains all the information for evaluating a set of tools against a gold standard.
type Pipeline struct {
	// GoldBranches are directories of gold annotations, one per ontology branch, merged into a
	// single gold standard.
	GoldBranches []string
	Tools        []pipeline.Tool

	GoldSource corpus.Source
	ToolSource corpus.Source
	Reasoner   ontology.Reasoner
	Evaluators []eval.Evaluator

	Logger        *slog.Logger
	Progress      io.Writer
	HeadwayServer string
	DepthCache    int
}

type progress struct{ io.Writer }
type headwayServer string
type depthCache int

// Evaluation adds per-document evaluation measures to the pipeline.
func Evaluation(evaluators ...eval.Evaluator) func() interface{} {
	return func() interface{} {
		return evaluators
	}
}

// Logger sets the logger of the pipeline.
func Logger(logger *slog.Logger) func() interface{} {
	return func() interface{} {
		return logger
	}
}

// Progress draws a progress bar for each tool on w.
func Progress(w io.Writer) func() interface{} {
	return func() interface{} {
		return progress{w}
	}
}

// Headway reports progress to a headway server.
func Headway(server string) func() interface{} {
	return func() interface{} {
		return headwayServer(server)
	}
}

// DepthCache sets how many term levels are remembered.
func DepthCache(size int) func() interface{} {
	return func() interface{} {
		return depthCache(size)
	}
}

// Sources replaces the gold and tool sources.
func Sources(gold, tool corpus.Source) func() interface{} {
	return func() interface{} {
		return [2]corpus.Source{gold, tool}
	}
}

// NewPipeline creates a new evaluation pipeline. The reasoner, gold branches and tools are
// required; additional components are provided via the optional functional arguments.
func NewPipeline(r ontology.Reasoner, gold []string, tools []pipeline.Tool, components ...func() interface{}) Pipeline {
	p := Pipeline{
		GoldBranches: gold,
		Tools:        tools,
		GoldSource:   corpus.NewCraftSource(),
		ToolSource:   corpus.NewToolSource(),
		Reasoner:     r,
		Evaluators:   []eval.Evaluator{eval.ExactAccuracy, eval.PartialAccuracy, eval.Precision},
		DepthCache:   1 << 16,
	}

	for _, component := range components {
		val := component()
		switch v := val.(type) {
		case []eval.Evaluator:
			p.Evaluators = v
		case *slog.Logger:
			p.Logger = v
		case progress:
			p.Progress = v.Writer
		case headwayServer:
			p.HeadwayServer = string(v)
		case depthCache:
			p.DepthCache = int(v)
		case [2]corpus.Source:
			p.GoldSource, p.ToolSource = v[0], v[1]
		}
	}

	return p
}

// Execute runs the pipeline, sending the gold summary, one evaluation per tool and finally Done
// through c. A tool that fails produces an Error result and the remaining tools still run; only a
// gold standard that cannot be loaded stops the pipeline. The channel is closed on return.
func (p Pipeline) Execute(c chan pipeline.Result) {
	defer close(c)

	runID := uuid.New().String()
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("run", runID))
	logger.Info("starting evaluation pipeline", slog.Int("tools", len(p.Tools)), slog.Int("branches", len(p.GoldBranches)))

	if p.Reasoner == nil {
		c <- pipeline.Result{RunID: runID, Type: pipeline.Error, Error: errors.New("no reasoner configured")}
		return
	}

	gold, err := p.loadGold(logger)
	if err != nil {
		c <- pipeline.Result{RunID: runID, Type: pipeline.Error, Error: err}
		return
	}
	goldTotals := aggregate.Gold(gold, p.Reasoner)
	if goldTotals.Unresolved > 0 {
		logger.Warn("gold annotations use identifiers outside every ontology branch",
			slog.Int("annotations", goldTotals.Unresolved),
			slog.Int("identifiers", len(goldTotals.UnresolvedIDs)))
	}
	if goldTotals.Obsolete > 0 {
		logger.Warn("gold annotations use obsolete identifiers",
			slog.Int("annotations", goldTotals.Obsolete),
			slog.Any("identifiers", goldTotals.ObsoleteIDs))
	}
	c <- pipeline.Result{RunID: runID, Type: pipeline.Gold, Gold: &goldTotals}

	depther, err := analysis.NewDepther(p.Reasoner, p.DepthCache)
	if err != nil {
		c <- pipeline.Result{RunID: runID, Type: pipeline.Error, Error: err}
		return
	}

	var hw *headway.Client
	if len(p.HeadwayServer) > 0 {
		hw = headway.NewClient(p.HeadwayServer, fmt.Sprintf("ontoeval [%s]", runID))
	}

	for i, tool := range p.Tools {
		toolLogger := logger.With(slog.String("tool", tool.Name))
		e, err := p.evaluate(tool, gold, depther, toolLogger)
		if err != nil {
			toolLogger.Error("abandoning tool", slog.Any("error", err))
			c <- pipeline.Result{RunID: runID, Tool: tool.Name, Type: pipeline.Error, Error: err}
			continue
		}
		if hw != nil {
			if err := hw.Send(float64(i+1), float64(len(p.Tools)), fmt.Sprintf("evaluated %s", tool.Name)); err != nil {
				toolLogger.Warn("could not report progress", slog.Any("error", err))
			}
		}
		c <- pipeline.Result{RunID: runID, Tool: tool.Name, Type: pipeline.Evaluation, Evaluation: e}
	}

	logger.Info("evaluation pipeline complete")
	c <- pipeline.Result{RunID: runID, Type: pipeline.Done}
}

// loadGold merges every gold branch. A branch that cannot be read is logged and left out, as are
// files that could not be read; only a gold standard with no annotations at all is an error.
func (p Pipeline) loadGold(logger *slog.Logger) (annotation.Set, error) {
	if len(p.GoldBranches) == 0 {
		return nil, errors.New("no gold standard branches configured")
	}
	gold := make(annotation.Set)
	for _, dir := range p.GoldBranches {
		branch, err := load(p.GoldSource, dir, logger)
		if err != nil {
			logger.Warn("skipped gold standard branch", slog.String("path", dir), slog.Any("error", err))
			continue
		}
		gold = annotation.Merge(gold, branch)
	}
	if gold.Len() == 0 {
		return nil, errors.Errorf("no gold standard annotations could be loaded from %v", p.GoldBranches)
	}
	logger.Info("loaded gold standard", slog.Int("documents", len(gold)), slog.Int("annotations", gold.Len()))
	return gold, nil
}

// load reads a directory, reporting the files and rows that had to be skipped.
func load(source corpus.Source, dir string, logger *slog.Logger) (annotation.Set, error) {
	set, err := source.Load(dir)
	var loadErr *corpus.LoadError
	if errors.As(err, &loadErr) {
		for _, fe := range loadErr.Errors {
			logger.Warn("skipped annotations", slog.String("path", fe.Path), slog.Int("line", fe.Line), slog.Any("error", fe.Err))
		}
		return set, nil
	}
	return set, err
}

func (p Pipeline) evaluate(tool pipeline.Tool, gold annotation.Set, depther *analysis.Depther, logger *slog.Logger) (*pipeline.ToolEvaluation, error) {
	annotations, err := load(p.ToolSource, tool.Dir, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", tool.Name)
	}
	p.labels(annotations)

	matches, skipped := eval.CompareSets(gold, annotations)
	if len(skipped) > 0 {
		logger.Warn("gold documents missing from tool output were not compared", slog.Int("documents", len(skipped)))
	}

	var bar *pb.ProgressBar
	if p.Progress != nil {
		bar = pb.New(len(matches)).Prefix(tool.Name + " ")
		bar.Output = p.Progress
		bar.Start()
	}
	scores, err := analysis.ScoreAll(p.Reasoner, matches, func(doc string, m eval.MatchResult) {
		if m.Novel < 0 {
			logger.Warn("more matches than tool annotations", slog.String("document", doc), slog.Int("novel", m.Novel))
		}
		if bar != nil {
			bar.Increment()
		}
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	means := aggregate.DocumentMeans(scores)
	summary, err := aggregate.ToolSummary(means)
	if errors.Is(err, aggregate.ErrUndefinedDispersion) {
		logger.Warn("tool summary is undefined", slog.Int("documents", summary.Documents))
	}

	if err := annotations.Backfill(depther.Depth); err != nil {
		return nil, errors.Wrap(err, "computing term levels")
	}
	depths, err := aggregate.DepthDistribution(annotations, depther.Depth)
	if err != nil {
		return nil, errors.Wrap(err, "computing depth distribution")
	}

	logger.Info("evaluated tool", slog.Int("documents", len(matches)), slog.Int("scored", len(scores)))
	return &pipeline.ToolEvaluation{
		Tool:     tool.Name,
		Matches:  matches,
		Skipped:  skipped,
		Scores:   scores,
		Means:    means,
		Summary:  summary,
		Totals:   aggregate.Totals(matches, annotations, len(skipped)),
		Depths:   depths,
		Accuracy: eval.Evaluate(p.Evaluators, matches),
	}, nil
}

// labels fills in empty reference labels from the ontology when it knows them.
func (p Pipeline) labels(s annotation.Set) {
	if labeler, ok := p.Reasoner.(ontology.Labeler); ok {
		s.Label(labeler.Label)
	}
}
