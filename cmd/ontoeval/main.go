package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"
	goerrors "github.com/go-errors/errors"
	"github.com/hscells/ontoeval"
	"github.com/hscells/ontoeval/aggregate"
	"github.com/hscells/ontoeval/config"
	"github.com/hscells/ontoeval/ontology"
	"github.com/hscells/ontoeval/output"
	"github.com/hscells/ontoeval/pipeline"
)

var (
	name    = "ontoeval"
	version = "16.Oct.2026"
	author  = "Harry Scells"
)

type args struct {
	Config   string `help:"run configuration (.toml or .properties)" arg:"-c,required"`
	Output   string `help:"directory to write reports to" arg:"-o"`
	Format   string `help:"report format (tsv/csv/json/yaml)" arg:"-f"`
	Progress bool   `help:"draw a progress bar for each tool"`
	Debug    bool   `help:"verbose logging and stack traces"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func fail(logger *slog.Logger, debug bool, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	if debug {
		fmt.Fprintln(os.Stderr, goerrors.Wrap(err, 0).ErrorStack())
	}
	os.Exit(1)
}

func main() {
	var args args
	arg.MustParse(&args)

	level := slog.LevelInfo
	if args.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	c, err := config.Load(args.Config)
	if err != nil {
		fail(logger, args.Debug, "could not load configuration", err)
	}
	if len(args.Output) > 0 {
		c.Output.Dir = args.Output
	}
	if len(args.Format) > 0 {
		c.Output.Format = args.Format
	}
	c.Progress = c.Progress || args.Progress
	if err := c.Validate(); err != nil {
		fail(logger, args.Debug, "invalid configuration", err)
	}

	writer, err := output.NewWriter(c.Output.Dir, c.Output.Format)
	if err != nil {
		fail(logger, args.Debug, "invalid output", err)
	}

	logger.Info("loading ontology", slog.String("path", c.Ontology.Path))
	obo, err := ontology.LoadOBO(c.Ontology.Path)
	if err != nil {
		fail(logger, args.Debug, "could not load ontology", err)
	}
	logger.Info("loaded ontology", slog.Int("terms", obo.Len()))

	var options []func(*ontology.CachedReasoner)
	if len(c.Ontology.CacheDir) > 0 {
		options = append(options, ontology.CacheDisk(ontology.NewDiskStore(c.Ontology.CacheDir, obo.Version())))
	}
	reasoner, err := ontology.NewCachedReasoner(obo, c.Ontology.CacheSize, options...)
	if err != nil {
		fail(logger, args.Debug, "could not create reasoner", err)
	}

	tools := make([]pipeline.Tool, len(c.Tools))
	for i, t := range c.Tools {
		tools[i] = pipeline.NewTool(t.Name, t.Dir)
	}

	components := []func() interface{}{
		ontoeval.Logger(logger),
		ontoeval.DepthCache(c.Ontology.CacheSize),
	}
	if c.Progress {
		components = append(components, ontoeval.Progress(os.Stderr))
	}
	if len(c.Headway) > 0 {
		components = append(components, ontoeval.Headway(c.Headway))
	}
	p := ontoeval.NewPipeline(reasoner, c.Gold.Branches, tools, components...)

	results := make(chan pipeline.Result)
	go p.Execute(results)

	var (
		runID       string
		gold        aggregate.GoldTotals
		evaluations []*pipeline.ToolEvaluation
		failed      int
	)
	for r := range results {
		runID = r.RunID
		switch r.Type {
		case pipeline.Gold:
			gold = *r.Gold
		case pipeline.Evaluation:
			evaluations = append(evaluations, r.Evaluation)
		case pipeline.Error:
			failed++
			if len(r.Tool) == 0 {
				fail(logger, args.Debug, "evaluation failed", r.Error)
			}
			if args.Debug {
				fmt.Fprintln(os.Stderr, goerrors.Wrap(r.Error, 0).ErrorStack())
			}
		case pipeline.Done:
		}
	}

	paths, err := writer.WriteRun(runID, gold, evaluations)
	if err != nil {
		fail(logger, args.Debug, "could not write reports", err)
	}
	for _, path := range paths {
		logger.Debug("wrote report", slog.String("path", path))
	}

	if err := output.Render(os.Stdout, output.Totals(gold, evaluations)); err != nil {
		fail(logger, args.Debug, "could not print totals", err)
	}
	if err := output.Render(os.Stdout, output.Summaries(evaluations)); err != nil {
		fail(logger, args.Debug, "could not print summaries", err)
	}
	logger.Info("reports written", slog.String("dir", c.Output.Dir), slog.String("run", runID), slog.Int("failed", failed))
	if failed > 0 {
		os.Exit(2)
	}
}
