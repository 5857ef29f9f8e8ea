// Package config reads the description of an evaluation run: where the gold standard and the
// tool outputs live, which ontology to reason over, and where reports go.
package config

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/hscells/ontoeval/output"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

const (
	DefaultCacheSize = 4096
	DefaultOutput    = "output"
	DefaultFormat    = "tsv"
)

// Config describes one evaluation run.
type Config struct {
	Gold     Gold     `toml:"gold"`
	Tools    []Tool   `toml:"tool"`
	Ontology Ontology `toml:"ontology"`
	Output   Output   `toml:"output"`
	Progress bool     `toml:"progress"`
	// Headway is the address of a headway server to report progress to.
	Headway string `toml:"headway"`
}

// Gold lists the directories of gold annotations, one per ontology branch.
type Gold struct {
	Branches []string `toml:"branches"`
}

// Tool is a named directory of tool output.
type Tool struct {
	Name string `toml:"name"`
	Dir  string `toml:"dir"`
}

// Ontology locates the ontology file and the cache of its ancestor queries.
type Ontology struct {
	Path      string `toml:"path"`
	CacheDir  string `toml:"cache_dir"`
	CacheSize int    `toml:"cache_size"`
}

type Output struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// overrides are read from the environment and replace what the file says.
type overrides struct {
	Ontology string `env:"ONTOEVAL_ONTOLOGY"`
	CacheDir string `env:"ONTOEVAL_CACHE_DIR"`
	Output   string `env:"ONTOEVAL_OUTPUT"`
	Format   string `env:"ONTOEVAL_FORMAT"`
	Headway  string `env:"ONTOEVAL_HEADWAY"`
}

// Default returns a configuration with nothing to evaluate.
func Default() Config {
	return Config{
		Ontology: Ontology{CacheSize: DefaultCacheSize},
		Output:   Output{Dir: DefaultOutput, Format: DefaultFormat},
	}
}

// Load reads a configuration file, in TOML or, for files ending in .properties, as Java properties.
// Environment variables take precedence over the file. The result is not validated.
func Load(path string) (Config, error) {
	c := Default()
	var err error
	if strings.EqualFold(filepath.Ext(path), ".properties") {
		err = c.loadProperties(path)
	} else {
		_, err = toml.DecodeFile(path, &c)
	}
	if err != nil {
		return c, errors.Wrapf(err, "reading configuration %s", path)
	}
	if err := c.fromEnv(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) loadProperties(path string) error {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return err
	}

	for _, b := range strings.Split(p.GetString("gold.branches", ""), ",") {
		if b = strings.TrimSpace(b); len(b) > 0 {
			c.Gold.Branches = append(c.Gold.Branches, b)
		}
	}

	tools := p.FilterStripPrefix("tool.")
	names := tools.Keys()
	sort.Strings(names)
	for _, name := range names {
		c.Tools = append(c.Tools, Tool{Name: name, Dir: tools.GetString(name, "")})
	}

	c.Ontology.Path = p.GetString("ontology.path", c.Ontology.Path)
	c.Ontology.CacheDir = p.GetString("ontology.cache.dir", c.Ontology.CacheDir)
	c.Ontology.CacheSize = p.GetInt("ontology.cache.size", c.Ontology.CacheSize)
	c.Output.Dir = p.GetString("output.dir", c.Output.Dir)
	c.Output.Format = p.GetString("output.format", c.Output.Format)
	c.Progress = p.GetBool("progress", c.Progress)
	c.Headway = p.GetString("headway", c.Headway)
	return nil
}

func (c *Config) fromEnv() error {
	var o overrides
	if err := env.Parse(&o); err != nil {
		return errors.Wrap(err, "reading environment")
	}
	set := func(dst *string, v string) {
		if len(v) > 0 {
			*dst = v
		}
	}
	set(&c.Ontology.Path, o.Ontology)
	set(&c.Ontology.CacheDir, o.CacheDir)
	set(&c.Output.Dir, o.Output)
	set(&c.Output.Format, o.Format)
	set(&c.Headway, o.Headway)
	return nil
}

// Validate checks that the configuration describes a run that can happen.
func (c Config) Validate() error {
	if len(c.Gold.Branches) == 0 {
		return errors.New("no gold standard branches")
	}
	if len(c.Tools) == 0 {
		return errors.New("no tools to evaluate")
	}
	seen := make(map[string]string, len(c.Tools))
	for _, t := range c.Tools {
		if len(t.Name) == 0 || len(t.Dir) == 0 {
			return errors.Errorf("tool %q needs both a name and a directory", t.Name)
		}
		name := output.FileName(t.Name)
		if other, ok := seen[name]; ok {
			if other == t.Name {
				return errors.Errorf("tool %q is configured twice", t.Name)
			}
			return errors.Errorf("tools %q and %q would write the same reports", other, t.Name)
		}
		seen[name] = t.Name
	}
	if len(c.Ontology.Path) == 0 {
		return errors.New("no ontology")
	}
	if c.Ontology.CacheSize <= 0 {
		return errors.Errorf("cache size must be positive, got %d", c.Ontology.CacheSize)
	}
	return nil
}
