// Package corpus loads annotation sets from disk. A gold-standard corpus is read from the CRAFT
// knowtator dump format and tool output is read from tab-separated files. Both produce an
// annotation.Set keyed by document.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hscells/ontoeval/annotation"
	"github.com/pkg/errors"
)

// Source loads a directory of per-document annotation files.
type Source interface {
	// Load reads every file in dir. Files that could not be read are excluded from the returned
	// set and reported through a *LoadError; any other error means nothing could be loaded.
	Load(dir string) (annotation.Set, error)
}

// FileError describes a problem with one file. A zero Line means the whole file was excluded.
type FileError struct {
	Path string
	Line int
	Err  error
}

func (e FileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// LoadError collects the non-fatal problems encountered while loading a directory.
type LoadError struct {
	Errors []FileError
}

func (e *LoadError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d problems loading annotations, first: %v", len(e.Errors), e.Errors[0])
}

// Excluded lists the files that were left out of the set entirely.
func (e *LoadError) Excluded() []string {
	var paths []string
	for _, fe := range e.Errors {
		if fe.Line == 0 {
			paths = append(paths, fe.Path)
		}
	}
	return paths
}

func (e *LoadError) add(path string, line int, err error) {
	e.Errors = append(e.Errors, FileError{Path: path, Line: line, Err: err})
}

// result returns nil when nothing went wrong so callers can compare against nil.
func (e *LoadError) result() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// files lists the regular files of a directory in name order.
func files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
