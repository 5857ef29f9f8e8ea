package corpus

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hscells/ontoeval/annotation"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	annotationMarker   = "<annotation>"
	classMentionMarker = "<classMention "
	spanMarker         = "<span start"
)

// CraftSource reads the knowtator XML dump of the CRAFT corpus. The dump is not parsed as XML; it
// is scanned line by line relying on the fixed layout of the dump:
//
//	line 2           <annotations textSource="11532192.txt">
//	<annotation>     opens a block
//	  +1             mention id (quoted)
//	  +2             annotator (ignored)
//	  +3..           one or more <span start="s" end="e" /> lines
//	  next           <spannedText>term</spannedText>
//	<classMention id="mention">
//	  +1             <mentionClass id="GO:0005634">nucleus</mentionClass>
//
// Annotations refer to their ontology term through the mention id, which a later class mention
// resolves.
type CraftSource struct{}

// NewCraftSource creates a source for the CRAFT dump format.
func NewCraftSource() CraftSource {
	return CraftSource{}
}

// Load reads every dump file in dir.
func (s CraftSource) Load(dir string) (annotation.Set, error) {
	paths, err := files(dir)
	if err != nil {
		return nil, err
	}
	set := make(annotation.Set)
	loadErr := &LoadError{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			loadErr.add(path, 0, err)
			continue
		}
		doc, list, err := ParseCraft(f)
		f.Close()
		if err != nil {
			loadErr.add(path, 0, err)
			continue
		}
		set[doc] = list
	}
	return set, loadErr.result()
}

type scanState int

const (
	seekingBlock scanState = iota
	inMention
	inAnnotator
	inFirstSpan
	inSpan
	inClassMention
)

// reference is a class mention waiting to be applied to the annotations that use its mention id.
type reference struct {
	id    string
	label string
}

type craftScanner struct {
	state   scanState
	current annotation.Annotation
	records annotation.List
	refs    map[string]reference
	// pending holds the mention id of an open class mention block.
	pending string
}

// ParseCraft reads a single dump, returning the document identifier (the text source minus its
// extension) and the resolved annotations ordered by end offset.
func ParseCraft(r io.Reader) (string, annotation.List, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var doc string
	s := &craftScanner{refs: make(map[string]reference)}
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if n == 1 {
			continue
		}
		if n == 2 {
			source, ok := between(line, `"`, `"`)
			if !ok || len(source) < 4 {
				return "", nil, errors.Errorf("line 2: no text source in %q", line)
			}
			doc = source[:len(source)-4]
			continue
		}
		if err := s.next(line); err != nil {
			return "", nil, errors.Wrapf(err, "line %d", n)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, err
	}
	if n < 2 {
		return "", nil, errors.New("missing text source declaration")
	}
	if s.state != seekingBlock && s.state != inClassMention {
		return "", nil, errors.New("unterminated annotation block")
	}
	return doc, s.resolve(), nil
}

func (s *craftScanner) next(line string) error {
	switch s.state {
	case seekingBlock:
		if strings.Contains(line, annotationMarker) {
			s.current = annotation.Annotation{Start: annotation.Unknown, End: annotation.Unknown}
			s.state = inMention
		} else if strings.Contains(line, classMentionMarker) {
			id, ok := between(line, `"`, `"`)
			if !ok {
				return errors.Errorf("class mention without id: %q", line)
			}
			s.pending = id
			s.state = inClassMention
		}
	case inMention:
		id, ok := between(line, `"`, `"`)
		if !ok {
			return errors.Errorf("annotation without mention id: %q", line)
		}
		s.current.ID = id
		s.state = inAnnotator
	case inAnnotator:
		s.state = inFirstSpan
	case inFirstSpan:
		start, end, err := span(line)
		if err != nil {
			return err
		}
		s.current.Start, s.current.End = start, end
		s.state = inSpan
	case inSpan:
		if strings.Contains(line, spanMarker) {
			// Discontinuous mentions keep the first start and take the end of the last span.
			_, end, err := span(line)
			if err != nil {
				return err
			}
			s.current.End = end
			return nil
		}
		term, _ := between(line, ">", "<")
		s.current.Term = norm.NFC.String(term)
		s.records = append(s.records, s.current)
		s.state = seekingBlock
	case inClassMention:
		id, _ := between(line, `"`, `"`)
		label, _ := between(line, ">", "<")
		if _, seen := s.refs[s.pending]; !seen {
			s.refs[s.pending] = reference{id: id, label: norm.NFC.String(label)}
		}
		s.state = seekingBlock
	}
	return nil
}

// resolve rewrites mention ids into ontology identifiers and freezes the list.
func (s *craftScanner) resolve() annotation.List {
	list := make(annotation.List, len(s.records))
	for i, a := range s.records {
		if ref, ok := s.refs[a.ID]; ok {
			a.ID = ref.id
			a.Label = ref.label
		}
		list[i] = a
	}
	list.Sort()
	return list
}

// between returns the text between the first occurrence of open and the last occurrence of close.
func between(line, open, close string) (string, bool) {
	i := strings.Index(line, open)
	j := strings.LastIndex(line, close)
	if i < 0 || j < 0 || j < i+len(open) {
		return "", false
	}
	return line[i+len(open) : j], true
}

// quoted returns the values enclosed in successive pairs of double quotes.
func quoted(line string) []string {
	parts := strings.Split(line, `"`)
	var values []string
	for i := 1; i < len(parts)-1; i += 2 {
		values = append(values, parts[i])
	}
	return values
}

func span(line string) (int, int, error) {
	values := quoted(line)
	if len(values) < 2 {
		return 0, 0, errors.Errorf("span without start and end: %q", line)
	}
	start, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, 0, errors.Wrap(err, "span start")
	}
	end, err := strconv.Atoi(values[1])
	if err != nil {
		return 0, 0, errors.Wrap(err, "span end")
	}
	return start, end, nil
}
