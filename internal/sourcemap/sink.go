// Package sourcemap collects generated → original position pairs while the
// emitter prints and encodes them as a version 3 source map.
//
// Columns on both sides are counted in UTF-16 code units. Original positions
// come from the source registry, so a sink is bound to one registered file and
// refuses spans that do not belong to it.
package sourcemap

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"mesozoic/internal/source"
)

var (
	// ErrRegistry reports a file whose registry base does not follow the
	// FileSet convention (first file at base 1, file registered in the set).
	ErrRegistry = errors.New("sourcemap: file does not match the source registry")
	// ErrSpan reports a span outside the bound file.
	ErrSpan = errors.New("sourcemap: span outside the source file")
)

type segment struct {
	genLine, genCol   uint32
	origLine, origCol uint32
}

// Sink receives mappings for one generated file.
type Sink struct {
	file     *source.File
	segments []segment
}

// NewSink binds a sink to file, which must be registered in fs.
func NewSink(fs *source.FileSet, file *source.File) (*Sink, error) {
	if fs == nil || file == nil || fs.Len() == 0 {
		return nil, ErrRegistry
	}
	if first := fs.Get(0); first == nil || first.Base != 1 {
		return nil, fmt.Errorf("%w: first file base is not 1", ErrRegistry)
	}
	reg := fs.Get(file.ID)
	if reg == nil || reg.Base != file.Base || len(reg.Content) != len(file.Content) {
		return nil, fmt.Errorf("%w: %s is registered with a different base", ErrRegistry, file.Path)
	}
	return &Sink{file: file}, nil
}

// File returns the bound source file.
func (s *Sink) File() *source.File { return s.file }

// Add maps the generated position (0-based line, UTF-16 column) to the start
// of sp. Synthesized spans are skipped. Mappings must arrive in generated
// order; a repeated generated position keeps the first mapping.
func (s *Sink) Add(genLine, genCol uint32, sp source.Span) error {
	if sp.IsDummy() {
		return nil
	}
	if sp.File != s.file.ID || sp.Start < s.file.Base || sp.Start > s.file.End() || sp.End > s.file.End() {
		return fmt.Errorf("%w: %s in %s", ErrSpan, sp, s.file.Path)
	}
	if n := len(s.segments); n > 0 {
		last := s.segments[n-1]
		if last.genLine == genLine && last.genCol == genCol {
			return nil
		}
		if genLine < last.genLine || (genLine == last.genLine && genCol < last.genCol) {
			return fmt.Errorf("sourcemap: mapping %d:%d arrives after %d:%d", genLine, genCol, last.genLine, last.genCol)
		}
	}
	line, col := s.file.UTF16LineCol(sp.Start)
	s.segments = append(s.segments, segment{genLine: genLine, genCol: genCol, origLine: line, origCol: col})
	return nil
}

// Len returns the number of recorded mappings.
func (s *Sink) Len() int { return len(s.segments) }

// Map encodes the recorded mappings. generated names the output file.
func (s *Sink) Map(generated string) (*Map, error) {
	mappings, err := s.encode()
	if err != nil {
		return nil, err
	}
	return &Map{
		Version:        3,
		File:           generated,
		Sources:        []string{s.file.Path},
		SourcesContent: []string{string(s.file.Content)},
		Names:          []string{},
		Mappings:       mappings,
	}, nil
}

func (s *Sink) encode() (string, error) {
	buf := make([]byte, 0, len(s.segments)*6)
	var line uint32
	var prevGenCol, prevOrigLine, prevOrigCol int64
	first := true
	for _, seg := range s.segments {
		for line < seg.genLine {
			buf = append(buf, ';')
			line++
			prevGenCol = 0
			first = true
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false

		genCol, err := safecast.Conv[int64](seg.genCol)
		if err != nil {
			return "", err
		}
		origLine, err := safecast.Conv[int64](seg.origLine)
		if err != nil {
			return "", err
		}
		origCol, err := safecast.Conv[int64](seg.origCol)
		if err != nil {
			return "", err
		}
		buf = appendVLQ(buf, genCol-prevGenCol)
		buf = appendVLQ(buf, 0) // один источник
		buf = appendVLQ(buf, origLine-prevOrigLine)
		buf = appendVLQ(buf, origCol-prevOrigCol)
		prevGenCol, prevOrigLine, prevOrigCol = genCol, origLine, origCol
	}
	return string(buf), nil
}
