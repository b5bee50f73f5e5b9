package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/unicode"
)

// FileSet is the source registry: it owns registered source units and maps
// positions back to files, lines and columns.
//
// The first registered file gets Base 1; every following file starts one past
// the end of the previous one, so positions of different files never overlap.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	next    uint32            // base для следующего файла
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 1),
		index: make(map[string]FileID),
		next:  1,
	}
}

// SetBaseDir sets the directory used to render relative paths.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the base directory, falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a file, computes LineIdx and Hash, assigns a Base and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("file %q too large: %w", path, err))
	}
	base := fileSet.next
	if base > ^uint32(0)-size-1 {
		panic(fmt.Errorf("position space exhausted adding %q", path))
	}
	fileSet.next = base + size + 1

	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		Base:    base,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, decodes UTF-16 input, strips the BOM,
// normalizes CRLF and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags, err := Decode(content)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return fileSet.Add(path, content, flags), nil
}

var (
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// Decode converts raw file bytes to the UTF-8 text the lexer expects.
// UTF-16 input is recognized by its byte order mark.
func Decode(content []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	if bytes.HasPrefix(content, utf16LEBOM) || bytes.HasPrefix(content, utf16BEBOM) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(content)
		if err != nil {
			return nil, 0, fmt.Errorf("decode utf-16: %w", err)
		}
		content = out
		flags |= FileTranscodedUTF16 | FileHadBOM
	}
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags, nil
}

// AddVirtual adds an in-memory file with the FileVirtual flag. The content is
// registered verbatim.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of registered files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath returns the latest file registered under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// FileOf returns the file whose position range holds pos.
func (fileSet *FileSet) FileOf(pos uint32) (*File, bool) {
	if pos == NoPos {
		return nil, false
	}
	for i := range fileSet.files {
		f := &fileSet.files[i]
		if pos >= f.Base && pos <= f.End() {
			return f, true
		}
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
// Dummy spans resolve to the zero LineCol.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	if span.IsDummy() || int(span.File) >= len(fileSet.files) {
		return LineCol{}, LineCol{}
	}
	f := &fileSet.files[span.File]
	return f.LineCol(span.Start), f.LineCol(span.End)
}

// End returns the position one past the last byte of the file.
func (f *File) End() uint32 {
	return f.Base + uint32(len(f.Content))
}

// Pos converts a byte offset into a position.
func (f *File) Pos(off int) uint32 {
	return f.Base + uint32(off)
}

// Offset converts a position into a byte offset, clamped to the content.
func (f *File) Offset(pos uint32) uint32 {
	if pos < f.Base {
		return 0
	}
	off := pos - f.Base
	if n := uint32(len(f.Content)); off > n {
		return n
	}
	return off
}

// Span builds a span from byte offsets.
func (f *File) Span(start, end int) Span {
	return Span{File: f.ID, Start: f.Pos(start), End: f.Pos(end)}
}

// Text returns the source bytes covered by span.
func (f *File) Text(span Span) string {
	if span.IsDummy() {
		return ""
	}
	return string(f.Content[f.Offset(span.Start):f.Offset(span.End)])
}

// LineCol converts a position into 1-based line and byte column.
func (f *File) LineCol(pos uint32) LineCol {
	return toLineCol(f.LineIdx, f.Offset(pos))
}

// UTF16LineCol converts a position into a 0-based line and a 0-based column
// counted in UTF-16 code units, the unit source maps use.
func (f *File) UTF16LineCol(pos uint32) (line, col uint32) {
	off := f.Offset(pos)
	l := lineOf(f.LineIdx, off)
	start := f.LineIdx[l]
	return uint32(l), utf16Len(f.Content[start:off])
}

// GetLine returns the text of the 1-based line lineNum without its terminator.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineIdx) {
		return ""
	}
	start := f.LineIdx[lineNum-1]
	end := uint32(len(f.Content))
	if int(lineNum) < len(f.LineIdx) {
		end = f.LineIdx[lineNum]
	}
	line := f.Content[start:end]
	line = bytes.TrimRight(line, "\r\n")
	line = bytes.TrimSuffix(line, []byte("\u2028"))
	line = bytes.TrimSuffix(line, []byte("\u2029"))
	return string(line)
}

// FormatPath renders the file path. mode is one of "absolute", "relative",
// "basename" or "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path
	case "relative":
		if f.Flags&FileVirtual != 0 {
			return f.Path
		}
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)
	default:
		return f.Path
	}
}
