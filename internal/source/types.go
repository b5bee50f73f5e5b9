package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (transpile call, stdin, test).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
	// FileTranscodedUTF16 marks input that was decoded from UTF-16 before registration.
	FileTranscodedUTF16
)

// NoPos is the position of synthesized nodes. Real positions start at 1.
const NoPos uint32 = 0

// File captures metadata and content for a single source unit.
//
// Positions handed out for a file are Base+offset, where offset is the byte
// offset into Content. Base is never zero, so position 0 always means "no position".
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Base    uint32
	LineIdx []uint32 // offsets of line starts, LineIdx[0] == 0
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
