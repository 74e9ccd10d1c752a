package source

type (
	// FileID uniquely identifies a source document within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source document.
	FileFlags uint8
)

const (
	// FileVirtual indicates the document was added from memory (test, embedded prelude).
	FileVirtual FileFlags = 1 << iota
	// FilePrelude marks the embedded standard prelude.
	FilePrelude
)

// File captures metadata for a single syntactic module document. Text is the
// original program text when the parser shipped it along; it may be empty.
type File struct {
	ID      FileID
	Path    string
	Text    []byte
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
