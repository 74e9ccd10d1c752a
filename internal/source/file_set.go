package source

import (
	"fmt"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

// FileSet tracks every document taking part in one compilation.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 4),
		index: make(map[string]FileID),
	}
}

// Add registers a document and returns its FileID. text may be nil.
func (fs *FileSet) Add(path string, text []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	normalized := filepath.ToSlash(filepath.Clean(path))
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Text:    text,
		LineIdx: buildLineIndex(text),
		Flags:   flags,
	})
	// Всегда обновляем индекс на последнюю версию файла
	fs.index[normalized] = id
	return id
}

// AddVirtual adds an in-memory document (tests, embedded prelude).
func (fs *FileSet) AddVirtual(name string, text []byte) FileID {
	return fs.Add(name, text, FileVirtual)
}

// Get returns the document for id or nil when id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if fs == nil || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup finds a document by path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

// Len reports the number of registered documents.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Position resolves the start of span to a file path and line/column.
// When the document carries no text the column is the byte offset + 1.
func (fs *FileSet) Position(span Span) (string, LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>", LineCol{Line: 1, Col: span.Start + 1}
	}
	return f.Path, f.Resolve(span.Start)
}

// Resolve converts a byte offset to a 1-based line/column pair.
func (f *File) Resolve(off uint32) LineCol {
	if len(f.LineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	i := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] > off })
	if i == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	line, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	return LineCol{Line: line, Col: off - f.LineIdx[i-1] + 1}
}

// LineText returns the text of the 1-based line without its terminator.
func (f *File) LineText(line uint32) string {
	if line == 0 || int(line) > len(f.LineIdx) {
		return ""
	}
	start := f.LineIdx[line-1]
	end, err := safecast.Conv[uint32](len(f.Text))
	if err != nil {
		return ""
	}
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1
	}
	if end < start {
		return ""
	}
	return string(f.Text[start:end])
}

// buildLineIndex records the byte offset of every line start.
func buildLineIndex(text []byte) []uint32 {
	if len(text) == 0 {
		return nil
	}
	idx := []uint32{0}
	for i, b := range text {
		if b != '\n' {
			continue
		}
		next, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		idx = append(idx, next)
	}
	return idx
}
