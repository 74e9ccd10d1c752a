package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"ferrite/internal/diag"
	"ferrite/internal/source"
	"ferrite/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// CacheKey identifies one check outcome: the input bytes plus every option
// that can change the diagnostics.
type CacheKey uint64

func (k CacheKey) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// cacheKey hashes data together with the effective options and the
// compiler version.
func cacheKey(path string, data []byte, opts Options) CacheKey {
	d := xxhash.New()
	_, _ = d.WriteString(version.Version)
	_, _ = d.WriteString("\x00" + filepath.ToSlash(path))
	_, _ = d.WriteString("\x00" + opts.Target.Name)
	_, _ = d.WriteString("\x00" + strconv.Itoa(int(opts.Target.PtrWidth)))
	_, _ = d.WriteString("\x00" + opts.Entry)
	_, _ = d.WriteString("\x00" + strconv.FormatBool(opts.NoPrelude))
	_, _ = d.WriteString("\x00" + strconv.Itoa(opts.MaxDepth))
	_, _ = d.WriteString("\x00" + strconv.Itoa(opts.MaxDiagnostics))
	_, _ = d.WriteString("\x00")
	_, _ = d.Write(data)
	return CacheKey(d.Sum64())
}

// DiskCache хранит результаты проверки входных документов на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the outcome of checking one input.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16 `msgpack:"schema"`

	Path   string `msgpack:"path"`
	Module string `msgpack:"module"`

	// Status
	Broken      bool               `msgpack:"broken"`
	Dropped     int                `msgpack:"dropped,omitempty"`
	Diagnostics []CachedDiagnostic `msgpack:"diagnostics"`
}

// CachedDiagnostic is a diagnostic detached from its FileSet. Spans keep
// their raw file ids; Check registers files in a fixed order so the ids
// stay valid across runs.
type CachedDiagnostic struct {
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Message  string       `msgpack:"msg"`
	Span     [3]uint32    `msgpack:"span"`
	Notes    []CachedNote `msgpack:"notes,omitempty"`
}

type CachedNote struct {
	Span    [3]uint32 `msgpack:"span"`
	Message string    `msgpack:"msg"`
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it when missing.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key CacheKey) string {
	// Для удобства читаемости/очистки — подкаталог "checks".
	return filepath.Join(c.dir, "checks", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of
// another schema version count as misses.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		*out = DiskPayload{}
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func packSpan(sp source.Span) [3]uint32 {
	return [3]uint32{uint32(sp.File), sp.Start, sp.End}
}

func unpackSpan(raw [3]uint32) source.Span {
	return source.Span{File: source.FileID(raw[0]), Start: raw[1], End: raw[2]}
}

// bagToPayload detaches the diagnostics of res for storage. Timing
// diagnostics are not cached.
func bagToPayload(res *Result) *DiskPayload {
	payload := &DiskPayload{
		Path:    res.Path,
		Module:  res.ModuleName,
		Broken:  res.Bag.HasErrors(),
		Dropped: res.Bag.Dropped(),
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Span:     packSpan(d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: packSpan(n.Span), Message: n.Msg})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

// payloadToBag restores the diagnostics of a cached outcome.
// usable rejects payloads written by a different tool or damaged on disk.
func (p *DiskPayload) usable() bool {
	for _, cd := range p.Diagnostics {
		if !diag.Severity(cd.Severity).Valid() {
			return false
		}
	}
	return true
}

func payloadToBag(payload *DiskPayload, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  unpackSpan(cd.Span),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: unpackSpan(n.Span), Msg: n.Message})
		}
		bag.Add(d)
	}
	if payload.Dropped > 0 {
		// переносим счётчик отброшенных диагностик
		overflow := diag.NewBag(0)
		for range payload.Dropped {
			overflow.Add(diag.Diagnostic{})
		}
		bag.Merge(overflow)
	}
	return bag
}
