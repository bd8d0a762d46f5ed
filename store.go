package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	MemoryStoreType   = "MemoryStore"
	LocalStoreType    = "LocalStore"
	dirPermissionBits = 0755
)

var (
	ErrNotfound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

type Store interface {
	Get(key string) (io.ReadCloser, error)
	Put(key string, val io.Reader) error
	Type() string
}

type MemoryStore struct {
	lk   sync.Mutex
	data map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: map[string][]byte{},
	}
}

func (s *MemoryStore) Type() string { return MemoryStoreType }

func (s *MemoryStore) Get(key string) (io.ReadCloser, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	d, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotfound, key)
	}
	return io.NopCloser(bytes.NewReader(d)), nil
}

func (s *MemoryStore) Put(key string, val io.Reader) error {
	d, err := io.ReadAll(val)
	if err != nil {
		return err
	}

	s.lk.Lock()
	defer s.lk.Unlock()
	s.data[key] = d

	return nil
}

type LocalStore struct {
	base string
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(base string) (*LocalStore, error) {
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(base, dirPermissionBits); err != nil {
		return nil, err
	}

	return &LocalStore{
		base: base,
	}, nil
}

func (s *LocalStore) Type() string { return LocalStoreType }

func (s *LocalStore) Get(key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.base, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotfound, key)
	}
	return f, err
}

func (s *LocalStore) Put(key string, val io.Reader) error {
	path := filepath.Join(s.base, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), dirPermissionBits); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, val); err != nil {
		f.Close()
		return err
	}
	if c, ok := val.(io.Closer); ok {
		if err := c.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

type PersistenceMode string

const (
	// Persistence mode:
	// ‘w’ means create (overwrite if exists)
	ModeWrite PersistenceMode = "w"
	// ‘w-’ means create (fail if exists).
	ModeWriteFail PersistenceMode = "w-"
)

type Path []string

// NewPath normalizes a logical store path:
// * Replace all backward slash characters with forward slash characters
// * Strip any leading and trailing "/" characters
// * Collapse any sequence of more than one "/" character into one
func NewPath(posix string) (Path, error) {
	posix = strings.ReplaceAll(posix, `\`, "/")
	var p Path
	for _, el := range strings.Split(posix, "/") {
		switch el {
		case "":
			continue
		case ".", "..":
			return nil, fmt.Errorf("invalid path element %q in %q", el, posix)
		}
		p = append(p, el)
	}
	return p, nil
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

func (p Path) Join(elems ...string) Path {
	out := make(Path, 0, len(p)+len(elems))
	return append(append(out, p...), elems...)
}

// SavePatch writes p under path in s. Data is encoded as an Arrow IPC stream
// and compressed as comp describes.
func SavePatch(s Store, path string, p *Patch, mode PersistenceMode, comp CompressionMeta) error {
	root, err := NewPath(path)
	if err != nil {
		return err
	}
	meta := newPatchMeta(p, comp)
	metaKey := metaPath(root, meta)

	switch mode {
	case ModeWrite:
	case ModeWriteFail:
		if f, err := s.Get(metaKey); err == nil {
			f.Close()
			return fmt.Errorf("%w: %s", ErrExists, metaKey)
		} else if !errors.Is(err, ErrNotfound) {
			return err
		}
	default:
		return fmt.Errorf("unsupported persistence mode %q", mode)
	}

	var data bytes.Buffer
	w, err := comp.Compressor(&data)
	if err != nil {
		return fmt.Errorf("compressor %q: %w", comp.ID, err)
	}
	if err := WriteArrow(w, p.data); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := s.Put(root.Join(dataKey).String(), &data); err != nil {
		return fmt.Errorf("writing data: %w", err)
	}

	if err := writeMeta(s, root, p.attrs); err != nil {
		return err
	}
	// metadata goes last so a partial write never looks like a saved patch
	return writeMeta(s, root, meta)
}

// LoadPatch reads a patch written by SavePatch.
func LoadPatch(s Store, path string) (*Patch, error) {
	root, err := NewPath(path)
	if err != nil {
		return nil, err
	}

	meta := &PatchMeta{}
	if err := readMeta(s, root, meta); err != nil {
		return nil, err
	}
	if meta.Format != FormatVersion {
		return nil, fmt.Errorf("unsupported patch format %d", meta.Format)
	}
	if meta.Dtype != float64Dtype {
		return nil, fmt.Errorf("%w: unsupported data dtype %s", ErrTypeMismatch, meta.Dtype)
	}

	attrs := Attrs{}
	if err := readMeta(s, root, &attrs); err != nil && !errors.Is(err, ErrNotfound) {
		return nil, err
	}

	f, err := s.Get(root.Join(dataKey).String())
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := meta.Compressor.Decompressor(f)
	if err != nil {
		return nil, fmt.Errorf("decompressor %q: %w", meta.Compressor.ID, err)
	}
	defer r.Close()
	data, err := ReadArrow(r)
	if err != nil {
		return nil, err
	}
	if !sameShape(data.Shape(), meta.Shape) {
		return nil, fmt.Errorf("%w: stored data has shape %v, metadata says %v", ErrShapeMismatch, data.Shape(), meta.Shape)
	}

	coords := make(map[string]Coord, len(meta.Coords))
	for name, cm := range meta.Coords {
		c, err := cm.coord()
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", name, err)
		}
		coords[name] = c
	}
	return New(data, meta.Dims, coords, attrs)
}

func metaPath(root Path, m MetaTyper) string {
	return root.Join(string(m.MetaType())).String()
}

// writeMeta stores m as JSON under root, keyed by its metadata type.
func writeMeta(s Store, root Path, m MetaTyper) error {
	key := metaPath(root, m)
	if _, ok := KeyMetaType(key); !ok {
		return fmt.Errorf("unsupported metadata type %q", m.MetaType())
	}
	d, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	if err := s.Put(key, bytes.NewReader(d)); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// readMeta decodes the metadata document of m's type under root into m.
func readMeta(s Store, root Path, m MetaTyper) error {
	key := metaPath(root, m)
	if _, ok := KeyMetaType(key); !ok {
		return fmt.Errorf("unsupported metadata type %q", m.MetaType())
	}
	f, err := s.Get(key)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(m); err != nil {
		return fmt.Errorf("reading %q: %w", key, err)
	}
	return nil
}
