package patch

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	cases := map[string]string{
		"foo/bar":         "foo/bar",
		"/foo//bar/":      "foo/bar",
		`foo\bar\\baz`:    "foo/bar/baz",
		"":                "",
		"///":             "",
		"patches/a.patch": "patches/a.patch",
	}
	for in, want := range cases {
		p, err := NewPath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p.String(), in)
	}

	_, err := NewPath("foo/../bar")
	assert.Error(t, err)

	p, _ := NewPath("a")
	joined := p.Join("b")
	p.Join("c")
	assert.Equal(t, "a/b", joined.String())
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	assert.Equal(t, MemoryStoreType, s.Type())

	_, err := s.Get("nope")
	assert.True(t, errors.Is(err, ErrNotfound))

	require.NoError(t, s.Put("a/b", strings.NewReader("hello")))
	r, err := s.Get("a/b")
	require.NoError(t, err)
	d, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(d))
}

func TestLocalStore(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, LocalStoreType, s.Type())

	_, err = s.Get("nope")
	assert.True(t, errors.Is(err, ErrNotfound))

	require.NoError(t, s.Put("a/b/c", strings.NewReader("hello")))
	r, err := s.Get("a/b/c")
	require.NoError(t, err)
	defer r.Close()
	d, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(d))
}

func TestSaveLoadPatch(t *testing.T) {
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	stores := []Store{NewMemoryStore(), local}
	comps := []string{CompressionNone, CompressionGzip}

	p := newTestPatch(t)
	sel, err := p.Select(Constraints{"distance": Pair{100, 200}, "time": Pair{5, -5}})
	require.NoError(t, err)

	for _, s := range stores {
		for _, comp := range comps {
			t.Run(s.Type()+"/"+comp, func(t *testing.T) {
				path := "patches/" + comp + "/sel"
				require.NoError(t, SavePatch(s, path, sel, ModeWrite, CompressionMeta{ID: comp}))

				got, err := LoadPatch(s, path)
				require.NoError(t, err)
				assertPatchEqual(t, sel, got)

				// the reloaded patch selects like the original
				a, err := got.Select(Constraints{"time": Pair{nil, 2}})
				require.NoError(t, err)
				b, err := sel.Select(Constraints{"time": Pair{nil, 2}})
				require.NoError(t, err)
				assert.Equal(t, b.Data().Values(), a.Data().Values())
			})
		}
	}
}

func TestSavePatchModes(t *testing.T) {
	s := NewMemoryStore()
	p := newTestPatch(t)

	require.NoError(t, SavePatch(s, "p", p, ModeWriteFail, CompressionMeta{}))
	err := SavePatch(s, "p", p, ModeWriteFail, CompressionMeta{})
	assert.True(t, errors.Is(err, ErrExists))
	require.NoError(t, SavePatch(s, "p", p, ModeWrite, CompressionMeta{}))

	assert.Error(t, SavePatch(s, "p", p, PersistenceMode("r"), CompressionMeta{}))
}

func TestLoadPatchMissing(t *testing.T) {
	_, err := LoadPatch(NewMemoryStore(), "nope")
	assert.True(t, errors.Is(err, ErrNotfound))
}

func TestLoadPatchShapeMismatch(t *testing.T) {
	s := NewMemoryStore()
	p := newTestPatch(t)
	require.NoError(t, SavePatch(s, "p", p, ModeWrite, CompressionMeta{}))

	other, err := p.Select(Constraints{"distance": Pair{0, 10}})
	require.NoError(t, err)
	require.NoError(t, SavePatch(s, "q", other, ModeWrite, CompressionMeta{}))

	// swap in data of the wrong shape
	r, err := s.Get("q/data")
	require.NoError(t, err)
	require.NoError(t, s.Put("p/data", r))

	_, err = LoadPatch(s, "p")
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func assertPatchEqual(t *testing.T, want, got *Patch) {
	t.Helper()
	assert.Equal(t, want.Dims(), got.Dims())
	assert.Equal(t, want.Shape(), got.Shape())
	assert.Equal(t, want.Data().Values(), got.Data().Values())
	for _, d := range want.Dims() {
		wc, _ := want.Coord(d)
		gc, ok := got.Coord(d)
		require.True(t, ok, d)
		assert.Equal(t, wc.Units, gc.Units)
		assert.Equal(t, wc.Values, gc.Values)
		require.Equal(t, len(wc.Times), len(gc.Times))
		for i := range wc.Times {
			assert.True(t, wc.Times[i].Equal(gc.Times[i]))
		}
	}
	wa, ga := want.Attrs(), got.Attrs()
	assert.Equal(t, wa.History(), ga.History())
	for k, v := range wa {
		assert.Contains(t, ga, k)
		if tv, ok := v.(time.Time); ok {
			assert.True(t, tv.Equal(ga[k].(time.Time)), k)
		}
	}
}

type unknownMeta struct{}

func (unknownMeta) MetaType() MetaType { return ".zextra" }

func TestPatchMetadataKeys(t *testing.T) {
	s := NewMemoryStore()
	p := newTestPatch(t)
	require.NoError(t, SavePatch(s, "a/p", p, ModeWrite, CompressionMeta{}))

	for _, m := range []MetaTyper{Attrs{}, &PatchMeta{}} {
		key := metaPath(Path{"a", "p"}, m)
		mt, ok := KeyMetaType(key)
		require.True(t, ok, key)
		assert.Equal(t, m.MetaType(), mt)

		r, err := s.Get(key)
		require.NoError(t, err, key)
		r.Close()
	}

	root := Path{"a", "p"}
	assert.Error(t, writeMeta(s, root, unknownMeta{}))
	assert.Error(t, readMeta(s, root, unknownMeta{}))
	_, err := s.Get("a/p/.zextra")
	assert.True(t, errors.Is(err, ErrNotfound))
}
