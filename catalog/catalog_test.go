package catalog

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCatalog opens a catalog in a temporary directory.
func newTestCatalog(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), DefaultFileName), opts...)
	require.NoError(t, err)
	return c
}

// writeDoc replaces the catalog document with raw content.
func writeDoc(t *testing.T, c *Catalog, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(c.Path(), []byte(content), 0600))
}

// --- Open ---

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	_, err := Open(path)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// --- Load / Save ---

func TestLoad_MissingDocument(t *testing.T) {
	c := newTestCatalog(t)
	m, err := c.Load()
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mapping
	}{
		{"empty", Mapping{}},
		{"single", Mapping{"report.pdf.enc": {OriginalFilename: "report.pdf", Size: 4128}}},
		{"many", Mapping{
			"a.enc":         {OriginalFilename: "a", Size: 32},
			"b.txt.enc":     {OriginalFilename: "b.txt", Size: 48},
			"résumé.md.enc": {OriginalFilename: "résumé.md", Size: 0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog(t)
			require.NoError(t, c.Save(tt.m))

			got, err := c.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.m, got)
		})
	}
}

func TestSave_NilMapping(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Save(nil))

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestSave_Format(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Save(Mapping{"ü<b>.enc": {OriginalFilename: "ü<b>", Size: 32}}))

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)

	want := "{\n" +
		"  \"ü<b>.enc\": {\n" +
		"    \"original_filename\": \"ü<b>\",\n" +
		"    \"size\": 32\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, want, string(data))
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	c := newTestCatalog(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Upsert(fmt.Sprintf("f%d.enc", i), Record{OriginalFilename: "f", Size: 32}))
	}

	entries, err := os.ReadDir(filepath.Dir(c.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"truncated", `{"a.enc": {"original_filename": "a", "si`},
		{"array", `[1, 2, 3]`},
		{"wrong field type", `{"a.enc": {"original_filename": "a", "size": "big"}}`},
		{"trailing garbage", `{} x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog(t)
			writeDoc(t, c, tt.content)

			m, err := c.Load()
			assert.ErrorIs(t, err, ErrParse)
			assert.NotNil(t, m)
			assert.Empty(t, m)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, c.Path(), pe.Path)
		})
	}
}

func TestLoad_NullDocument(t *testing.T) {
	c := newTestCatalog(t)
	writeDoc(t, c, "null")

	m, err := c.Load()
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestLoad_ExtraFieldsTolerated(t *testing.T) {
	c := newTestCatalog(t)
	writeDoc(t, c, `{"a.enc": {"original_filename": "a", "size": 32, "uploaded_by": "x"}}`)

	m, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, Record{OriginalFilename: "a", Size: 32}, m["a.enc"])
}

// --- Upsert ---

func TestUpsert_InsertAndReplace(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.Upsert("report.pdf.enc", Record{OriginalFilename: "report.pdf", Size: 32}))
	require.NoError(t, c.Upsert("other.enc", Record{OriginalFilename: "other", Size: 48}))
	require.NoError(t, c.Upsert("report.pdf.enc", Record{OriginalFilename: "report.pdf", Size: 64}))

	m, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, Mapping{
		"report.pdf.enc": {OriginalFilename: "report.pdf", Size: 64},
		"other.enc":      {OriginalFilename: "other", Size: 48},
	}, m)
}

func TestUpsert_EmptyID(t *testing.T) {
	c := newTestCatalog(t)
	assert.ErrorIs(t, c.Upsert("", Record{}), ErrEmptyID)
}

func TestUpsert_ResetsOnParseError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	c := newTestCatalog(t, WithLogger(logger))
	writeDoc(t, c, "{not json")

	require.NoError(t, c.Upsert("new.enc", Record{OriginalFilename: "new", Size: 32}))

	m, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, Mapping{"new.enc": {OriginalFilename: "new", Size: 32}}, m)
	assert.Contains(t, logs.String(), "discarding previous records")
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestUpsert_FailFastOnParseError(t *testing.T) {
	c := newTestCatalog(t, WithResetOnParseError(false))
	writeDoc(t, c, "{not json")

	err := c.Upsert("new.enc", Record{OriginalFilename: "new", Size: 32})
	assert.ErrorIs(t, err, ErrParse)

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "document must be left untouched")
}

func TestUpsert_ConcurrentNoLostUpdates(t *testing.T) {
	c := newTestCatalog(t)
	const goroutines = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			id := fmt.Sprintf("file-%02d.enc", idx)
			assert.NoError(t, c.Upsert(id, Record{OriginalFilename: id, Size: int64(idx)}))
		}(i)
	}
	wg.Wait()

	m, err := c.Load()
	require.NoError(t, err)
	assert.Len(t, m, goroutines)
}

// Two Catalog values on one document model two processes; the file lock
// must still serialise their read-modify-write cycles.
func TestUpsert_TwoHandlesSameDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	a, err := Open(path)
	require.NoError(t, err)
	b, err := Open(path)
	require.NoError(t, err)

	const perHandle = 10
	var wg sync.WaitGroup
	wg.Add(2)
	for name, c := range map[string]*Catalog{"a": a, "b": b} {
		go func(name string, c *Catalog) {
			defer wg.Done()
			for i := 0; i < perHandle; i++ {
				id := fmt.Sprintf("%s-%d.enc", name, i)
				assert.NoError(t, c.Upsert(id, Record{OriginalFilename: id, Size: 32}))
			}
		}(name, c)
	}
	wg.Wait()

	m, err := a.Load()
	require.NoError(t, err)
	assert.Len(t, m, 2*perHandle)
}

// --- Lookup / List ---

func TestLookup(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Upsert("report.pdf.enc", Record{OriginalFilename: "report.pdf", Size: 32}))

	rec, ok, err := c.Lookup("report.pdf.enc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "report.pdf", rec.OriginalFilename)

	_, ok, err = c.Lookup("missing.enc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookup_ParseErrorDegrades(t *testing.T) {
	var logs bytes.Buffer
	c := newTestCatalog(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	writeDoc(t, c, "garbage")

	_, ok, err := c.Lookup("report.pdf.enc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, strings.Contains(logs.String(), "lookup falls back"))
}

func TestList_Sorted(t *testing.T) {
	c := newTestCatalog(t)
	for _, id := range []string{"c.enc", "a.enc", "b.enc"} {
		require.NoError(t, c.Upsert(id, Record{OriginalFilename: strings.TrimSuffix(id, ".enc"), Size: 32}))
	}

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.enc", entries[0].StoredName)
	assert.Equal(t, "a", entries[0].OriginalFilename)
	assert.Equal(t, "c.enc", entries[2].StoredName)

	ids, err := c.IDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.enc", "b.enc", "c.enc"}, ids)
}

func TestList_ParseError(t *testing.T) {
	c := newTestCatalog(t)
	writeDoc(t, c, "[")

	_, err := c.List()
	assert.ErrorIs(t, err, ErrParse)
}
