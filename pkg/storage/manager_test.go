package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensdl/pkg/config"
)

func TestTemplateRender(t *testing.T) {
	title := "MYOBI clovis"
	data := map[string]any{
		"category":   "lensdump",
		"gallery_id": "1IhJr",
		"id":         "tyoAyM",
		"num":        7,
		"extension":  "webp",
		"title":      title,
		"empty":      "",
		"width":      nil,
		"date":       time.Date(2022, 8, 1, 8, 24, 28, 0, time.UTC),
	}

	tests := []struct {
		tmpl string
		want string
	}{
		{"{category}_{gallery_id}_{num:>03}.{extension}", "lensdump_1IhJr_007.webp"},
		{"{category}_{id}{title:?_//}.{extension}", "lensdump_tyoAyM_MYOBI clovis.webp"},
		{"{category}_{id}{empty:?_//}.{extension}", "lensdump_tyoAyM.webp"},
		{"{category}_{id}{missing:?[/]/}", "lensdump_tyoAyM"},
		{"{id}{title:?[/]/}", "tyoAyM[MYOBI clovis]"},
		{"{num:*^5}", "**7**"},
		{"{num:<4}|", "7   |"},
		{"{num:04}", "0007"},
		{"{width}x", "x"},
		{"{date}", "2022-08-01 08:24:28"},
		{"{{literal}}", "{literal}"},
		{"{num:>1}", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			tmpl, err := Compile(tt.tmpl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tmpl.Render(data))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{"{id", "{}", "id}", "{title:?_/}", "{num:>x}"} {
		_, err := Compile(src)
		assert.Error(t, err, src)
	}
	assert.Panics(t, func() { MustCompile("{") })
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a_b_c", Sanitize("a/b\\c"))
	assert.Equal(t, "what_", Sanitize("what?"))
	assert.Equal(t, "tab", Sanitize("t\tab"))
	assert.Equal(t, "name", Sanitize("  name.. "))
	assert.Empty(t, Sanitize(".."))
	assert.Empty(t, Sanitize("   "))
}

func newManager(t *testing.T, mutate func(*config.OutputConfig)) *Manager {
	t.Helper()
	cfg := config.OutputConfig{BaseDirectory: filepath.Join(t.TempDir(), "out")}
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestManagerPaths(t *testing.T) {
	m := newManager(t, nil)
	data := map[string]any{
		"category":   "lensdump",
		"gallery_id": "1IhJr",
		"title":      "Trip ../../etc",
		"num":        1,
		"extension":  "png",
	}

	dir, err := m.Directory([]string{"{category}", "{gallery_id} {title}"}, data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.BaseDir(), "lensdump", "1IhJr Trip .._.._etc"), dir)
	assert.True(t, strings.HasPrefix(dir, m.BaseDir()))

	name, err := m.Filename("{category}_{gallery_id}_{num:>03}.{extension}", data)
	require.NoError(t, err)
	assert.Equal(t, "lensdump_1IhJr_001.png", name)

	_, err = m.Filename("{missing}", data)
	assert.Error(t, err)
}

func TestManagerConfiguredPatterns(t *testing.T) {
	m := newManager(t, func(c *config.OutputConfig) {
		c.DirectoryPattern = "{category}/{gallery_id}"
		c.FileNamePattern = "{num}.{extension}"
	})
	data := map[string]any{"category": "lensdump", "gallery_id": "x", "num": 3, "extension": "jpg"}

	dir, err := m.Directory([]string{"ignored"}, data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.BaseDir(), "lensdump", "x"), dir)

	name, err := m.Filename("ignored", data)
	require.NoError(t, err)
	assert.Equal(t, "3.jpg", name)
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"{category}", []string{"{category}"}},
		{"{category}/{gallery_id} {title}", []string{"{category}", "{gallery_id} {title}"}},
		{"{category}/{title:?[/]/}", []string{"{category}", "{title:?[/]/}"}},
		{"{{literal}}/x", []string{"{{literal}}", "x"}},
		{"a//b", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitPattern(tt.pattern), tt.pattern)
	}
}

func TestManagerDirectoryPatternWithSlashInField(t *testing.T) {
	m := newManager(t, func(c *config.OutputConfig) {
		c.DirectoryPattern = "{category}/{title:?[/]/}"
	})

	dir, err := m.Directory(nil, map[string]any{"category": "lensdump", "title": "x"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.BaseDir(), "lensdump", "[x]"), dir)

	dir, err = m.Directory(nil, map[string]any{"category": "lensdump"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.BaseDir(), "lensdump"), dir)
}

func TestManagerSave(t *testing.T) {
	m := newManager(t, nil)
	path := filepath.Join(m.BaseDir(), "lensdump", "a.png")

	assert.False(t, m.Exists(path))
	n, err := m.Save(path, strings.NewReader("png data"))
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png data", string(content))
	assert.True(t, m.Exists(path))
	assert.Equal(t, 1, m.SavedCount())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestManagerExistsOnDisk(t *testing.T) {
	m := newManager(t, nil)
	path := filepath.Join(m.BaseDir(), "manual.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, m.Exists(path))

	overwrite := newManager(t, func(c *config.OutputConfig) { c.OverwriteExisting = true })
	assert.False(t, overwrite.Exists(path))
}
