package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensdl/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info level", &config.LoggingConfig{Level: "info"}, false},
		{"debug level", &config.LoggingConfig{Level: "debug"}, false},
		{"invalid level", &config.LoggingConfig{Level: "invalid"}, true},
		{"file output", &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "lensdl.log")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lensdl.log")
	l, err := New(&config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)

	l.WithField("gallery_id", "1IhJr").Info("album found")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gallery_id":"1IhJr"`)
	assert.Contains(t, string(data), `"app":"lensdl"`)
	assert.Contains(t, string(data), `"message":"album found"`)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown warn")
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	base := l.WithField("component", "walker")
	base.
		WithField("page", 2).
		WithFields(map[string]interface{}{"url": "https://lensdump.com/a/x?page=2"}).
		Info("page fetched")

	out := buf.String()
	assert.Contains(t, out, `"component":"walker"`)
	assert.Contains(t, out, `"page":2`)
	assert.Contains(t, out, `"url":"https://lensdump.com/a/x?page=2"`)

	// derived loggers do not leak fields back into their parent
	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), `"page"`)
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	assert.Same(t, l, l.WithError(nil))

	l.WithError(errors.New("connection reset")).Error("fetch failed")
	assert.Contains(t, buf.String(), `"error":"connection reset"`)
}

func TestFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.InfoWithFields("types", map[string]interface{}{
		"str":      "x",
		"int64":    int64(456),
		"float":    1.5,
		"bool":     true,
		"time":     time.Date(2022, 8, 1, 8, 24, 28, 0, time.UTC),
		"duration": 5 * time.Second,
		"strings":  []string{"a", "b"},
		"err":      errors.New("boom"),
		"custom":   struct{ Name string }{Name: "n"},
	})

	out := buf.String()
	assert.Contains(t, out, `"int64":456`)
	assert.Contains(t, out, `"bool":true`)
	assert.Contains(t, out, `"strings":["a","b"]`)
	assert.Contains(t, out, `"err":"boom"`)
	assert.Contains(t, out, `"Name":"n"`)
}

func TestHelpers(t *testing.T) {
	tl := NewTestLogger()

	LogRequest(tl, "GET", "https://lensdump.com/i/x", 200, 15*time.Millisecond)
	LogRequest(tl, "GET", "https://lensdump.com/i/y", 404, time.Millisecond)
	LogRequest(tl, "GET", "https://lensdump.com/i/z", 503, time.Millisecond)
	LogDownload(tl, "lensdumpx", "/tmp/x.png", 10, nil)
	LogDownload(tl, "lensdumpy", "/tmp/y.png", 0, errors.New("disk full"))
	LogSkip(tl, "lensdumpz", "archived")

	assert.Len(t, tl.GetMessagesByLevel("DEBUG"), 2)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 1)
	assert.Len(t, tl.GetMessagesByLevel("ERROR"), 2)
	assert.True(t, tl.HasMessage("Download completed"))

	for _, m := range tl.GetMessagesByLevel("ERROR") {
		if m.Message == "Download failed" {
			assert.EqualError(t, m.Error, "disk full")
			assert.Equal(t, "lensdumpy", m.Fields["key"])
		}
	}
}

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger()
	child := tl.WithField("a", 1).WithFields(map[string]interface{}{"b": 2})
	child.Info("child")
	tl.Warn("parent")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, msgs[0].Fields)
	assert.Empty(t, msgs[1].Fields)
	assert.False(t, tl.HasError())

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "debug", File: filepath.Join(t.TempDir(), "g.log")}))
	assert.NotNil(t, GetLogger())

	tl := NewTestLogger()
	SetLogger(tl)
	defer SetLogger(NewNopLogger())

	Info("global info")
	Error("global error")
	assert.True(t, tl.HasMessage("global info"))
	assert.True(t, tl.HasError())
}
