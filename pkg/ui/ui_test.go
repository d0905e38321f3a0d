package ui

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetQuietMode(false)
		SetNoColor(false)
	})
	return &buf
}

func TestPrintHelpers(t *testing.T) {
	buf := capture(t)

	PrintInfo("Target", "https://lensdump.com/a/1IhJr")
	PrintWarning("Slow down", 429)
	PrintError("Extraction failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "Target: https://lensdump.com/a/1IhJr\n")
	assert.Contains(t, out, "Slow down: 429\n")
	assert.Contains(t, out, "Extraction failed: boom\n")
}

func TestQuietModeKeepsErrors(t *testing.T) {
	buf := capture(t)
	SetQuietMode(true)

	PrintSuccess("done")
	PrintLogo()
	PrintError("broken")

	assert.Equal(t, "broken\n", buf.String())
	assert.True(t, IsQuietMode())
}

type recordingSender struct{ titles []string }

func (r *recordingSender) Send(title, _ string) error {
	r.titles = append(r.titles, title)
	return nil
}

func TestNotifier(t *testing.T) {
	buf := capture(t)
	sender := &recordingSender{}
	n := &Notifier{sender: sender}

	n.SendSuccess("COMPLETE", "12 files")
	n.SendError("FAILED", "2 files")

	assert.Equal(t, []string{"COMPLETE", "FAILED"}, sender.titles)
	assert.Contains(t, buf.String(), "COMPLETE: 12 files")
}

func TestProgressDisplay(t *testing.T) {
	buf := capture(t)
	p := NewProgressDisplay("1IhJr", false)

	p.Queued("a.png")
	p.Queued("b.png")
	p.Completed("a.png", 2048)
	p.Failed("b.png", errors.New("timeout"))
	p.Skipped("c.png")
	p.Complete()

	out := buf.String()
	assert.Contains(t, out, "1 errors")
	assert.Contains(t, out, "Downloaded 1 files from 1IhJr")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "1 already present")
	assert.Contains(t, out, "1 downloads failed")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 MB", formatBytes(1536*1024))
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h30m", formatDuration(90*time.Minute))
}
