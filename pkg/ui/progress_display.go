package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay prints a single updating status line for one run
type ProgressDisplay struct {
	mu              sync.Mutex
	label           string
	queued          int
	downloadedCount int
	skipped         int
	current         string
	startTime       time.Time
	bytesDownloaded int64
	errors          int
	isDebug         bool
}

// NewProgressDisplay creates a progress display for the run named label
func NewProgressDisplay(label string, debug bool) *ProgressDisplay {
	return &ProgressDisplay{
		label:     label,
		startTime: time.Now(),
		isDebug:   debug,
	}
}

// Queued marks a file as submitted for download
func (p *ProgressDisplay) Queued(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queued++
	p.current = name
	if !p.isDebug {
		p.printProgress()
	}
}

// Completed marks a download as complete
func (p *ProgressDisplay) Completed(name string, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.downloadedCount++
	p.bytesDownloaded += size
	if p.isDebug {
		printf(false, "%s %s • %s\n", Green("✓"), name, formatBytes(size))
		return
	}
	p.printProgress()
}

// Skipped marks a file that was already present
func (p *ProgressDisplay) Skipped(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.skipped++
	if p.isDebug {
		printf(false, "%s %s\n", Dim("•"), Dim(name+" (skipped)"))
		return
	}
	p.printProgress()
}

// Failed marks a download as failed
func (p *ProgressDisplay) Failed(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errors++
	if p.isDebug {
		printf(true, "%s Failed: %s - %v\n", Red("✗"), name, err)
		return
	}
	p.printProgress()
}

func (p *ProgressDisplay) printProgress() {
	elapsed := time.Since(p.startTime)
	done := p.downloadedCount + p.skipped + p.errors

	barWidth := 20
	filled := 0
	if p.queued > 0 {
		filled = min(barWidth, done*barWidth/p.queued)
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("%s [%s] %d/%d • %.1f/min • %s",
		Cyan(p.label),
		bar,
		done,
		p.queued,
		float64(p.downloadedCount)/max(elapsed.Minutes(), 1.0/60),
		formatBytes(p.bytesDownloaded),
	)
	if p.current != "" {
		line += fmt.Sprintf(" • %s", p.current)
	}
	if p.errors > 0 {
		line += fmt.Sprintf(" • %s", Red(fmt.Sprintf("%d errors", p.errors)))
	}

	printf(false, "\r%s\r%s", strings.Repeat(" ", 120), line)
}

// Complete prints the run summary
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	printf(false, "\n\n%s Downloaded %d files from %s\n",
		Green("✓"),
		p.downloadedCount,
		p.label,
	)
	printf(false, "  %s %s in %s\n",
		Dim("•"),
		formatBytes(p.bytesDownloaded),
		formatDuration(elapsed),
	)
	if p.skipped > 0 {
		printf(false, "  %s %d already present\n", Dim("•"), p.skipped)
	}
	if p.errors > 0 {
		printf(true, "  %s %d downloads failed\n", Dim("•"), p.errors)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
