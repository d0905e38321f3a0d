package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lensdl/pkg/config"
)

// Manager renders output paths and writes files under the base directory
type Manager struct {
	baseDir          string
	directoryPattern string
	filenamePattern  string
	overwrite        bool

	templates map[string]*Template
	saved     map[string]bool
	mu        sync.RWMutex
}

// NewManager creates the base directory and returns a manager for it
func NewManager(cfg config.OutputConfig) (*Manager, error) {
	if err := os.MkdirAll(cfg.BaseDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		baseDir:          cfg.BaseDirectory,
		directoryPattern: cfg.DirectoryPattern,
		filenamePattern:  cfg.FileNamePattern,
		overwrite:        cfg.OverwriteExisting,
		templates:        make(map[string]*Template),
		saved:            make(map[string]bool),
	}, nil
}

func (m *Manager) template(src string) (*Template, error) {
	m.mu.RLock()
	t, ok := m.templates[src]
	m.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := Compile(src)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.templates[src] = t
	m.mu.Unlock()
	return t, nil
}

// Directory renders the directory segments for data below the base
// directory. A configured directory pattern (split with SplitPattern)
// replaces segments.
func (m *Manager) Directory(segments []string, data map[string]any) (string, error) {
	if m.directoryPattern != "" {
		segments = SplitPattern(m.directoryPattern)
	}

	parts := []string{m.baseDir}
	for _, seg := range segments {
		t, err := m.template(seg)
		if err != nil {
			return "", err
		}
		if name := Sanitize(t.Render(data)); name != "" {
			parts = append(parts, name)
		}
	}
	return filepath.Join(parts...), nil
}

// Filename renders the file name for data. A configured file name
// pattern replaces pattern.
func (m *Manager) Filename(pattern string, data map[string]any) (string, error) {
	if m.filenamePattern != "" {
		pattern = m.filenamePattern
	}
	t, err := m.template(pattern)
	if err != nil {
		return "", err
	}
	name := Sanitize(t.Render(data))
	if name == "" {
		return "", fmt.Errorf("file name template %q rendered empty", pattern)
	}
	return name, nil
}

// Exists reports whether path should be skipped because a file is
// already there and overwriting is off.
func (m *Manager) Exists(path string) bool {
	if m.overwrite {
		return false
	}
	m.mu.RLock()
	seen := m.saved[path]
	m.mu.RUnlock()
	if seen {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

// Save writes r to path through a temporary file and an atomic rename
func (m *Manager) Save(path string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	n, err := io.Copy(out, r)
	closeErr := out.Close()
	if err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to write file data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.saved[path] = true
	m.mu.Unlock()
	return n, nil
}

// BaseDir returns the output base directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// SavedCount returns the number of files written by this manager
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

var unsafeChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize makes s usable as a single path segment
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	s = unsafeChars.Replace(s)
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ". ")
	if s == "." || s == ".." {
		return ""
	}
	return s
}
