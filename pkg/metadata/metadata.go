// Package metadata writes and reads the JSON sidecar stored next to each
// downloaded file.
package metadata

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Extension is appended to the file path to form the sidecar path
const Extension = ".json"

// FileMetadata is the content of one sidecar
type FileMetadata struct {
	// Core identifiers
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	ID          string `json:"id"`
	URL         string `json:"url"`

	// File properties
	Filename  string `json:"filename"`
	Extension string `json:"extension"`
	FileSize  int64  `json:"file_size,omitempty"`

	DownloadedAt time.Time `json:"downloaded_at"`

	// Data is the complete keyword map of the message
	Data map[string]any `json:"data"`
}

// FromMessage builds the sidecar for a downloaded URL message
func FromMessage(url string, data map[string]any, fileSize int64) *FileMetadata {
	str := func(key string) string {
		s, _ := data[key].(string)
		return s
	}
	return &FileMetadata{
		Category:     str("category"),
		Subcategory:  str("subcategory"),
		ID:           str("id"),
		URL:          url,
		Filename:     str("filename"),
		Extension:    str("extension"),
		FileSize:     fileSize,
		DownloadedAt: time.Now().UTC(),
		Data:         data,
	}
}

// Path returns the sidecar path for filePath
func Path(filePath string) string {
	return filePath + Extension
}

// Save writes the metadata next to filePath
func (m *FileMetadata) Save(filePath string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(Path(filePath), data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// Load reads the sidecar of filePath
func Load(filePath string) (*FileMetadata, error) {
	data, err := os.ReadFile(Path(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta FileMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// Exists checks if a sidecar exists for filePath
func Exists(filePath string) bool {
	_, err := os.Stat(Path(filePath))
	return err == nil
}
