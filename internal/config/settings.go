package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
	"github.com/handiism/pdf-batch-joiner/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Input settings
	BasePath    string `json:"base_path"`
	NewestFirst bool   `json:"newest_first"`

	// Merge settings
	Quality      string `json:"quality"` // high, medium, low, ultra-low, original
	DeleteSource bool   `json:"delete_source"`
	MinFileSize  int64  `json:"min_file_size"`
	MinImageSize int    `json:"min_image_size"` // pixels, smaller images are not recompressed

	// OCR settings
	EnableOCR   bool    `json:"enable_ocr"`
	OCRLanguage string  `json:"ocr_language"`
	OCRSkipText bool    `json:"ocr_skip_text"`
	OCRTimeout  float64 `json:"ocr_timeout"` // seconds
	OCRBackup   bool    `json:"ocr_backup"`

	// Run settings
	ProgressInterval  float64 `json:"progress_interval"`   // seconds
	PausePollInterval float64 `json:"pause_poll_interval"` // seconds
	EventBufferSize   int     `json:"event_buffer_size"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		BasePath:    filepath.Join(homeDir, "Documents", "Scans"),
		NewestFirst: true,

		Quality:      model.QualityMedium.String(),
		DeleteSource: false,
		MinFileSize:  100,
		MinImageSize: 100,

		EnableOCR:   false,
		OCRLanguage: "deu",
		OCRSkipText: true,
		OCRTimeout:  300,
		OCRBackup:   false,

		ProgressInterval:  2.0,
		PausePollInterval: 0.1,
		EventBufferSize:   256,
	}
}

// DefaultPath returns the settings file location under the user config
// directory, e.g. ~/.config/pdf-batch-joiner/settings.json on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "pdf-batch-joiner", "settings.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that the preset is known and that intervals and sizes
// are usable.
func (s *Settings) Validate() error {
	if _, err := model.ParseQuality(s.Quality); err != nil {
		return err
	}
	if s.MinFileSize < 0 {
		return errors.New("min_file_size must not be negative")
	}
	if s.MinImageSize < 1 {
		return errors.New("min_image_size must be at least 1")
	}
	if s.OCRTimeout <= 0 {
		return errors.New("ocr_timeout must be positive")
	}
	if s.ProgressInterval <= 0 {
		return errors.New("progress_interval must be positive")
	}
	if s.PausePollInterval <= 0 {
		return errors.New("pause_poll_interval must be positive")
	}
	if s.EventBufferSize < 1 {
		return errors.New("event_buffer_size must be at least 1")
	}
	if s.OCRLanguage == "" {
		return errors.New("ocr_language must not be empty")
	}
	return nil
}

// QualityPreset returns the parsed quality preset, falling back to medium
// for unknown names.
func (s *Settings) QualityPreset() model.Quality {
	q, _ := model.ParseQuality(s.Quality)
	return q
}

// OCRTimeoutDuration returns OCRTimeout as a time.Duration.
func (s *Settings) OCRTimeoutDuration() time.Duration {
	return seconds(s.OCRTimeout)
}

// ProgressIntervalDuration returns ProgressInterval as a time.Duration.
func (s *Settings) ProgressIntervalDuration() time.Duration {
	return seconds(s.ProgressInterval)
}

// PausePollDuration returns PausePollInterval as a time.Duration.
func (s *Settings) PausePollDuration() time.Duration {
	return seconds(s.PausePollInterval)
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
