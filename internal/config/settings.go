package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is matched by every settings error.
var ErrInvalid = errors.New("invalid configuration")

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Settings are the tunables of a status invocation.
type Settings struct {
	// RenameThreshold is the minimum similarity for rename and copy pairing.
	RenameThreshold float64

	// DetectCopies enables copy detection against modified files.
	DetectCopies bool

	// Fast skips rename and copy detection. Only valid at the terse tier.
	Fast bool

	// FingerprintWidth is the number of hex digits shown per fingerprint.
	FingerprintWidth int

	// Workers bounds parallel fingerprinting. Zero means one per CPU.
	Workers int

	// Color is one of auto, always or never.
	Color string

	// Pager overrides $PAGER for very-verbose output.
	Pager string

	// DebugLog is a file receiving debug logs. Empty disables them.
	DebugLog string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		RenameThreshold:  0.5,
		DetectCopies:     true,
		FingerprintWidth: 7,
		Color:            ColorAuto,
	}
}

// fileSettings mirrors Settings with optional fields so a file only
// overrides the keys it names.
type fileSettings struct {
	RenameThreshold  *float64 `yaml:"rename_threshold"`
	DetectCopies     *bool    `yaml:"detect_copies"`
	Fast             *bool    `yaml:"fast"`
	FingerprintWidth *int     `yaml:"fingerprint_width"`
	Workers          *int     `yaml:"workers"`
	Color            *string  `yaml:"color"`
	Pager            *string  `yaml:"pager"`
	DebugLog         *string  `yaml:"debug_log"`
}

// KeyError reports an invalid value or unreadable settings file.
type KeyError struct {
	Source string
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	switch {
	case e.Source != "" && e.Key != "":
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Key, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
}

// Is matches ErrInvalid.
func (e *KeyError) Is(target error) bool {
	return target == ErrInvalid
}

// Load layers the global file and the repository file over the defaults.
// globalPath must exist when required is true (an explicit --config);
// otherwise a missing file is skipped. repoRoot may be empty. Load returns
// the files that were applied.
func Load(globalPath string, required bool, repoRoot string) (Settings, []string, error) {
	s := Default()
	var applied []string

	ok, err := s.mergeFile(globalPath, required)
	if err != nil {
		return s, applied, err
	}
	if ok {
		applied = append(applied, globalPath)
	}

	if repoRoot != "" {
		repoPath := RepoConfig(repoRoot)
		ok, err := s.mergeFile(repoPath, false)
		if err != nil {
			return s, applied, err
		}
		if ok {
			applied = append(applied, repoPath)
		}
	}

	if err := s.Validate(); err != nil {
		return s, applied, err
	}
	return s, applied, nil
}

func (s *Settings) mergeFile(path string, required bool) (bool, error) {
	if path == "" {
		return false, nil
	}
	// #nosec G304 -- settings paths come from the user or the repo root
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return false, nil
		}
		return false, &KeyError{Source: path, Reason: err.Error()}
	}

	f, err := parseSettings(data)
	if err != nil {
		return false, &KeyError{Source: path, Reason: err.Error()}
	}
	s.apply(f)
	if err := s.Validate(); err != nil {
		var ke *KeyError
		if errors.As(err, &ke) {
			ke.Source = path
		}
		return false, err
	}
	return true, nil
}

func parseSettings(data []byte) (fileSettings, error) {
	var f fileSettings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fileSettings{}, err
	}
	return f, nil
}

func (s *Settings) apply(f fileSettings) {
	if f.RenameThreshold != nil {
		s.RenameThreshold = *f.RenameThreshold
	}
	if f.DetectCopies != nil {
		s.DetectCopies = *f.DetectCopies
	}
	if f.Fast != nil {
		s.Fast = *f.Fast
	}
	if f.FingerprintWidth != nil {
		s.FingerprintWidth = *f.FingerprintWidth
	}
	if f.Workers != nil {
		s.Workers = *f.Workers
	}
	if f.Color != nil {
		s.Color = *f.Color
	}
	if f.Pager != nil {
		s.Pager = *f.Pager
	}
	if f.DebugLog != nil {
		s.DebugLog = *f.DebugLog
	}
}

// Validate checks every key's range.
func (s Settings) Validate() error {
	if s.RenameThreshold <= 0 || s.RenameThreshold > 1 {
		return &KeyError{Key: "rename_threshold", Reason: fmt.Sprintf("must be in (0, 1], got %g", s.RenameThreshold)}
	}
	if s.FingerprintWidth < 4 || s.FingerprintWidth > 40 {
		return &KeyError{Key: "fingerprint_width", Reason: fmt.Sprintf("must be between 4 and 40, got %d", s.FingerprintWidth)}
	}
	if s.Workers < 0 {
		return &KeyError{Key: "workers", Reason: fmt.Sprintf("must not be negative, got %d", s.Workers)}
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return &KeyError{Key: "color", Reason: fmt.Sprintf("must be auto, always or never, got %q", s.Color)}
	}
	return nil
}

// Loader loads settings for a repository from a fixed global file.
type Loader struct {
	// Global is the global settings file.
	Global string

	// Required makes a missing global file an error.
	Required bool
}

// Load layers the global file and the repository's .vgl.yaml.
func (l Loader) Load(repoRoot string) (Settings, []string, error) {
	return Load(l.Global, l.Required, repoRoot)
}
