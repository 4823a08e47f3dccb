// Package config manages vgl configuration and its filesystem locations.
//
// Settings are layered: built-in defaults, then the global config file
// ($VGL_HOME/config.yaml, default $XDG_CONFIG_HOME/vgl/config.yaml), then a
// repository-local .vgl.yaml at the repository root. Command-line flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RepoConfigName is the repository-local settings file at the repo root.
const RepoConfigName = ".vgl.yaml"

// Paths contains the filesystem paths used by vgl.
type Paths struct {
	// Root is the base directory for vgl configuration (default: $XDG_CONFIG_HOME/vgl)
	Root string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for vgl.
// Paths can be overridden with environment variables:
// - VGL_HOME: Override the root directory
// - XDG_CONFIG_HOME: Base of the default root
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("VGL_HOME")
	if root == "" {
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
		root = filepath.Join(base, "vgl")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}

// RepoConfig returns the path of the repository-local settings file.
func RepoConfig(repoRoot string) string {
	return filepath.Join(repoRoot, RepoConfigName)
}
