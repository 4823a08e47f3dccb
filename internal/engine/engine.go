// Package engine provides the core orchestration for vgl operations.
//
// The engine package acts as the layer between CLI commands and the status
// pipeline. It validates requests, discovers the repository, layers settings
// and runs the pipeline:
//
//   - Provider: list HEAD, index and worktree records
//   - Reconcile: merge the three sides into one entry per path
//   - DetectRenames: pair deletions and additions (skipped in fast mode)
//   - Build: assemble the immutable report with the branch state, then
//     narrow it to path filters
package engine

import (
	"github.com/jonbarril/vgl/internal/config"
	"github.com/jonbarril/vgl/internal/gitx"
	"github.com/jonbarril/vgl/internal/logging"
)

// SettingsLoader loads the layered settings for a repository root.
type SettingsLoader interface {
	Load(repoRoot string) (config.Settings, []string, error)
}

// Engine orchestrates all vgl operations.
// It is the main API surface called by the CLI.
type Engine struct {
	gitRepo  gitx.GitRepo
	settings SettingsLoader
	log      logging.Logger

	// excludesFile resolves the user's global ignore file.
	excludesFile func() string
}

// New creates a new Engine with the given dependencies. A nil logger
// discards output.
func New(gitRepo gitx.GitRepo, settings SettingsLoader, log logging.Logger) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{
		gitRepo:      gitRepo,
		settings:     settings,
		log:          log,
		excludesFile: gitx.GlobalExcludesFile,
	}
}
