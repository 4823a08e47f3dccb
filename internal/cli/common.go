package cli

import (
	"fmt"

	"github.com/jonbarril/vgl/internal/config"
	"github.com/jonbarril/vgl/internal/engine"
)

// newEngine creates an engine over the app's repository access and logger.
// An explicit --config file must exist; the default one may be missing.
func (a *app) newEngine() (*engine.Engine, error) {
	loader := config.Loader{Global: a.configPath, Required: true}
	if loader.Global == "" {
		paths, err := config.DefaultPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get config paths: %w", err)
		}
		loader = config.Loader{Global: paths.Config}
	}

	return engine.New(a.gitRepo, loader, a.log), nil
}
