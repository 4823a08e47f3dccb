package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jonbarril/vgl/internal/config"
	"github.com/jonbarril/vgl/internal/gitx"
	"github.com/jonbarril/vgl/internal/pathfilter"
	"github.com/jonbarril/vgl/internal/status"
	"github.com/jonbarril/vgl/internal/verbosity"
)

// statusPlan is a validated StatusRequest.
type statusPlan struct {
	tier   verbosity.Tier
	format verbosity.Format
}

// plan validates the flags of req. It reads no repository state.
func (req *StatusRequest) plan() (statusPlan, error) {
	tier, err := verbosity.FromCount(req.Verbosity)
	if err != nil {
		return statusPlan{}, &ArgumentError{Flag: "-v", Reason: err.Error()}
	}

	format, err := verbosity.ParseFormat(req.Format)
	if err != nil {
		return statusPlan{}, &ArgumentError{Flag: "--format", Reason: err.Error()}
	}
	if req.JSON {
		if req.Format != "" && format != verbosity.JSON {
			return statusPlan{}, &ArgumentError{Flag: "--json", Reason: fmt.Sprintf("conflicts with --format %s", format)}
		}
		format = verbosity.JSON
	}

	if req.Fast && tier != verbosity.Terse {
		return statusPlan{}, &ArgumentError{
			Flag:   "--fast",
			Reason: fmt.Sprintf("rename detection can only be skipped at the terse tier, not %s", tier),
		}
	}

	if t := req.RenameThreshold; t != nil && (*t <= 0 || *t > 1) {
		return statusPlan{}, &ArgumentError{Flag: "--rename-threshold", Reason: fmt.Sprintf("must be in (0, 1], got %g", *t)}
	}

	switch req.Color {
	case "", config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		return statusPlan{}, &ArgumentError{Flag: "--color", Reason: fmt.Sprintf("must be auto, always or never, got %q", req.Color)}
	}

	return statusPlan{tier: tier, format: format}, nil
}

// Status computes the status report of the repository enclosing the request
// directory. Flag errors are returned before the repository is touched.
func (e *Engine) Status(ctx context.Context, req *StatusRequest) (*StatusResult, error) {
	plan, err := req.plan()
	if err != nil {
		return nil, err
	}

	dir := req.CWD
	if req.Dir != "" {
		dir = req.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(req.CWD, dir)
		}
	}

	root, err := e.gitRepo.Discover(dir)
	if err != nil {
		if errors.Is(err, gitx.ErrNotRepository) {
			return nil, fmt.Errorf("%w: %s", ErrNotInRepo, dir)
		}
		return nil, fmt.Errorf("failed to discover repository: %w", err)
	}

	settings, files, err := e.settings.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	e.log.Info("settings loaded", "files", files)
	if settings.Fast && plan.tier != verbosity.Terse {
		e.log.Warn("fast setting ignored above the terse tier", "tier", plan.tier.String())
	}
	settings = plan.override(settings, req)

	prefix, err := e.gitRepo.RelPath(root, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to compute path within repository: %w", err)
	}

	filter, err := pathfilter.New(req.Patterns, prefix)
	if err != nil {
		return nil, &ArgumentError{Flag: "GLOB", Reason: err.Error()}
	}

	e.log.Debug("status requested",
		"root", root, "prefix", prefix, "tier", plan.tier.String(), "format", plan.format.String(),
		"fast", settings.Fast, "threshold", settings.RenameThreshold, "settings", files)

	provider, err := e.gitRepo.Open(ctx, root, gitx.Options{
		Workers:      settings.Workers,
		ExcludesFile: e.excludesFile(),
		Logger:       e.log,
	})
	if err != nil {
		return nil, err
	}

	snap, err := readSnapshot(ctx, provider)
	if err != nil {
		return nil, err
	}

	entries, err := status.Reconcile(snap, provider)
	if err != nil {
		return nil, err
	}

	detect := !settings.Fast && !req.NoRenames
	if detect {
		entries, err = status.DetectRenames(ctx, entries, provider, status.RenameOptions{
			Threshold:    settings.RenameThreshold,
			DetectCopies: settings.DetectCopies,
		})
		if err != nil {
			return nil, err
		}
	}

	branch, err := provider.Branch(ctx)
	if err != nil {
		return nil, err
	}

	report := status.Build(root, entries).WithBranch(branch)
	if !filter.Empty() {
		report = report.Filter(filter.Match)
	}
	e.log.Debug("status computed", "entries", report.Len(), "clean", report.Clean(), "renames", detect)

	return &StatusResult{
		Report:          report,
		Tier:            plan.tier,
		Format:          plan.format,
		Settings:        settings,
		SettingsFiles:   files,
		Prefix:          prefix,
		RenamesDetected: detect,
	}, nil
}

// override applies the request flags over the loaded settings. A configured
// fast mode only takes effect at the terse tier; an explicit --fast was
// already checked by plan.
func (p statusPlan) override(s config.Settings, req *StatusRequest) config.Settings {
	if req.RenameThreshold != nil {
		s.RenameThreshold = *req.RenameThreshold
	}
	if req.Color != "" {
		s.Color = req.Color
	}
	s.Fast = req.Fast || (s.Fast && p.tier == verbosity.Terse)
	return s
}

func readSnapshot(ctx context.Context, provider gitx.StateProvider) (status.Snapshot, error) {
	var (
		snap status.Snapshot
		err  error
	)
	if snap.Head, err = provider.ListHead(ctx); err != nil {
		return snap, err
	}
	if snap.Index, err = provider.ListIndex(ctx); err != nil {
		return snap, err
	}
	if snap.Worktree, err = provider.ListWorktree(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}
