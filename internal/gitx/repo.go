package gitx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/jonbarril/vgl/internal/status"
)

// ErrNotRepository is returned when no repository encloses a directory.
var ErrNotRepository = errors.New("not in a git repository")

// GitRepo locates repositories and opens them for status reads.
type GitRepo interface {
	// Discover finds the git repository root starting from cwd.
	Discover(cwd string) (root string, err error)

	// RelPath computes the relative path from repo root to the given absolute path.
	RelPath(root, absPath string) (string, error)

	// Open returns a state provider for the repository at root.
	Open(ctx context.Context, root string, opts Options) (StateProvider, error)
}

// RealGitRepo implements GitRepo on top of go-git.
type RealGitRepo struct{}

// NewRealGitRepo creates a new RealGitRepo.
func NewRealGitRepo() *RealGitRepo {
	return &RealGitRepo{}
}

// Discover finds the git repository root by walking up from cwd looking for .git.
func (g *RealGitRepo) Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	if info, err := os.Stat(absPath); err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", absPath, err)
	} else if !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			// .git can be a directory or a file (for worktrees/submodules)
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, cwd)
		}
		current = parent
	}
}

// RelPath computes the slash-separated path of absPath relative to root.
func (g *RealGitRepo) RelPath(root, absPath string) (string, error) {
	return relPath(root, absPath)
}

// Open opens the repository at root with go-git.
func (g *RealGitRepo) Open(_ context.Context, root string, opts Options) (StateProvider, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return nil, &status.StateReadError{Op: "open repository", Path: root, Err: err}
	}
	return NewRepoReader(repo, opts)
}

func relPath(root, absPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute root: %w", err)
	}

	absTarget, err := filepath.Abs(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute target: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside repository")
	}
	if rel == "." {
		return "", nil
	}

	return filepath.ToSlash(rel), nil
}

// FakeGitRepo implements GitRepo with a predetermined root and provider.
type FakeGitRepo struct {
	root     string
	provider StateProvider
	err      error
	opened   []Options
}

// NewFakeGitRepo creates a new FakeGitRepo.
func NewFakeGitRepo(root string, provider StateProvider) *FakeGitRepo {
	return &FakeGitRepo{root: root, provider: provider}
}

// SetError sets an error to be returned by Discover and Open.
func (g *FakeGitRepo) SetError(err error) {
	g.err = err
}

// Opened returns the options of every Open call.
func (g *FakeGitRepo) Opened() []Options {
	return g.opened
}

// Discover returns the predetermined root.
func (g *FakeGitRepo) Discover(cwd string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.root, nil
}

// RelPath computes the relative path (works like real implementation).
func (g *FakeGitRepo) RelPath(root, absPath string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return relPath(root, absPath)
}

// Open returns the predetermined provider.
func (g *FakeGitRepo) Open(_ context.Context, root string, opts Options) (StateProvider, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.opened = append(g.opened, opts)
	return g.provider, nil
}
