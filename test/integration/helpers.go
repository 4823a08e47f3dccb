package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jonbarril/vgl/internal/config"
	"github.com/jonbarril/vgl/internal/engine"
	"github.com/jonbarril/vgl/internal/gitx"
	"github.com/jonbarril/vgl/internal/render"
	"github.com/jonbarril/vgl/internal/status"
	"github.com/jonbarril/vgl/internal/verbosity"
)

// testRepo is an on-disk repository driven through go-git.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
}

// newTestRepo initializes a repository in a temporary directory and keeps
// the user's global settings out of the test.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) write(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}
}

func (r *testRepo) remove(name string) {
	r.t.Helper()
	if err := os.Remove(filepath.Join(r.dir, filepath.FromSlash(name))); err != nil {
		r.t.Fatalf("failed to remove %s: %v", name, err)
	}
}

func (r *testRepo) worktree() *git.Worktree {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to get worktree: %v", err)
	}
	return wt
}

// rm deletes paths from the index and the working tree.
func (r *testRepo) rm(names ...string) {
	r.t.Helper()
	wt := r.worktree()
	for _, name := range names {
		if _, err := wt.Remove(name); err != nil {
			r.t.Fatalf("failed to remove %s: %v", name, err)
		}
	}
}

// add stages paths.
func (r *testRepo) add(names ...string) {
	r.t.Helper()
	wt := r.worktree()
	for _, name := range names {
		if _, err := wt.Add(name); err != nil {
			r.t.Fatalf("failed to add %s: %v", name, err)
		}
	}
}

func (r *testRepo) commit(msg string) {
	r.t.Helper()
	_, err := r.worktree().Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		r.t.Fatalf("failed to commit: %v", err)
	}
}

// status runs the engine with the real repository reader and renders the
// report.
func (r *testRepo) status(req engine.StatusRequest) (*engine.StatusResult, render.Output) {
	r.t.Helper()
	loader := config.Loader{Global: filepath.Join(r.t.TempDir(), "config.yaml")}
	eng := engine.New(gitx.NewRealGitRepo(), loader, nil)

	if req.CWD == "" {
		req.CWD = r.dir
	}
	result, err := eng.Status(context.Background(), &req)
	if err != nil {
		r.t.Fatalf("Status() error = %v", err)
	}
	out, err := render.Render(result.Report, result.Tier, result.Format, render.Options{
		FingerprintWidth: result.Settings.FingerprintWidth,
	})
	if err != nil {
		r.t.Fatalf("Render() error = %v", err)
	}
	return result, out
}

// entry returns the entry for path.
func entry(t *testing.T, report *status.StatusReport, path string) status.StatusEntry {
	t.Helper()
	for _, e := range report.Entries() {
		if e.Path == path {
			return e
		}
	}
	t.Fatalf("no entry for %s", path)
	return status.StatusEntry{}
}

func terse() engine.StatusRequest { return engine.StatusRequest{} }

func tier(t verbosity.Tier) engine.StatusRequest {
	return engine.StatusRequest{Verbosity: int(t)}
}
