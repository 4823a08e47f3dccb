package gitx

import (
	"context"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"golang.org/x/sync/errgroup"

	"github.com/jonbarril/vgl/internal/status"
)

// hashJob is one worktree record still waiting for its fingerprint.
type hashJob struct {
	idx     int
	path    string
	symlink bool
}

// worktreeWalk carries the state of one ListWorktree traversal.
type worktreeWalk struct {
	r       *RepoReader
	ctx     context.Context
	tracked map[string]*index.Entry
	dirs    map[string]bool
	records []status.PathRecord
	jobs    []hashJob
	reused  int
}

// ListWorktree walks the working tree. Tracked files are fingerprinted,
// reusing the index hash when size, mtime and mode still match the index.
// Ignored directories without tracked content collapse to one "dir/" record
// and nested repositories to one record marked NestedRepo. Ignored files are
// listed without a fingerprint.
func (r *RepoReader) ListWorktree(ctx context.Context) ([]status.PathRecord, error) {
	idx, err := r.loadIndex()
	if err != nil {
		return nil, err
	}

	w := &worktreeWalk{
		r:       r,
		ctx:     ctx,
		tracked: make(map[string]*index.Entry, len(idx.Entries)),
		dirs:    make(map[string]bool),
	}
	for _, e := range idx.Entries {
		w.tracked[e.Name] = e
		for dir := path.Dir(e.Name); dir != "."; dir = path.Dir(dir) {
			w.dirs[dir] = true
		}
	}

	if err := w.walk(""); err != nil {
		return nil, err
	}
	if err := r.fingerprint(ctx, w.records, w.jobs); err != nil {
		return nil, err
	}

	r.log.Debug("worktree listed", "records", len(w.records), "hashed", len(w.jobs), "reused", w.reused)
	sortRecords(w.records)
	return w.records, nil
}

func (w *worktreeWalk) walk(dir string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	fs := w.r.fs
	infos, err := fs.ReadDir(dir)
	if err != nil {
		return &status.StateReadError{Op: "list worktree", Path: displayDir(dir), Err: err}
	}

	for _, info := range infos {
		if info.Name() == gitignoreFile && !info.IsDir() {
			name := path.Join(dir, gitignoreFile)
			rules, err := readIgnoreFile(fs, name, name, splitDir(dir))
			if err != nil {
				return &status.StateReadError{Op: "read ignore rules", Path: name, Err: err}
			}
			w.r.ignores.add(rules)
		}
	}

	for _, info := range infos {
		name := info.Name()
		p := path.Join(dir, name)
		if name == ".git" {
			continue
		}

		switch {
		case info.IsDir():
			if err := w.visitDir(p); err != nil {
				return err
			}
		case info.Mode()&os.ModeSymlink != 0:
			w.addFile(p, info, status.ModeSymlink)
		case info.Mode().IsRegular():
			mode := status.ModeRegular
			if info.Mode()&0o111 != 0 {
				mode = status.ModeExecutable
			}
			w.addFile(p, info, mode)
		}
	}
	return nil
}

func (w *worktreeWalk) visitDir(p string) error {
	if e, ok := w.tracked[p]; ok && e.Mode == filemode.Submodule {
		// Submodules are reported at the commit the index records.
		w.records = append(w.records, status.PathRecord{Path: p, Hash: e.Hash.String(), Mode: status.ModeGitlink})
		return nil
	}
	if _, err := w.r.fs.Lstat(path.Join(p, ".git")); err == nil {
		w.records = append(w.records, status.PathRecord{Path: p + "/", Mode: status.ModeDir, NestedRepo: true})
		return nil
	}
	if !w.dirs[p] && w.r.IsIgnored(p, true) {
		w.records = append(w.records, status.PathRecord{Path: p + "/", Mode: status.ModeDir})
		return nil
	}
	return w.walk(p)
}

func (w *worktreeWalk) addFile(p string, info os.FileInfo, mode status.FileMode) {
	rec := status.PathRecord{Path: p, Mode: mode, Size: info.Size()}
	e, tracked := w.tracked[p]

	switch {
	case !tracked && w.r.IsIgnored(p, false):
	case tracked && statMatches(e, info, mode):
		rec.Hash = e.Hash.String()
		w.reused++
	default:
		w.jobs = append(w.jobs, hashJob{idx: len(w.records), path: p, symlink: mode == status.ModeSymlink})
	}
	w.records = append(w.records, rec)
}

// statMatches reports whether the index stat data still describes the file.
func statMatches(e *index.Entry, info os.FileInfo, mode status.FileMode) bool {
	if e.ModifiedAt.IsZero() || convertMode(e.Mode) != mode {
		return false
	}
	return int64(e.Size) == info.Size() && e.ModifiedAt.Equal(info.ModTime())
}

// fingerprint hashes the pending records in parallel, bounded by Workers.
func (r *RepoReader) fingerprint(ctx context.Context, records []status.PathRecord, jobs []hashJob) error {
	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, job := range jobs {
		job := job // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := r.hashPath(job)
			if err != nil {
				return &status.StateReadError{Op: "hash worktree", Path: job.path, Err: err}
			}
			records[job.idx].Hash = h
			return nil
		})
	}
	return g.Wait()
}

// hashPath fingerprints a file, or a symlink by its target as git stores it.
func (r *RepoReader) hashPath(job hashJob) (string, error) {
	if !job.symlink {
		return r.hasher.HashFile(r.fs, job.path)
	}
	target, err := r.fs.Readlink(job.path)
	if err != nil {
		return "", fmt.Errorf("failed to read link: %w", err)
	}
	return r.hasher.HashBytes([]byte(target)), nil
}

func splitDir(dir string) []string {
	if dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
