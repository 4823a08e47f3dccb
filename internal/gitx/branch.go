package gitx

import (
	"context"
	"errors"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jonbarril/vgl/internal/status"
)

const opBranch = "read branch"

// Branch reads the current branch, its HEAD commit and how it compares with
// the configured upstream. Only local refs are consulted.
func (r *RepoReader) Branch(ctx context.Context) (status.Branch, error) {
	var b status.Branch
	fail := func(path string, err error) (status.Branch, error) {
		return status.Branch{}, &status.StateReadError{Op: opBranch, Path: path, Err: err}
	}

	ref, err := r.repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		sym, err := r.repo.Reference(plumbing.HEAD, false)
		if err != nil {
			return fail("HEAD", err)
		}
		b.Name = sym.Target().Short()
	case err != nil:
		return fail("HEAD", err)
	default:
		if ref.Name().IsBranch() {
			b.Name = ref.Name().Short()
		}
		b.Head = ref.Hash().String()
		commit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			return fail(b.Head, err)
		}
		b.Subject = subject(commit.Message)
	}

	if b.Local, err = r.localBranches(); err != nil {
		return fail("refs/heads", err)
	}

	if b.Name == "" {
		return b, nil
	}
	if err := r.upstream(ctx, &b); err != nil {
		return fail(b.Upstream, err)
	}
	r.log.Debug("branch read", "name", b.Name, "upstream", b.Upstream, "ahead", b.Ahead, "behind", b.Behind)
	return b, nil
}

func (r *RepoReader) localBranches() ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	sort.Strings(names)
	return names, err
}

// upstream fills the tracking fields of b from branch.<name>.remote and
// branch.<name>.merge.
func (r *RepoReader) upstream(ctx context.Context, b *status.Branch) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return err
	}
	bc, ok := cfg.Branches[b.Name]
	if !ok || bc.Remote == "" || bc.Merge == "" {
		return nil
	}

	refName := bc.Merge
	b.Upstream = bc.Merge.Short()
	if bc.Remote != "." {
		refName = plumbing.NewRemoteReferenceName(bc.Remote, bc.Merge.Short())
		b.Upstream = bc.Remote + "/" + bc.Merge.Short()
		if rc, ok := cfg.Remotes[bc.Remote]; ok && len(rc.URLs) > 0 {
			b.RemoteURL = rc.URLs[0]
		}
	}

	up, err := r.repo.Reference(refName, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		b.UpstreamGone = true
		return nil
	}
	if err != nil {
		return err
	}
	if b.Unborn() {
		b.Behind, err = r.countCommits(ctx, up.Hash(), nil)
		return err
	}

	head := plumbing.NewHash(b.Head)
	if head == up.Hash() {
		return nil
	}
	headSeen, err := r.ancestors(ctx, head)
	if err != nil {
		return err
	}
	upSeen, err := r.ancestors(ctx, up.Hash())
	if err != nil {
		return err
	}
	b.Ahead = difference(headSeen, upSeen)
	b.Behind = difference(upSeen, headSeen)
	return nil
}

// ancestors returns from and every commit reachable from it.
func (r *RepoReader) ancestors(ctx context.Context, from plumbing.Hash) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	_, err := r.countCommits(ctx, from, seen)
	return seen, err
}

func (r *RepoReader) countCommits(ctx context.Context, from plumbing.Hash, seen map[plumbing.Hash]bool) (int, error) {
	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if seen != nil {
			seen[c.Hash] = true
		}
		n++
		return nil
	})
	return n, err
}

func difference(a, b map[plumbing.Hash]bool) int {
	n := 0
	for h := range a {
		if !b[h] {
			n++
		}
	}
	return n
}

func subject(message string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(first)
}
