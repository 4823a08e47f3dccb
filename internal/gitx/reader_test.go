package gitx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonbarril/vgl/internal/hash"
	"github.com/jonbarril/vgl/internal/status"
)

type memRepo struct {
	t    *testing.T
	repo *git.Repository
	fs   billy.Filesystem
	wt   *git.Worktree
}

func newMemRepo(t *testing.T) *memRepo {
	t.Helper()
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &memRepo{t: t, repo: repo, fs: fs, wt: wt}
}

func (m *memRepo) write(name, content string) {
	m.t.Helper()
	require.NoError(m.t, util.WriteFile(m.fs, name, []byte(content), 0o644))
}

func (m *memRepo) add(paths ...string) {
	m.t.Helper()
	for _, p := range paths {
		_, err := m.wt.Add(p)
		require.NoError(m.t, err)
	}
}

func (m *memRepo) commit(paths ...string) {
	m.t.Helper()
	m.add(paths...)
	_, err := m.wt.Commit("commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(m.t, err)
}

func (m *memRepo) reader(opts Options) *RepoReader {
	m.t.Helper()
	r, err := NewRepoReader(m.repo, opts)
	require.NoError(m.t, err)
	return r
}

// statusOf runs the reconciler over the reader's record sets.
func statusOf(t *testing.T, r *RepoReader) map[string]status.StatusEntry {
	t.Helper()
	ctx := context.Background()
	head, err := r.ListHead(ctx)
	require.NoError(t, err)
	idx, err := r.ListIndex(ctx)
	require.NoError(t, err)
	wt, err := r.ListWorktree(ctx)
	require.NoError(t, err)

	entries, err := status.Reconcile(status.Snapshot{Head: head, Index: idx, Worktree: wt}, r)
	require.NoError(t, err)

	out := make(map[string]status.StatusEntry, len(entries))
	for _, e := range entries {
		out[e.Path] = e
	}
	return out
}

func TestRepoReader_UnbornHead(t *testing.T) {
	m := newMemRepo(t)
	m.write("draft.txt", "hello")
	r := m.reader(Options{})

	head, err := r.ListHead(context.Background())
	require.NoError(t, err)
	assert.Empty(t, head)

	wt, err := r.ListWorktree(context.Background())
	require.NoError(t, err)
	require.Len(t, wt, 1)
	assert.Equal(t, "draft.txt", wt[0].Path)
	assert.Equal(t, hash.NewBlobHasher().HashBytes([]byte("hello")), wt[0].Hash)
	assert.Equal(t, int64(5), wt[0].Size)
}

func TestRepoReader_HeadAndIndexAgree(t *testing.T) {
	m := newMemRepo(t)
	m.write("README.md", "# readme\n")
	m.write("src/main.go", "package main\n")
	require.NoError(t, util.WriteFile(m.fs, "bin/run", []byte("#!/bin/sh\n"), 0o755))
	m.commit("README.md", "src/main.go", "bin/run")
	r := m.reader(Options{})

	head, err := r.ListHead(context.Background())
	require.NoError(t, err)
	idx, err := r.ListIndex(context.Background())
	require.NoError(t, err)

	require.Len(t, head, 3)
	require.Len(t, idx, 3)
	for i := range head {
		assert.Equal(t, head[i].Path, idx[i].Path)
		assert.Equal(t, head[i].Hash, idx[i].Hash)
		assert.Equal(t, head[i].Mode, idx[i].Mode)
		assert.Equal(t, 0, idx[i].Stage)
	}
	assert.Equal(t, []string{"README.md", "bin/run", "src/main.go"}, []string{head[0].Path, head[1].Path, head[2].Path})
	assert.Equal(t, status.ModeExecutable, head[1].Mode)
}

func TestRepoReader_StatusClassification(t *testing.T) {
	m := newMemRepo(t)
	for _, name := range []string{"a.txt", "b.txt", "d.txt", "e.txt"} {
		m.write(name, name+"\n")
	}
	m.write(".gitignore", "build/\n")
	m.commit("a.txt", "b.txt", "d.txt", "e.txt", ".gitignore")

	m.write("a.txt", "a.txt changed in worktree\n")
	m.write("b.txt", "b.txt changed and staged\n")
	m.add("b.txt")
	m.write("c.txt", "new file\n")
	m.add("c.txt")
	_, err := m.wt.Remove("d.txt")
	require.NoError(t, err)
	require.NoError(t, m.fs.Remove("e.txt"))
	m.write("u.txt", "untracked\n")
	m.write("build/out.o", "binary")
	m.write("build/sub/more.o", "binary")

	got := statusOf(t, m.reader(Options{Workers: 2}))

	codes := map[string]string{}
	for p, e := range got {
		codes[p] = e.Code()
	}
	assert.Equal(t, map[string]string{
		".gitignore": "  ",
		"a.txt":      " M",
		"b.txt":      "M ",
		"c.txt":      "A ",
		"d.txt":      "D ",
		"e.txt":      " D",
		"u.txt":      "??",
		"build/":     "!!",
	}, codes)
	assert.Equal(t, status.IgnoreMatch{Source: ".gitignore", Line: 1, Pattern: "build/"}, got["build/"].IgnoredBy)
}

func TestRepoReader_TrackedFileIgnoreRulesDoNotApply(t *testing.T) {
	m := newMemRepo(t)
	m.write("app.log", "start\n")
	m.commit("app.log")
	m.write(".gitignore", "*.log\n")
	m.commit(".gitignore")
	m.write("app.log", "start\nmore output\n")
	m.write("other.log", "noise\n")

	got := statusOf(t, m.reader(Options{}))

	assert.Equal(t, status.IndexUnmodified, got["app.log"].IndexState)
	assert.Equal(t, status.WorktreeModified, got["app.log"].WorktreeState)
	assert.True(t, got["app.log"].IgnoredBy.IsZero())
	assert.Equal(t, status.WorktreeIgnored, got["other.log"].WorktreeState)
}

func TestRepoReader_IgnoreRuleSources(t *testing.T) {
	m := newMemRepo(t)
	m.write(".gitignore", "# build outputs\n*.log\n!keep.log\n")
	m.write("sub/.gitignore", "local.txt\n")
	m.write("debug.log", "x")
	m.write("keep.log", "x")
	m.write("local.txt", "x")
	m.write("sub/local.txt", "x")
	m.write("sub/deep/local.txt", "x")

	r := m.reader(Options{})
	_, err := r.ListWorktree(context.Background())
	require.NoError(t, err)

	rule, ok := r.IgnoreRule("debug.log", false)
	require.True(t, ok)
	assert.Equal(t, status.IgnoreMatch{Source: ".gitignore", Line: 2, Pattern: "*.log"}, rule)

	assert.False(t, r.IsIgnored("keep.log", false), "negated rule re-includes")
	assert.False(t, r.IsIgnored("local.txt", false), "sub/.gitignore only applies beneath sub/")

	rule, ok = r.IgnoreRule("sub/deep/local.txt", false)
	require.True(t, ok)
	assert.Equal(t, "sub/.gitignore", rule.Source)
	assert.Equal(t, 1, rule.Line)
}

func TestRepoReader_NestedRepoAndSymlink(t *testing.T) {
	m := newMemRepo(t)
	m.write("target.txt", "payload\n")
	require.NoError(t, m.fs.Symlink("target.txt", "link"))
	require.NoError(t, m.fs.MkdirAll("vendor/lib/.git", 0o755))
	m.write("vendor/lib/code.go", "package lib\n")

	r := m.reader(Options{})
	records, err := r.ListWorktree(context.Background())
	require.NoError(t, err)

	byPath := map[string]status.PathRecord{}
	for _, rec := range records {
		byPath[rec.Path] = rec
	}

	link, ok := byPath["link"]
	require.True(t, ok)
	assert.Equal(t, status.ModeSymlink, link.Mode)
	assert.Equal(t, hash.NewBlobHasher().HashBytes([]byte("target.txt")), link.Hash)

	nested, ok := byPath["vendor/lib/"]
	require.True(t, ok)
	assert.True(t, nested.NestedRepo)
	assert.Equal(t, status.ModeDir, nested.Mode)
	_, descended := byPath["vendor/lib/code.go"]
	assert.False(t, descended)
}

func TestRepoReader_ConflictStages(t *testing.T) {
	m := newMemRepo(t)
	base := plumbing.ComputeHash(plumbing.BlobObject, []byte("base\n"))
	ours := plumbing.ComputeHash(plumbing.BlobObject, []byte("ours\n"))
	theirs := plumbing.ComputeHash(plumbing.BlobObject, []byte("theirs\n"))
	require.NoError(t, m.repo.Storer.SetIndex(&index.Index{
		Version: 2,
		Entries: []*index.Entry{
			{Name: "merge.txt", Hash: base, Mode: filemode.Regular, Stage: index.AncestorMode},
			{Name: "merge.txt", Hash: ours, Mode: filemode.Regular, Stage: index.OurMode},
			{Name: "merge.txt", Hash: theirs, Mode: filemode.Regular, Stage: index.TheirMode},
		},
	}))
	m.write("merge.txt", "<<<<<<< ours\n")

	records, err := m.reader(Options{}).ListIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{records[0].Stage, records[1].Stage, records[2].Stage})

	got := statusOf(t, m.reader(Options{}))
	assert.Equal(t, "UU", got["merge.txt"].Code())
	assert.Equal(t, ours.String(), got["merge.txt"].IndexHash)
}

func TestRepoReader_BlobAndRenameDetection(t *testing.T) {
	m := newMemRepo(t)
	original := ""
	for i := 0; i < 20; i++ {
		original += fmt.Sprintf("line %02d of shared content\n", i)
	}
	m.write("old.txt", original)
	m.commit("old.txt")

	_, err := m.wt.Remove("old.txt")
	require.NoError(t, err)
	m.write("new.txt", original+"one more line\n")
	m.add("new.txt")

	r := m.reader(Options{})
	data, err := r.Blob(context.Background(), plumbing.ComputeHash(plumbing.BlobObject, []byte(original)).String())
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	entries := make([]status.StatusEntry, 0)
	for _, e := range statusOf(t, r) {
		entries = append(entries, e)
	}
	out, err := status.DetectRenames(context.Background(), entries, r, status.RenameOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, status.IndexRenamed, out[0].IndexState)
	assert.Equal(t, "old.txt", out[0].RenameFrom)
	assert.Greater(t, out[0].Similarity, 0.8)
}

func TestRepoReader_HashFailure(t *testing.T) {
	m := newMemRepo(t)
	m.write("locked.txt", "secret")
	fake := hash.NewFakeHasher()
	fake.SetError("locked.txt", errors.New("permission denied"))

	_, err := m.reader(Options{Hasher: fake}).ListWorktree(context.Background())
	require.Error(t, err)

	var sre *status.StateReadError
	require.ErrorAs(t, err, &sre)
	assert.Equal(t, "hash worktree", sre.Op)
	assert.Equal(t, "locked.txt", sre.Path)
}

func TestRepoReader_CanceledContext(t *testing.T) {
	m := newMemRepo(t)
	m.write("a.txt", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.reader(Options{}).ListWorktree(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeInfo struct {
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (f fakeInfo) Name() string       { return "f" }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() os.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return f.modTime }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }

func TestStatMatches(t *testing.T) {
	when := time.Unix(1700000000, 42)
	entry := &index.Entry{Size: 10, ModifiedAt: when, Mode: filemode.Regular}

	tests := []struct {
		name  string
		entry *index.Entry
		info  fakeInfo
		mode  status.FileMode
		want  bool
	}{
		{"same stat", entry, fakeInfo{size: 10, modTime: when}, status.ModeRegular, true},
		{"size differs", entry, fakeInfo{size: 11, modTime: when}, status.ModeRegular, false},
		{"mtime differs", entry, fakeInfo{size: 10, modTime: when.Add(time.Second)}, status.ModeRegular, false},
		{"mode differs", entry, fakeInfo{size: 10, modTime: when}, status.ModeExecutable, false},
		{"no stat data", &index.Entry{Size: 10, Mode: filemode.Regular}, fakeInfo{size: 10}, status.ModeRegular, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statMatches(tt.entry, tt.info, tt.mode))
		})
	}
}
