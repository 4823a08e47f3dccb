package gitx

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/jonbarril/vgl/internal/status"
)

// Operation names accepted by FakeProvider.SetError.
const (
	OpListHead     = "list head"
	OpListIndex    = "list index"
	OpListWorktree = "list worktree"
	OpBranch       = opBranch
)

// FakeProvider implements StateProvider with in-memory record sets for
// testing. Blobs are stored under their real git blob ids.
type FakeProvider struct {
	mu       sync.Mutex
	head     []status.PathRecord
	index    []status.PathRecord
	worktree []status.PathRecord
	branch   status.Branch
	blobs    map[string][]byte
	ignores  map[string]status.IgnoreMatch
	errs     map[string]error
}

// NewFakeProvider creates an empty FakeProvider on an unborn main branch.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		branch:  status.Branch{Name: "main"},
		blobs:   make(map[string][]byte),
		ignores: make(map[string]status.IgnoreMatch),
		errs:    make(map[string]error),
	}
}

// PutBlob stores content and returns its blob id.
func (f *FakeProvider) PutBlob(content string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := plumbing.ComputeHash(plumbing.BlobObject, []byte(content)).String()
	f.blobs[id] = []byte(content)
	return id
}

// Record stores content and returns a regular file record for path.
func (f *FakeProvider) Record(path, content string) status.PathRecord {
	return status.PathRecord{
		Path: path,
		Hash: f.PutBlob(content),
		Mode: status.ModeRegular,
		Size: int64(len(content)),
	}
}

// AddHead appends records to the HEAD tree.
func (f *FakeProvider) AddHead(records ...status.PathRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head = append(f.head, records...)
}

// AddIndex appends records to the index.
func (f *FakeProvider) AddIndex(records ...status.PathRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = append(f.index, records...)
}

// AddWorktree appends records to the working tree.
func (f *FakeProvider) AddWorktree(records ...status.PathRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.worktree = append(f.worktree, records...)
}

// Commit records path with content in HEAD, the index and the working tree.
func (f *FakeProvider) Commit(path, content string) {
	rec := f.Record(path, content)
	f.AddHead(rec)
	f.AddIndex(rec)
	f.AddWorktree(rec)
}

// Ignore makes path ignored by rule. A path ending in "/" ignores the
// directory and everything beneath it.
func (f *FakeProvider) Ignore(path string, rule status.IgnoreMatch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ignores[path] = rule
}

// SetBranch sets the state returned by Branch.
func (f *FakeProvider) SetBranch(b status.Branch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branch = b
}

// SetError makes the named operation fail with a StateReadError
// wrapping err.
func (f *FakeProvider) SetError(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

// ListHead returns the HEAD records.
func (f *FakeProvider) ListHead(ctx context.Context) ([]status.PathRecord, error) {
	return f.list(ctx, OpListHead, f.head)
}

// ListIndex returns the index records.
func (f *FakeProvider) ListIndex(ctx context.Context) ([]status.PathRecord, error) {
	return f.list(ctx, OpListIndex, f.index)
}

// ListWorktree returns the working tree records.
func (f *FakeProvider) ListWorktree(ctx context.Context) ([]status.PathRecord, error) {
	return f.list(ctx, OpListWorktree, f.worktree)
}

// Branch returns the state set with SetBranch.
func (f *FakeProvider) Branch(ctx context.Context) (status.Branch, error) {
	if err := ctx.Err(); err != nil {
		return status.Branch{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[OpBranch]; ok {
		return status.Branch{}, &status.StateReadError{Op: OpBranch, Err: err}
	}
	return f.branch, nil
}

func (f *FakeProvider) list(ctx context.Context, op string, records []status.PathRecord) ([]status.PathRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[op]; ok {
		return nil, &status.StateReadError{Op: op, Err: err}
	}
	return append([]status.PathRecord(nil), records...), nil
}

// IsIgnored reports whether path or one of its parent directories is ignored.
func (f *FakeProvider) IsIgnored(path string, isDir bool) bool {
	_, ok := f.IgnoreRule(path, isDir)
	return ok
}

// IgnoreRule returns the rule registered for path or its closest ignored
// parent directory.
func (f *FakeProvider) IgnoreRule(path string, _ bool) (status.IgnoreMatch, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.ignores[path]; ok {
		return m, true
	}
	p := strings.TrimSuffix(path, "/")
	for {
		if m, ok := f.ignores[p+"/"]; ok {
			return m, true
		}
		i := strings.LastIndex(p, "/")
		if i < 0 {
			return status.IgnoreMatch{}, false
		}
		p = p[:i]
	}
}

// Blob returns stored content.
func (f *FakeProvider) Blob(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[id]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", id)
	}
	return data, nil
}
