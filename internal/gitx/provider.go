// Package gitx reads repository state: the HEAD tree, the index with its
// conflict stages, the working tree, ignore rules, blob contents and the
// current branch with its upstream.
//
// RepoReader is the go-git backed implementation. FakeProvider serves
// in-memory record sets for tests of the layers above.
package gitx

import (
	"context"

	"github.com/jonbarril/vgl/internal/hash"
	"github.com/jonbarril/vgl/internal/logging"
	"github.com/jonbarril/vgl/internal/status"
)

// StateProvider is the read side of a repository as the status pipeline sees
// it. List and Branch calls fail with a *status.StateReadError.
type StateProvider interface {
	ListHead(ctx context.Context) ([]status.PathRecord, error)
	ListIndex(ctx context.Context) ([]status.PathRecord, error)
	ListWorktree(ctx context.Context) ([]status.PathRecord, error)
	Branch(ctx context.Context) (status.Branch, error)

	status.IgnoreOracle
	status.ContentSource
}

// Options configures a RepoReader.
type Options struct {
	// Workers bounds parallel fingerprinting. Zero means one per CPU.
	Workers int

	// ExcludesFile is the global ignore file (core.excludesfile). Empty
	// means none.
	ExcludesFile string

	// Hasher fingerprints working tree files. Nil means a BlobHasher.
	Hasher hash.Hasher

	// Logger receives debug output. Nil means no logging.
	Logger logging.Logger
}
