// Package hash computes content fingerprints for working tree files.
//
// Fingerprints are git blob object ids, so a hash computed from a file on disk
// compares directly with the ids recorded in HEAD trees and the index. The
// package provides a real implementation backed by go-git's object hasher and
// a fake implementation for testing.
package hash

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Hasher provides an abstraction for content hashing operations.
type Hasher interface {
	// HashFile computes the blob id of the file at path within fs.
	HashFile(fs billy.Filesystem, path string) (string, error)

	// HashBytes computes the blob id of data.
	HashBytes(data []byte) string
}

// BlobHasher implements Hasher with git's blob object format.
type BlobHasher struct{}

// NewBlobHasher creates a new BlobHasher.
func NewBlobHasher() *BlobHasher {
	return &BlobHasher{}
}

// HashFile streams the file through a blob hasher. The object header needs
// the size up front, so the file is stat'ed first.
func (h *BlobHasher) HashFile(fs billy.Filesystem, path string) (string, error) {
	info, err := fs.Lstat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := plumbing.NewHasher(plumbing.BlobObject, info.Size())
	n, err := io.Copy(hasher, file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if n != info.Size() {
		return "", fmt.Errorf("file %s changed while hashing", path)
	}

	return hasher.Sum().String(), nil
}

// HashBytes computes the blob id of data.
func (h *BlobHasher) HashBytes(data []byte) string {
	return plumbing.ComputeHash(plumbing.BlobObject, data).String()
}

// FakeHasher implements Hasher with deterministic hashes for testing.
type FakeHasher struct {
	mu     sync.Mutex
	hashes map[string]string
	errs   map[string]error
	calls  map[string]int
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// SetHash sets the hash for a specific path (for testing).
func (h *FakeHasher) SetHash(path, hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashes[path] = hash
}

// SetError makes HashFile fail for path.
func (h *FakeHasher) SetError(path string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs[path] = err
}

// Calls returns how many times HashFile was called for path.
func (h *FakeHasher) Calls(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[path]
}

// HashFile returns the predetermined hash for the given path. Paths without
// one hash to "fakehash".
func (h *FakeHasher) HashFile(_ billy.Filesystem, path string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls[path]++
	if err, ok := h.errs[path]; ok {
		return "", err
	}
	if hash, ok := h.hashes[path]; ok {
		return hash, nil
	}
	return "fakehash", nil
}

// HashBytes returns the real blob id so symlink targets stay comparable.
func (h *FakeHasher) HashBytes(data []byte) string {
	return plumbing.ComputeHash(plumbing.BlobObject, data).String()
}
