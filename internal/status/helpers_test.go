package status

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// blobs is an in-memory ContentSource keyed by fake blob ids.
type blobs map[string][]byte

func (b blobs) Blob(_ context.Context, hash string) ([]byte, error) {
	data, ok := b[hash]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", hash)
	}
	return data, nil
}

// put stores content and returns its id.
func (b blobs) put(content string) string {
	sum := sha1.Sum([]byte(content))
	id := hex.EncodeToString(sum[:])
	b[id] = []byte(content)
	return id
}

// ignoreRules is an IgnoreOracle backed by exact path matches.
type ignoreRules map[string]IgnoreMatch

func (r ignoreRules) IsIgnored(path string, _ bool) bool {
	_, ok := r[path]
	return ok
}

func (r ignoreRules) IgnoreRule(path string, _ bool) (IgnoreMatch, bool) {
	m, ok := r[path]
	return m, ok
}

func file(path, hash string) PathRecord {
	return PathRecord{Path: path, Hash: hash, Mode: ModeRegular}
}

func lines(n int, prefix string) string {
	out := ""
	for i := 0; i < n; i++ {
		out += fmt.Sprintf("%s line %d\n", prefix, i)
	}
	return out
}
