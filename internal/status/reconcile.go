package status

import (
	"errors"
	"path"
	"sort"
	"strings"
)

// Snapshot holds the three raw record sets for one repository.
type Snapshot struct {
	Head     []PathRecord
	Index    []PathRecord
	Worktree []PathRecord
}

// IgnoreOracle answers ignore-rule questions for untracked worktree paths.
type IgnoreOracle interface {
	// IsIgnored reports whether path is excluded by an ignore rule.
	IsIgnored(path string, isDir bool) bool

	// IgnoreRule returns the rule that excludes path, if any.
	IgnoreRule(path string, isDir bool) (IgnoreMatch, bool)
}

// NoIgnores is an IgnoreOracle that ignores nothing.
type NoIgnores struct{}

// IsIgnored always returns false.
func (NoIgnores) IsIgnored(string, bool) bool { return false }

// IgnoreRule always returns no match.
func (NoIgnores) IgnoreRule(string, bool) (IgnoreMatch, bool) { return IgnoreMatch{}, false }

var errDuplicateRecord = errors.New("duplicate record")

// pathState gathers every record seen for one path.
type pathState struct {
	head      *PathRecord
	index     *PathRecord
	conflicts []PathRecord
	worktree  *PathRecord
}

// Reconcile merges the three record sets into one entry per path, sorted by
// path. Every path of the union appears exactly once.
func Reconcile(snap Snapshot, ignore IgnoreOracle) ([]StatusEntry, error) {
	if ignore == nil {
		ignore = NoIgnores{}
	}

	states := make(map[string]*pathState)
	get := func(p string) *pathState {
		st, ok := states[p]
		if !ok {
			st = &pathState{}
			states[p] = st
		}
		return st
	}

	for i := range snap.Head {
		rec := snap.Head[i]
		if err := validateRecordPath(rec); err != nil {
			return nil, &StateReadError{Op: "list head", Path: rec.Path, Err: err}
		}
		st := get(rec.Path)
		if st.head != nil {
			return nil, &StateReadError{Op: "list head", Path: rec.Path, Err: errDuplicateRecord}
		}
		st.head = &rec
	}

	for i := range snap.Index {
		rec := snap.Index[i]
		if err := validateRecordPath(rec); err != nil {
			return nil, &StateReadError{Op: "list index", Path: rec.Path, Err: err}
		}
		st := get(rec.Path)
		if rec.Stage > 0 {
			for _, c := range st.conflicts {
				if c.Stage == rec.Stage {
					return nil, &StateReadError{Op: "list index", Path: rec.Path, Err: errDuplicateRecord}
				}
			}
			st.conflicts = append(st.conflicts, rec)
			continue
		}
		if st.index != nil {
			return nil, &StateReadError{Op: "list index", Path: rec.Path, Err: errDuplicateRecord}
		}
		st.index = &rec
	}

	for i := range snap.Worktree {
		rec := snap.Worktree[i]
		if err := validateRecordPath(rec); err != nil {
			return nil, &StateReadError{Op: "list worktree", Path: rec.Path, Err: err}
		}
		st := get(rec.Path)
		if st.worktree != nil {
			return nil, &StateReadError{Op: "list worktree", Path: rec.Path, Err: errDuplicateRecord}
		}
		st.worktree = &rec
	}

	paths := make([]string, 0, len(states))
	for p := range states {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	entries := make([]StatusEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, classify(p, states[p], ignore))
	}
	return entries, nil
}

func classify(p string, st *pathState, ignore IgnoreOracle) StatusEntry {
	e := StatusEntry{Path: p}
	if st.head != nil {
		e.HeadHash, e.HeadMode = st.head.Hash, st.head.Mode
	}
	if st.index != nil {
		e.IndexHash, e.IndexMode = st.index.Hash, st.index.Mode
	}
	if st.worktree != nil {
		e.WorktreeHash, e.WorktreeMode = st.worktree.Hash, st.worktree.Mode
		e.NestedRepo = st.worktree.NestedRepo
	}

	if len(st.conflicts) > 0 {
		// "ours" is the closest thing to an index side while unresolved.
		for _, c := range st.conflicts {
			if c.Stage == 2 {
				e.IndexHash, e.IndexMode = c.Hash, c.Mode
			}
		}
		e.IndexState = IndexConflicted
		e.WorktreeState = WorktreeUnmodified
		return e
	}

	switch {
	case st.head == nil && st.index == nil:
		e.IndexState = IndexUnmodified
	case st.head == nil:
		e.IndexState = IndexAdded
	case st.index == nil:
		e.IndexState = IndexDeleted
	case st.head.Hash != st.index.Hash:
		e.IndexState = IndexModified
		e.ModeChanged = st.head.Mode != st.index.Mode
	case st.head.Mode != st.index.Mode:
		e.IndexState = IndexModified
		e.ModeChanged = true
	default:
		e.IndexState = IndexUnmodified
	}

	switch {
	case st.index == nil && st.worktree == nil:
		e.WorktreeState = WorktreeUnmodified
	case st.index == nil:
		isDir := st.worktree.IsDir()
		if match, ok := ignore.IgnoreRule(p, isDir); ok {
			e.WorktreeState = WorktreeIgnored
			e.IgnoredBy = match
		} else if ignore.IsIgnored(p, isDir) {
			e.WorktreeState = WorktreeIgnored
		} else {
			e.WorktreeState = WorktreeUntracked
		}
	case st.worktree == nil:
		e.WorktreeState = WorktreeDeleted
	case st.index.Hash != st.worktree.Hash || st.index.Mode != st.worktree.Mode:
		e.WorktreeState = WorktreeModified
	default:
		e.WorktreeState = WorktreeUnmodified
	}
	return e
}

func validateRecordPath(rec PathRecord) error {
	p := rec.Path
	if p == "" {
		return errors.New("empty path")
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return errors.New("path must be relative and slash separated")
	}
	trimmed := strings.TrimSuffix(p, "/")
	if trimmed != p && !rec.IsDir() {
		return errors.New("trailing slash on a non-directory record")
	}
	if trimmed == "" || path.Clean(trimmed) != trimmed || trimmed == ".." || strings.HasPrefix(trimmed, "../") {
		return errors.New("path is not normalized")
	}
	return nil
}
