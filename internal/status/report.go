package status

import (
	"slices"
	"sort"
)

// IndexCounts counts entries per staged state.
type IndexCounts struct {
	Added      int
	Modified   int
	Deleted    int
	Renamed    int
	Copied     int
	Conflicted int
}

// WorktreeCounts counts entries per unstaged state.
type WorktreeCounts struct {
	Modified  int
	Deleted   int
	Untracked int
	Ignored   int
}

// Summary holds per-state counts for a report.
type Summary struct {
	Index    IndexCounts
	Worktree WorktreeCounts

	// Unmodified counts entries with nothing staged and nothing changed.
	Unmodified int

	// Total is the number of entries.
	Total int
}

// StatusReport is the immutable status snapshot of one invocation. All
// accessors return copies.
type StatusReport struct {
	root    string
	entries []StatusEntry
	summary Summary
	clean   bool
	branch  *Branch
}

// Build assembles the report from reconciled, rename-resolved entries. It
// copies and sorts the input and cannot fail.
func Build(root string, entries []StatusEntry) *StatusReport {
	sorted := make([]StatusEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	return &StatusReport{
		root:    root,
		entries: sorted,
		summary: summarize(sorted),
		clean:   isClean(sorted),
	}
}

func summarize(entries []StatusEntry) Summary {
	var s Summary
	s.Total = len(entries)
	for _, e := range entries {
		switch e.IndexState {
		case IndexAdded:
			s.Index.Added++
		case IndexModified:
			s.Index.Modified++
		case IndexDeleted:
			s.Index.Deleted++
		case IndexRenamed:
			s.Index.Renamed++
		case IndexCopied:
			s.Index.Copied++
		case IndexConflicted:
			s.Index.Conflicted++
		case IndexUnmodified:
		}
		switch e.WorktreeState {
		case WorktreeModified:
			s.Worktree.Modified++
		case WorktreeDeleted:
			s.Worktree.Deleted++
		case WorktreeUntracked:
			s.Worktree.Untracked++
		case WorktreeIgnored:
			s.Worktree.Ignored++
		case WorktreeUnmodified:
		}
		if e.Unchanged() {
			s.Unmodified++
		}
	}
	return s
}

// isClean is true when every entry is unchanged or merely ignored.
func isClean(entries []StatusEntry) bool {
	for _, e := range entries {
		if e.IndexState != IndexUnmodified {
			return false
		}
		if e.WorktreeState != WorktreeUnmodified && e.WorktreeState != WorktreeIgnored {
			return false
		}
	}
	return true
}

// Root returns the repository root the report was built for.
func (r *StatusReport) Root() string {
	return r.root
}

// Clean reports whether there is nothing to commit and nothing untracked.
func (r *StatusReport) Clean() bool {
	return r.clean
}

// Summary returns the per-state counts.
func (r *StatusReport) Summary() Summary {
	return r.summary
}

// WithBranch returns a copy of the report that carries b. The receiver is
// left unchanged.
func (r *StatusReport) WithBranch(b Branch) *StatusReport {
	out := *r
	b = b.clone()
	out.branch = &b
	return &out
}

// Branch returns the branch state and whether the report has one.
func (r *StatusReport) Branch() (Branch, bool) {
	if r.branch == nil {
		return Branch{}, false
	}
	return r.branch.clone(), true
}

// Pending counts the entries with staged or unstaged changes, the work a
// commit would pick up.
func (r *StatusReport) Pending() int {
	n := 0
	for _, e := range r.entries {
		if e.Staged() || e.Unstaged() {
			n++
		}
	}
	return n
}

// Len returns the number of entries.
func (r *StatusReport) Len() int {
	return len(r.entries)
}

// Entries returns a copy of all entries, sorted by path.
func (r *StatusReport) Entries() []StatusEntry {
	out := make([]StatusEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Changed returns the entries that are not unchanged, sorted by path.
// Ignored entries are included.
func (r *StatusReport) Changed() []StatusEntry {
	var out []StatusEntry
	for _, e := range r.entries {
		if !e.Unchanged() {
			out = append(out, e)
		}
	}
	return out
}

// Paths returns every path the report accounts for, including the sources
// of renames, sorted and without duplicates.
func (r *StatusReport) Paths() []string {
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Path)
		if e.IndexState == IndexRenamed {
			out = append(out, e.RenameFrom)
		}
	}
	sort.Strings(out)
	return slices.Compact(out)
}

// Validate checks the report invariants: sorted order and no duplicate
// paths, rename sources included.
func (r *StatusReport) Validate() error {
	seen := make(map[string]bool, len(r.entries))
	for i, e := range r.entries {
		if i > 0 && r.entries[i-1].Path > e.Path {
			return &RenderError{Reason: "entries out of order", Path: e.Path}
		}
		if seen[e.Path] {
			return &RenderError{Reason: "duplicate path", Path: e.Path}
		}
		seen[e.Path] = true
	}
	for _, e := range r.entries {
		if e.IndexState != IndexRenamed {
			continue
		}
		if seen[e.RenameFrom] && !r.worktreeOnly(e.RenameFrom) {
			return &RenderError{Reason: "rename source still present", Path: e.RenameFrom}
		}
		seen[e.RenameFrom] = true
	}
	return nil
}

// worktreeOnly reports whether path is listed only as an untracked or
// ignored file, which a rename source may leave behind.
func (r *StatusReport) worktreeOnly(path string) bool {
	i := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].Path >= path })
	if i == len(r.entries) || r.entries[i].Path != path {
		return false
	}
	e := r.entries[i]
	return e.IndexState == IndexUnmodified && (e.Untracked() || e.Ignored())
}

// Filter returns a new report holding the entries for which keep returns
// true for the path or the rename source. Counts and the clean flag are
// recomputed for the view; the branch state carries over.
func (r *StatusReport) Filter(keep func(path string) bool) *StatusReport {
	var kept []StatusEntry
	for _, e := range r.entries {
		if keep(e.Path) || (e.RenameFrom != "" && keep(e.RenameFrom)) {
			kept = append(kept, e)
		}
	}
	view := Build(r.root, kept)
	view.branch = r.branch
	return view
}
