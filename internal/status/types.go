package status

import "fmt"

// FileMode is the git object type of a path.
type FileMode int

const (
	// ModeNone means the side has no record for the path.
	ModeNone FileMode = iota
	ModeRegular
	ModeExecutable
	ModeSymlink
	ModeGitlink
	// ModeDir is only used by worktree records for collapsed directories.
	ModeDir
)

// String returns the octal git mode.
func (m FileMode) String() string {
	switch m {
	case ModeNone:
		return "000000"
	case ModeRegular:
		return "100644"
	case ModeExecutable:
		return "100755"
	case ModeSymlink:
		return "120000"
	case ModeGitlink:
		return "160000"
	case ModeDir:
		return "040000"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// kind groups modes whose contents are comparable. Regular and executable
// files share a kind so a chmod does not block rename detection.
func (m FileMode) kind() int {
	switch m {
	case ModeRegular, ModeExecutable:
		return 1
	case ModeSymlink:
		return 2
	case ModeGitlink:
		return 3
	default:
		return 0
	}
}

// PathRecord is one path as seen by HEAD, the index or the working tree.
type PathRecord struct {
	// Path is relative to the repository root, slash separated and clean.
	// Directory records carry a trailing slash.
	Path string

	// Hash is the git blob id of the content in hex.
	Hash string

	Mode FileMode

	// Stage is the index stage: 0 for merged entries, 1-3 for the sides of
	// an unresolved conflict. Always 0 outside the index.
	Stage int

	Size int64

	// NestedRepo marks a worktree directory that is itself a repository.
	NestedRepo bool
}

// IsDir reports whether the record is a collapsed directory.
func (r PathRecord) IsDir() bool {
	return r.Mode == ModeDir
}

// IndexState classifies a path's staged change relative to HEAD.
type IndexState int

const (
	IndexUnmodified IndexState = iota
	IndexAdded
	IndexModified
	IndexDeleted
	IndexRenamed
	IndexCopied
	IndexConflicted
)

// String returns the stable name used in structured output.
func (s IndexState) String() string {
	switch s {
	case IndexUnmodified:
		return "unmodified"
	case IndexAdded:
		return "added"
	case IndexModified:
		return "modified"
	case IndexDeleted:
		return "deleted"
	case IndexRenamed:
		return "renamed"
	case IndexCopied:
		return "copied"
	case IndexConflicted:
		return "conflicted"
	default:
		return fmt.Sprintf("index(%d)", int(s))
	}
}

// Code returns the one-letter porcelain code.
func (s IndexState) Code() byte {
	switch s {
	case IndexAdded:
		return 'A'
	case IndexModified:
		return 'M'
	case IndexDeleted:
		return 'D'
	case IndexRenamed:
		return 'R'
	case IndexCopied:
		return 'C'
	case IndexConflicted:
		return 'U'
	default:
		return ' '
	}
}

// WorktreeState classifies a path's unstaged state relative to the index.
type WorktreeState int

const (
	WorktreeUnmodified WorktreeState = iota
	WorktreeModified
	WorktreeDeleted
	WorktreeUntracked
	WorktreeIgnored
)

// String returns the stable name used in structured output.
func (s WorktreeState) String() string {
	switch s {
	case WorktreeUnmodified:
		return "unmodified"
	case WorktreeModified:
		return "modified"
	case WorktreeDeleted:
		return "deleted"
	case WorktreeUntracked:
		return "untracked"
	case WorktreeIgnored:
		return "ignored"
	default:
		return fmt.Sprintf("worktree(%d)", int(s))
	}
}

// Code returns the one-letter porcelain code.
func (s WorktreeState) Code() byte {
	switch s {
	case WorktreeModified:
		return 'M'
	case WorktreeDeleted:
		return 'D'
	case WorktreeUntracked:
		return '?'
	case WorktreeIgnored:
		return '!'
	default:
		return ' '
	}
}

// IgnoreMatch identifies the ignore rule that excluded a path.
type IgnoreMatch struct {
	// Source is the file the rule came from, e.g. ".gitignore" or
	// "build/.gitignore" or ".git/info/exclude".
	Source  string
	Line    int
	Pattern string
}

// IsZero reports whether no rule is recorded.
func (m IgnoreMatch) IsZero() bool {
	return m.Pattern == ""
}

// String formats the match as source:line:pattern.
func (m IgnoreMatch) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%s", m.Source, m.Line, m.Pattern)
}

// StatusEntry is one reconciled path.
type StatusEntry struct {
	Path          string
	IndexState    IndexState
	WorktreeState WorktreeState

	// RenameFrom is the source path of a renamed or copied entry.
	RenameFrom string
	// Similarity is the content similarity in [0,1] of a rename or copy.
	Similarity float64
	// ModeChanged is set when the file mode differs between HEAD and the
	// index while the entry is otherwise classified.
	ModeChanged bool

	HeadHash     string
	IndexHash    string
	WorktreeHash string

	HeadMode     FileMode
	IndexMode    FileMode
	WorktreeMode FileMode

	IgnoredBy  IgnoreMatch
	NestedRepo bool
}

// Conflicted reports whether the entry is an unresolved merge conflict.
func (e StatusEntry) Conflicted() bool {
	return e.IndexState == IndexConflicted
}

// Staged reports whether the index differs from HEAD for this entry.
func (e StatusEntry) Staged() bool {
	return e.IndexState != IndexUnmodified
}

// Unstaged reports whether the worktree differs from the index for a
// tracked entry.
func (e StatusEntry) Unstaged() bool {
	return e.WorktreeState == WorktreeModified || e.WorktreeState == WorktreeDeleted
}

// Untracked reports whether the entry is an untracked worktree path.
func (e StatusEntry) Untracked() bool {
	return e.WorktreeState == WorktreeUntracked
}

// Ignored reports whether the entry is an ignored worktree path.
func (e StatusEntry) Ignored() bool {
	return e.WorktreeState == WorktreeIgnored
}

// Unchanged reports whether nothing is staged or changed for the entry.
func (e StatusEntry) Unchanged() bool {
	return e.IndexState == IndexUnmodified && e.WorktreeState == WorktreeUnmodified
}

// Code returns the two-character porcelain status code. A staged deletion
// whose path holds an untracked or ignored file shows only the staged side;
// the file itself is listed through WorktreeOnly.
func (e StatusEntry) Code() string {
	if e.Conflicted() {
		return "UU"
	}
	if e.IndexState == IndexUnmodified {
		switch e.WorktreeState {
		case WorktreeUntracked:
			return "??"
		case WorktreeIgnored:
			return "!!"
		}
	}
	y := byte(' ')
	if e.Unstaged() {
		y = e.WorktreeState.Code()
	}
	return string([]byte{e.IndexState.Code(), y})
}

// WorktreeOnly returns the untracked or ignored file at the entry's path
// with the HEAD and index sides dropped.
func (e StatusEntry) WorktreeOnly() StatusEntry {
	return StatusEntry{
		Path:          e.Path,
		IndexState:    IndexUnmodified,
		WorktreeState: e.WorktreeState,
		WorktreeHash:  e.WorktreeHash,
		WorktreeMode:  e.WorktreeMode,
		IgnoredBy:     e.IgnoredBy,
		NestedRepo:    e.NestedRepo,
	}
}

// DisplayPath returns "from -> to" for renames and copies, else the path.
func (e StatusEntry) DisplayPath() string {
	if e.RenameFrom != "" {
		return e.RenameFrom + " -> " + e.Path
	}
	return e.Path
}
