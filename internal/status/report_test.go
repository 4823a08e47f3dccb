package status

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_SortsAndCounts(t *testing.T) {
	entries := []StatusEntry{
		{Path: "z.txt", WorktreeState: WorktreeUntracked},
		{Path: "a.txt", IndexState: IndexModified, WorktreeState: WorktreeModified},
		{Path: "m.txt"},
		{Path: "build/", WorktreeState: WorktreeIgnored},
		{Path: "new.txt", IndexState: IndexRenamed, RenameFrom: "old.txt"},
		{Path: "gone.txt", WorktreeState: WorktreeDeleted},
	}
	r := Build("/repo", entries)

	var got []string
	for _, e := range r.Entries() {
		got = append(got, e.Path)
	}
	assert.Equal(t, []string{"a.txt", "build/", "gone.txt", "m.txt", "new.txt", "z.txt"}, got)
	assert.Equal(t, "z.txt", entries[0].Path, "input must not be reordered")

	s := r.Summary()
	assert.Equal(t, IndexCounts{Modified: 1, Renamed: 1}, s.Index)
	assert.Equal(t, WorktreeCounts{Modified: 1, Deleted: 1, Untracked: 1, Ignored: 1}, s.Worktree)
	assert.Equal(t, 1, s.Unmodified)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 6, r.Len())
	assert.Equal(t, "/repo", r.Root())
	assert.False(t, r.Clean())
	assert.Len(t, r.Changed(), 5)
}

func TestBuild_Clean(t *testing.T) {
	tests := []struct {
		name    string
		entries []StatusEntry
		want    bool
	}{
		{"empty", nil, true},
		{"unchanged only", []StatusEntry{{Path: "a"}, {Path: "b"}}, true},
		{"ignored only", []StatusEntry{{Path: "a"}, {Path: "tmp/", WorktreeState: WorktreeIgnored}}, true},
		{"untracked", []StatusEntry{{Path: "a", WorktreeState: WorktreeUntracked}}, false},
		{"staged", []StatusEntry{{Path: "a", IndexState: IndexAdded}}, false},
		{"staged delete of ignored path", []StatusEntry{{Path: "a", IndexState: IndexDeleted, WorktreeState: WorktreeIgnored}}, false},
		{"conflict", []StatusEntry{{Path: "a", IndexState: IndexConflicted}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build("/r", tt.entries).Clean())
		})
	}
}

func TestReport_AccessorsReturnCopies(t *testing.T) {
	r := Build("/r", []StatusEntry{{Path: "a", WorktreeState: WorktreeModified}})
	got := r.Entries()
	got[0].Path = "mutated"
	assert.Equal(t, "a", r.Entries()[0].Path)
}

func TestReport_PathsIncludeRenameSources(t *testing.T) {
	r := Build("/r", []StatusEntry{
		{Path: "new.txt", IndexState: IndexRenamed, RenameFrom: "old.txt"},
		{Path: "copy.txt", IndexState: IndexCopied, RenameFrom: "src.txt"},
		{Path: "src.txt", IndexState: IndexModified},
	})
	assert.Equal(t, []string{"copy.txt", "new.txt", "old.txt", "src.txt"}, r.Paths())
}

func TestReport_Validate(t *testing.T) {
	require.NoError(t, Build("/r", []StatusEntry{
		{Path: "a"},
		{Path: "b", IndexState: IndexRenamed, RenameFrom: "c"},
	}).Validate())
	require.NoError(t, Build("/r", []StatusEntry{
		{Path: "new", IndexState: IndexRenamed, RenameFrom: "old"},
		{Path: "old", WorktreeState: WorktreeUntracked},
	}).Validate(), "a rename source may come back as an untracked file")

	tests := []struct {
		name    string
		entries []StatusEntry
		reason  string
	}{
		{
			name:    "duplicate path",
			entries: []StatusEntry{{Path: "a"}, {Path: "a", WorktreeState: WorktreeModified}},
			reason:  "duplicate path",
		},
		{
			name: "rename source present",
			entries: []StatusEntry{
				{Path: "new", IndexState: IndexRenamed, RenameFrom: "old"},
				{Path: "old", IndexState: IndexDeleted},
			},
			reason: "rename source still present",
		},
		{
			name: "rename source modified in place",
			entries: []StatusEntry{
				{Path: "new", IndexState: IndexRenamed, RenameFrom: "old"},
				{Path: "old", WorktreeState: WorktreeModified},
			},
			reason: "rename source still present",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Build("/r", tt.entries).Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRender))

			var re *RenderError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.reason, re.Reason)
		})
	}
}

func TestReport_Filter(t *testing.T) {
	r := Build("/r", []StatusEntry{
		{Path: "docs/a.md", WorktreeState: WorktreeModified},
		{Path: "src/main.go", IndexState: IndexRenamed, RenameFrom: "docs/main.go"},
		{Path: "src/util.go", WorktreeState: WorktreeUntracked},
	})

	docs := r.Filter(func(p string) bool { return strings.HasPrefix(p, "docs/") })
	require.Equal(t, 2, docs.Len())
	assert.Equal(t, "docs/a.md", docs.Entries()[0].Path)
	assert.Equal(t, "src/main.go", docs.Entries()[1].Path)
	assert.Equal(t, 2, docs.Summary().Total)

	none := r.Filter(func(string) bool { return false })
	assert.Equal(t, 0, none.Len())
	assert.True(t, none.Clean())
	assert.Equal(t, 3, r.Len(), "filter must not change the original")
}

func TestReport_WithBranch(t *testing.T) {
	base := Build("/r", []StatusEntry{
		{Path: "a.txt", IndexState: IndexAdded},
		{Path: "b.txt", WorktreeState: WorktreeModified},
		{Path: "c.txt", WorktreeState: WorktreeUntracked},
	})
	_, ok := base.Branch()
	assert.False(t, ok)

	local := []string{"main", "topic"}
	r := base.WithBranch(Branch{Name: "main", Head: "abc", Upstream: "origin/main", Ahead: 1, Local: local})
	_, ok = base.Branch()
	assert.False(t, ok, "WithBranch must not change the receiver")

	b, ok := r.Branch()
	require.True(t, ok)
	assert.Equal(t, "main", b.Name)
	assert.False(t, b.Detached())
	assert.False(t, b.Unborn())

	local[0] = "mutated"
	b.Local[1] = "mutated"
	again, _ := r.Branch()
	assert.Equal(t, []string{"main", "topic"}, again.Local)

	assert.Equal(t, 2, r.Pending())
	assert.Equal(t, 3, r.Len())

	view := r.Filter(func(p string) bool { return p == "c.txt" })
	vb, ok := view.Branch()
	require.True(t, ok)
	assert.Equal(t, "origin/main", vb.Upstream)
	assert.Equal(t, 0, view.Pending())
}

func TestBranch_States(t *testing.T) {
	assert.True(t, Branch{Name: "main"}.Unborn())
	assert.False(t, Branch{Name: "main"}.Detached())
	assert.True(t, Branch{Head: "abc"}.Detached())
}
