package pathfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		prefix   string
		path     string
		want     bool
	}{
		{"no patterns match all", nil, "", "any/file.go", true},
		{"plain file", []string{"README.md"}, "", "README.md", true},
		{"plain dir matches beneath", []string{"src"}, "", "src/a/b.go", true},
		{"plain dir trailing slash", []string{"src/"}, "", "src/a.go", true},
		{"plain name is not a prefix match", []string{"src"}, "", "srcfoo/a.go", false},
		{"star stays in one segment", []string{"*.go"}, "", "cmd/main.go", false},
		{"star at root", []string{"*.go"}, "", "main.go", true},
		{"double star", []string{"**/*.go"}, "", "internal/a/b.go", true},
		{"braces", []string{"*.{md,txt}"}, "", "notes.txt", true},
		{"glob dir matches beneath", []string{"internal/*"}, "", "internal/status/report.go", true},
		{"question mark", []string{"v?.txt"}, "", "v1.txt", true},
		{"prefix applied", []string{"*.go"}, "internal/status", "internal/status/types.go", true},
		{"prefix excludes other dirs", []string{"*.go"}, "internal/status", "main.go", false},
		{"root anchored", []string{"/docs"}, "internal", "docs/a.md", true},
		{"magic root anchored", []string{":/docs"}, "internal", "docs/a.md", true},
		{"dot means cwd", []string{"."}, "internal", "internal/x.go", true},
		{"dot at root matches all", []string{"."}, "", "x.go", true},
		{"parent reference", []string{"../cmd"}, "internal", "cmd/vgl/main.go", true},
		{"collapsed dir record", []string{"build"}, "", "build/", true},
		{"any pattern matches", []string{"a.txt", "b.txt"}, "", "b.txt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.patterns, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(tt.path))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New([]string{"../outside"}, "")
	assert.ErrorContains(t, err, "outside the repository")

	_, err = New([]string{"src/[a-"}, "")
	assert.ErrorContains(t, err, "invalid glob pattern")
}

func TestFilter_EmptyAndPatterns(t *testing.T) {
	var nilFilter *Filter
	assert.True(t, nilFilter.Empty())
	assert.True(t, nilFilter.Match("x"))
	assert.Nil(t, nilFilter.Patterns())

	f, err := New([]string{"src", "*.md"}, "sub")
	require.NoError(t, err)
	assert.False(t, f.Empty())
	assert.Equal(t, []string{"src", "*.md"}, f.Patterns())
}
