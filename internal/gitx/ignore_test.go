package gitx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonbarril/vgl/internal/status"
)

func TestParseIgnore(t *testing.T) {
	input := "# comment\n\n*.tmp\r\n  \n/vendor\n!important.tmp\n"
	rules, err := parseIgnore(strings.NewReader(input), ".gitignore", nil)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, status.IgnoreMatch{Source: ".gitignore", Line: 3, Pattern: "*.tmp"}, rules[0].match)
	assert.Equal(t, 5, rules[1].match.Line)
	assert.Equal(t, "!important.tmp", rules[2].match.Pattern)
}

func TestIgnoreSet_LastMatchWins(t *testing.T) {
	global, err := parseIgnore(strings.NewReader("*.tmp\n"), "/home/u/.config/git/ignore", nil)
	require.NoError(t, err)
	local, err := parseIgnore(strings.NewReader("!keep.tmp\n"), ".gitignore", nil)
	require.NoError(t, err)

	s := &ignoreSet{}
	s.add(global)
	s.add(local)

	m, ok := s.lookup("scratch.tmp", false)
	require.True(t, ok)
	assert.Equal(t, "/home/u/.config/git/ignore", m.Source)

	_, ok = s.lookup("keep.tmp", false)
	assert.False(t, ok)

	_, ok = s.lookup("", true)
	assert.False(t, ok)
}

func TestIgnoreSet_DirectoryPatterns(t *testing.T) {
	rules, err := parseIgnore(strings.NewReader("build/\n/root-only\n"), ".gitignore", nil)
	require.NoError(t, err)
	s := &ignoreSet{}
	s.add(rules)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"build/", true, true},
		{"build", false, false},
		{"pkg/build/", true, true},
		{"build/out.o", false, true},
		{"root-only", false, true},
		{"sub/root-only", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, got := s.lookup(tt.path, tt.isDir)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadExcludesFile(t *testing.T) {
	rules, err := loadExcludesFile("")
	require.NoError(t, err)
	assert.Empty(t, rules)

	rules, err = loadExcludesFile(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, rules)

	path := filepath.Join(t.TempDir(), "ignore")
	require.NoError(t, os.WriteFile(path, []byte(".DS_Store\n"), 0o644))
	rules, err = loadExcludesFile(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, path, rules[0].match.Source)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".gitignore_global"), expandHome("~/.gitignore_global"))
	assert.Equal(t, "/etc/gitignore", expandHome("/etc/gitignore"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
