package pager

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLookPath(t *testing.T, available ...string) {
	t.Helper()
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		env        string
		available  []string
		want       string
	}{
		{"configured wins", " most ", "less", []string{"less"}, "most"},
		{"PAGER next", "", "bat --plain", []string{"less"}, "bat --plain"},
		{"less", "", "", []string{"less", "more"}, "less -FRX"},
		{"more", "", "", []string{"more"}, "more"},
		{"cat", "", "", nil, "cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAGER", tt.env)
			stubLookPath(t, tt.available...)
			assert.Equal(t, tt.want, Command(tt.configured))
		})
	}
}

func TestIsLess(t *testing.T) {
	tests := []struct {
		pager string
		want  bool
	}{
		{"less", true},
		{"/usr/bin/less -R", true},
		{"LESSCHARSET=utf-8 less", true},
		{"more", false},
		{"lesspipe", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isLess(tt.pager), tt.pager)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("LESS", "")
	assert.Equal(t, []string{"LESS=FRX", "LESSHISTFILE=-"}, Env("less"))
	assert.Nil(t, Env("more"))

	t.Setenv("LESS", "-S")
	assert.Nil(t, Env("less"), "a user-set $LESS is left alone")
}

func TestOptions_Enabled(t *testing.T) {
	yes, no := true, false
	var buf bytes.Buffer

	assert.False(t, Options{Command: "less", Terminal: &yes, Disabled: true}.Enabled(&buf))
	assert.False(t, Options{Command: "cat", Terminal: &yes}.Enabled(&buf))
	assert.False(t, Options{Command: "", Terminal: &yes}.Enabled(&buf))
	assert.False(t, Options{Command: "less", Terminal: &no}.Enabled(&buf))
	assert.True(t, Options{Command: "less", Terminal: &yes}.Enabled(&buf))
	assert.False(t, Options{Command: "less"}.Enabled(&buf), "a buffer is not a terminal")
}

func TestWrite_Direct(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, Write(context.Background(), &out, &errOut, "hello\n", Options{Command: "less"}))
	assert.Equal(t, "hello\n", out.String())
}

func TestWrite_ThroughPager(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	yes := true
	var out, errOut bytes.Buffer

	err := Write(context.Background(), &out, &errOut, "hello\n", Options{Command: "tr a-z A-Z", Terminal: &yes})
	require.NoError(t, err)
	assert.Equal(t, "HELLO\n", out.String())
}

func TestWrite_MissingPagerFallsBack(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	yes := true
	var out, errOut bytes.Buffer

	err := Write(context.Background(), &out, &errOut, "hello\n", Options{Command: "vgl-no-such-pager", Terminal: &yes})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestNotRunnable(t *testing.T) {
	assert.True(t, notRunnable(errors.New("exec: \"sh\": executable file not found")))
}
