package gitx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonbarril/vgl/internal/status"
)

func TestFakeProvider_Commit(t *testing.T) {
	f := NewFakeProvider()
	f.Commit("a.txt", "hello")
	ctx := context.Background()

	head, err := f.ListHead(ctx)
	require.NoError(t, err)
	idx, err := f.ListIndex(ctx)
	require.NoError(t, err)
	wt, err := f.ListWorktree(ctx)
	require.NoError(t, err)

	require.Len(t, head, 1)
	assert.Equal(t, head, idx)
	assert.Equal(t, head, wt)
	assert.Equal(t, "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0", head[0].Hash)

	data, err := f.Blob(ctx, head[0].Hash)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFakeProvider_Ignore(t *testing.T) {
	f := NewFakeProvider()
	rule := status.IgnoreMatch{Source: ".gitignore", Line: 3, Pattern: "dist/"}
	f.Ignore("dist/", rule)
	f.Ignore("secret.env", status.IgnoreMatch{Source: ".gitignore", Line: 1, Pattern: "*.env"})

	got, ok := f.IgnoreRule("dist/", true)
	assert.True(t, ok)
	assert.Equal(t, rule, got)
	assert.True(t, f.IsIgnored("dist/js/app.js", false))
	assert.True(t, f.IsIgnored("secret.env", false))
	assert.False(t, f.IsIgnored("distribution.txt", false))
	assert.False(t, f.IsIgnored("src/secret.env", false))
}

func TestFakeProvider_SetError(t *testing.T) {
	f := NewFakeProvider()
	boom := errors.New("index file corrupt")
	f.SetError(OpListIndex, boom)

	_, err := f.ListIndex(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrStateRead)
	assert.ErrorIs(t, err, boom)

	_, err = f.ListHead(context.Background())
	assert.NoError(t, err)
}
