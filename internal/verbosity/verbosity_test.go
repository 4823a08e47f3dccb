package verbosity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCount(t *testing.T) {
	tests := []struct {
		count   int
		want    Tier
		wantErr bool
	}{
		{0, Terse, false},
		{1, Verbose, false},
		{2, VeryVerbose, false},
		{3, Terse, true},
		{-1, Terse, true},
	}

	for _, tt := range tests {
		got, err := FromCount(tt.count)
		if tt.wantErr {
			assert.Error(t, err, "count %d", tt.count)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range Tiers {
		got, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}

	_, err := ParseTier("loud")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     Text,
		"text": Text,
		"JSON": JSON,
		"yml":  YAML,
		"yaml": YAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, VeryVerbose.AtLeast(Verbose))
	assert.True(t, Verbose.AtLeast(Terse))
	assert.False(t, Terse.AtLeast(Verbose))
	assert.False(t, Tier(7).Valid())
	assert.True(t, JSON.Structured())
	assert.False(t, Text.Structured())
}
