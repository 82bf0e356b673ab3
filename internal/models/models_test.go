package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	for in, want := range map[string]Provider{
		"cloud": ProviderCloud, "Google GenAI": ProviderCloud, " gemini ": ProviderCloud,
		"local": ProviderLocal, "LM Studio (Local)": ProviderLocal, "lmstudio": ProviderLocal,
	} {
		got, err := ParseProvider(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseProvider("azure")
	assert.Equal(t, KindConfig, KindOf(err))
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.False(t, Severity("URGENT").Valid())
	assert.True(t, SeverityLow.Valid())
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := NewError(KindConnection, "cannot reach LM Studio", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("list models: %w", base)

	assert.Equal(t, KindConnection, KindOf(wrapped))
	assert.Equal(t, "cannot reach LM Studio: dial tcp: refused", base.Error())
	assert.Equal(t, KindProvider, KindOf(errors.New("sdk exploded")))
	assert.Equal(t, "", MessageOf(nil))

	res := Failed(wrapped)
	assert.False(t, res.OK())
	assert.Equal(t, KindConnection, res.Error.Kind)
	assert.Nil(t, res.Feedback)
}
