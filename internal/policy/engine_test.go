package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	require.NoError(t, err)
	return engine
}

func TestDefaultPolicyAllowsNormalRequests(t *testing.T) {
	engine := newTestEngine(t)

	decision, _, err := engine.Evaluate(context.Background(), map[string]interface{}{
		"keyword":      "Real Madrid",
		"presenter_id": 3,
		"owner_id":     "owner-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "allow", decision)
}

func TestDefaultPolicyBlocksReservedKeywords(t *testing.T) {
	for _, keyword := range []string{"test", "TEST", "spam", "Spam"} {
		decision, _, err := newTestEngine(t).Evaluate(context.Background(), map[string]interface{}{
			"keyword":      keyword,
			"presenter_id": 3,
		})
		require.NoError(t, err)
		assert.Equal(t, "block", decision, "keyword %q", keyword)
	}
}

func TestDefaultPolicyBlocksReservedPresenter(t *testing.T) {
	engine := newTestEngine(t)

	decision, _, err := engine.Evaluate(context.Background(), map[string]interface{}{
		"keyword":      "Real Madrid",
		"presenter_id": 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "block", decision)
}

func TestInvalidPolicyFailsToLoad(t *testing.T) {
	_, err := NewEngine(context.Background(), "package broken {{{")
	assert.Error(t, err)
}
