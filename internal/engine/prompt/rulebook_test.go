package prompt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-gm/internal/engine/prompt"
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	"github.com/KirkDiggler/rpg-gm/internal/i18n"
	"github.com/KirkDiggler/rpg-gm/internal/testutils"
)

func TestDefaultRulebook(t *testing.T) {
	rb, err := prompt.DefaultRulebook()
	require.NoError(t, err)

	assert.Equal(t, 6, rb.Window)
	assert.Equal(t, 2, rb.MaxTopics)
	assert.NotEmpty(t, rb.CombatKeywords)
	assert.Contains(t, rb.Interrogatives, "que faites vous")
	for _, topic := range rb.Topics {
		assert.NotEmpty(t, topic.TextFor("en"), topic.Name)
		assert.NotEmpty(t, topic.TextFor("fr"), topic.Name)
	}
}

func TestParseRulebookDefaults(t *testing.T) {
	rb, err := prompt.ParseRulebook([]byte(`
combat_keywords: [Attack, "  attack "]
topics:
  - name: rest
    keywords: [Rest]
    text:
      en: Resting heals.
`))
	require.NoError(t, err)

	assert.Equal(t, 6, rb.Window)
	assert.Equal(t, 2, rb.MaxTopics)
	assert.Equal(t, []string{"attack"}, rb.CombatKeywords)
	assert.Equal(t, "Resting heals.", rb.Topics[0].TextFor("fr"), "falls back to english")
}

func TestParseRulebookInvalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{name: "bad yaml", yaml: "window: [1"},
		{name: "negative window", yaml: "window: -1"},
		{name: "zero window", yaml: "window: 0"},
		{name: "negative max topics", yaml: "max_topics: -1"},
		{name: "topic without keywords", yaml: "topics:\n  - name: x\n    text:\n      en: y\n"},
		{name: "topic without text", yaml: "topics:\n  - name: x\n    keywords: [a]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := prompt.ParseRulebook([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestZeroMaxTopicsDisablesExcerpt(t *testing.T) {
	rb, err := prompt.ParseRulebook([]byte(`
max_topics: 0
topics:
  - name: rest
    keywords: [rest]
    text:
      en: Resting heals.
`))
	require.NoError(t, err)
	assert.Equal(t, 0, rb.MaxTopics)

	builder, err := prompt.NewBuilder(&prompt.Config{Rulebook: rb, Catalog: i18n.MustLoad()})
	require.NoError(t, err)

	sess := testutils.CreateTestSession()
	assert.Empty(t, builder.RulesExcerpt(sess, entities.UserMessage("I rest by the fire")))
}

func TestLoadRulebookFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: 3\ncombat_keywords: [duel]\n"), 0o600))

	rb, err := prompt.LoadRulebook(path)
	require.NoError(t, err)
	assert.Equal(t, 3, rb.Window)

	_, err = prompt.LoadRulebook(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	rb, err = prompt.LoadRulebook("")
	require.NoError(t, err)
	assert.Equal(t, 6, rb.Window)
}
