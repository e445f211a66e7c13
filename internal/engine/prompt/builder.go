// Package prompt assembles the per-step model context: the persisted
// history followed by transient system messages (rules excerpt, character
// sheet, protocol reminders) that are never written back to the session.
package prompt

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	"github.com/KirkDiggler/rpg-gm/internal/i18n"
)

// Config holds the builder's dependencies
type Config struct {
	Rulebook *Rulebook
	Catalog  *i18n.Catalog
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Rulebook == nil {
		vb.RequiredField("Rulebook")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

// Builder assembles model context for a session
type Builder struct {
	rules   *Rulebook
	catalog *i18n.Catalog
}

// NewBuilder creates a prompt builder
func NewBuilder(cfg *Config) (*Builder, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Builder{
		rules:   cfg.Rulebook,
		catalog: cfg.Catalog,
	}, nil
}

// Build returns the context for one model call: history, then any pending
// messages not yet committed, then the transient system messages. The
// coordinate reminder is always last.
func (b *Builder) Build(sess *entities.Session, pending ...entities.Message) []entities.Message {
	lang := sess.Language

	out := make([]entities.Message, 0, len(sess.History)+len(pending)+5)
	out = append(out, sess.History...)
	out = append(out, pending...)

	if excerpt := b.RulesExcerpt(sess, pending...); excerpt != "" {
		out = append(out, entities.SystemMessage(b.catalog.Sprintf(lang, i18n.KeyRulesExcerpt, excerpt)))
	}

	out = append(out, entities.SystemMessage(b.StatsBlock(sess.Character, lang)))

	if b.CombatActive(sess, pending...) {
		out = append(out, entities.SystemMessage(b.catalog.Sprintf(lang, i18n.KeyRemindCombat)))
	}
	out = append(out, entities.SystemMessage(
		b.catalog.Sprintf(lang, i18n.KeyRemindCompanion, b.companionNames(sess.Companions, lang)),
	))

	out = append(out, entities.SystemMessage(b.catalog.Sprintf(lang, i18n.KeyRemindCoords)))
	return out
}

// SystemPrompt is the localized protocol description stored as History[0]
func (b *Builder) SystemPrompt(c entities.Character, lang string) string {
	return strings.TrimSpace(b.catalog.Sprintf(lang, i18n.KeySystemPrompt, c.Name, c.Race, c.Class))
}

// StatsBlock renders the authoritative character sheet
func (b *Builder) StatsBlock(c entities.Character, lang string) string {
	abilities := []struct {
		key   string
		score int
	}{
		{i18n.KeyStatSTR, c.Stats.Strength},
		{i18n.KeyStatDEX, c.Stats.Dexterity},
		{i18n.KeyStatCON, c.Stats.Constitution},
		{i18n.KeyStatINT, c.Stats.Intelligence},
		{i18n.KeyStatWIS, c.Stats.Wisdom},
		{i18n.KeyStatCHA, c.Stats.Charisma},
	}

	parts := make([]string, 0, len(abilities))
	for _, a := range abilities {
		parts = append(parts, fmt.Sprintf("%s %d (%+d)",
			b.catalog.Sprintf(lang, a.key), a.score, entities.AbilityModifier(a.score)))
	}

	return strings.TrimSpace(b.catalog.Sprintf(lang, i18n.KeyStatsBlock,
		c.Name, c.Level, c.Class,
		c.HP, c.MaxHP, c.MP, c.MaxMP, c.AC,
		strings.Join(parts, ", "),
	))
}

// RulesExcerpt returns the reference text of the topics triggered by the
// recent conversation, or "" when none match
func (b *Builder) RulesExcerpt(sess *entities.Session, pending ...entities.Message) string {
	if b.rules.MaxTopics == 0 {
		return ""
	}

	recent := b.recentText(sess, pending)
	var picked []string
	for _, topic := range b.rules.Topics {
		if !recent.containsAny(topic.Keywords) {
			continue
		}
		picked = append(picked, topic.TextFor(sess.Language))
		if len(picked) == b.rules.MaxTopics {
			break
		}
	}
	return strings.Join(picked, "\n\n")
}

// CombatActive reports whether combat keywords appear in the trailing
// window of conversation. Best-effort: narration that merely mentions a
// sword counts.
func (b *Builder) CombatActive(sess *entities.Session, pending ...entities.Message) bool {
	return b.recentText(sess, pending).containsAny(b.rules.CombatKeywords)
}

// IsInterrogative reports whether text asks the player what they do
func (b *Builder) IsInterrogative(s string) bool {
	return normalize(s).containsAny(b.rules.Interrogatives)
}

// ExpectsRoll reports whether the step answers a player action during
// combat, in which case the model should resolve it with a roll
func (b *Builder) ExpectsRoll(sess *entities.Session, pending ...entities.Message) bool {
	last, ok := lastOf(sess.History, pending)
	if !ok || last.Role != entities.RoleUser {
		return false
	}
	return b.CombatActive(sess, pending...)
}

// recentText joins the last Window player and narrator messages. System
// messages are skipped: the system prompt itself talks about combat.
func (b *Builder) recentText(sess *entities.Session, pending []entities.Message) text {
	all := make([]entities.Message, 0, len(sess.History)+len(pending))
	all = append(all, sess.History...)
	all = append(all, pending...)

	var parts []string
	for i := len(all) - 1; i >= 0 && len(parts) < b.rules.Window; i-- {
		if all[i].Role == entities.RoleSystem {
			continue
		}
		parts = append(parts, all[i].Content)
	}
	return normalize(strings.Join(parts, "\n"))
}

func lastOf(history, pending []entities.Message) (entities.Message, bool) {
	if len(pending) > 0 {
		return pending[len(pending)-1], true
	}
	if len(history) > 0 {
		return history[len(history)-1], true
	}
	return entities.Message{}, false
}

func (b *Builder) companionNames(companions []entities.Companion, lang string) string {
	if len(companions) == 0 {
		return b.catalog.Sprintf(lang, i18n.KeyNoCompanions)
	}
	names := make([]string, 0, len(companions))
	for _, c := range companions {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
