package prompt

import (
	_ "embed"
	"os"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

const (
	defaultWindow    = 6
	defaultMaxTopics = 2
)

//go:embed rules.yaml
var defaultRules []byte

// Topic is a block of reference text injected when any keyword appears in
// the recent conversation
type Topic struct {
	Name     string            `yaml:"name"`
	Keywords []string          `yaml:"keywords"`
	Text     map[string]string `yaml:"text"`
}

// TextFor returns the topic text in lang, falling back to English
func (t Topic) TextFor(lang string) string {
	if text, ok := t.Text[lang]; ok {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(t.Text[entities.LanguageEnglish])
}

// Rulebook is the keyword data that drives prompt assembly
type Rulebook struct {
	Window         int      `yaml:"window"`
	MaxTopics      int      `yaml:"max_topics"`
	CombatKeywords []string `yaml:"combat_keywords"`
	Interrogatives []string `yaml:"interrogatives"`
	Topics         []Topic  `yaml:"topics"`
}

// DefaultRulebook returns the embedded rulebook
func DefaultRulebook() (*Rulebook, error) {
	return ParseRulebook(defaultRules)
}

// LoadRulebook reads a rulebook file; an empty path selects the embedded one
func LoadRulebook(path string) (*Rulebook, error) {
	if path == "" {
		return DefaultRulebook()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rulebook %s", path)
	}

	rb, err := ParseRulebook(data)
	if err != nil {
		return nil, errors.Wrapf(err, "rulebook %s", path)
	}
	return rb, nil
}

// ParseRulebook decodes and validates YAML rulebook data
func ParseRulebook(data []byte) (*Rulebook, error) {
	// keys absent from data keep these; an explicit max_topics: 0
	// turns the rules excerpt off
	rb := Rulebook{Window: defaultWindow, MaxTopics: defaultMaxTopics}
	if err := yaml.Unmarshal(data, &rb); err != nil {
		return nil, errors.InvalidArgumentf("invalid rulebook yaml: %v", err)
	}

	if err := rb.Validate(); err != nil {
		return nil, err
	}

	rb.CombatKeywords = normalizeAll(rb.CombatKeywords)
	rb.Interrogatives = normalizeAll(rb.Interrogatives)
	for i := range rb.Topics {
		rb.Topics[i].Keywords = normalizeAll(rb.Topics[i].Keywords)
	}

	return &rb, nil
}

// Validate checks the rulebook is usable
func (r *Rulebook) Validate() error {
	vb := errors.NewValidationBuilder()

	if r.Window < 1 {
		vb.InvalidField("window", "must be positive")
	}
	if r.MaxTopics < 0 {
		vb.InvalidField("max_topics", "must not be negative")
	}

	for i, t := range r.Topics {
		if strings.TrimSpace(t.Name) == "" {
			vb.Fieldf("topics", "topic %d has no name", i)
		}
		if len(t.Keywords) == 0 {
			vb.Fieldf("topics", "topic %q has no keywords", t.Name)
		}
		if t.TextFor(entities.LanguageEnglish) == "" {
			vb.Fieldf("topics", "topic %q has no english text", t.Name)
		}
	}

	return vb.Build()
}

// text is a word-normalized view of free text used for keyword matching
type text string

func normalize(s string) text {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	return text(" " + strings.Join(words, " ") + " ")
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		n := strings.TrimSpace(string(normalize(k)))
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func (t text) containsAny(keywords []string) bool {
	if t == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(string(t), " "+k+" ") {
			return true
		}
	}
	return false
}
