// Package fallback recovers HP and MP values from narrative prose when the
// model forgot the structured stats directive. It is a secondary path:
// anything it returns is less trustworthy than an UPDATE_STATS tag.
package fallback

import (
	"regexp"
	"strconv"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
)

// Reading holds absolute values recovered from text; nil means not found
// or rejected.
type Reading struct {
	HP *int
	MP *int
}

// IsEmpty reports whether nothing usable was found
func (r Reading) IsEmpty() bool {
	return r.HP == nil && r.MP == nil
}

// Extractor recovers stat values from free text
type Extractor interface {
	Extract(text string, character entities.Character) Reading
}

var (
	hpRegex = regexp.MustCompile(`(?i)\b(?:hp|pv|hit points|points de vie)\s*[:=]\s*(-?\d+)(?:\s*/\s*(\d+))?`)
	mpRegex = regexp.MustCompile(`(?i)\b(?:mp|pm|mana|points de magie)\s*[:=]\s*(-?\d+)(?:\s*/\s*(\d+))?`)
)

// RegexExtractor reads "label: value[/max]" patterns
type RegexExtractor struct{}

// NewRegexExtractor creates the default extractor
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Extract uses the last match per stat. A "value/max" form is accepted
// only when max equals the character's known max. A bare value is clamped
// into [0, max].
func (e *RegexExtractor) Extract(text string, character entities.Character) Reading {
	return Reading{
		HP: readStat(hpRegex, text, character.MaxHP),
		MP: readStat(mpRegex, text, character.MaxMP),
	}
}

func readStat(re *regexp.Regexp, text string, knownMax int) *int {
	if knownMax <= 0 {
		return nil
	}

	all := re.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return nil
	}
	m := all[len(all)-1]

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	if m[2] != "" {
		statedMax, err := strconv.Atoi(m[2])
		if err != nil || statedMax != knownMax {
			return nil
		}
	}

	value = min(max(value, 0), knownMax)
	return &value
}

// Disabled never extracts anything
type Disabled struct{}

// Extract implements Extractor
func (Disabled) Extract(string, entities.Character) Reading {
	return Reading{}
}
