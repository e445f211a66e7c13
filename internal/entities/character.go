// Package entities holds the game-master domain model: the player
// character, the session it lives in and the world state the narrator
// builds up around it.
package entities

import "strings"

const (
	// EntityTypeCharacter identifies player characters on the event bus
	EntityTypeCharacter = "character"

	defaultLevel        = 1
	defaultAbilityScore = 10
	baseArmorClass      = 10
	baseHitPoints       = 10
	minimumHitPoints    = 1
)

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"str"`
	Dexterity    int `json:"dex"`
	Constitution int `json:"con"`
	Intelligence int `json:"int"`
	Wisdom       int `json:"wis"`
	Charisma     int `json:"cha"`
}

// Spell is a freeform spell entry carried on the character sheet
type Spell struct {
	Name   string `json:"name"`
	Cost   string `json:"cost,omitempty"`
	Effect string `json:"effect,omitempty"`
	HitDC  string `json:"hitDc,omitempty"`
}

// Character is the player's avatar. HP and MP are always kept inside
// [0, max]; MaxHP is at least 1 once normalized.
type Character struct {
	Name   string        `json:"name"`
	Gender string        `json:"gender,omitempty"`
	Race   string        `json:"race"`
	Class  string        `json:"class"`
	Level  int           `json:"level"`
	Stats  AbilityScores `json:"stats"`
	HP     int           `json:"hp"`
	MaxHP  int           `json:"maxHp"`
	MP     int           `json:"mp"`
	MaxMP  int           `json:"maxMp"`
	AC     int           `json:"ac"`
	Spells []Spell       `json:"spells,omitempty"`
}

// AbilityModifier returns the D&D style modifier, floor((score-10)/2)
func AbilityModifier(score int) int {
	modifier := (score - 10) / 2
	if score < 10 && (score-10)%2 != 0 {
		modifier--
	}
	return modifier
}

// Normalize fills unset values: abilities of 0 become 10, level 1, max HP
// from constitution, HP/MP at their maximum and AC from dexterity.
func (c *Character) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	for _, score := range []*int{
		&c.Stats.Strength, &c.Stats.Dexterity, &c.Stats.Constitution,
		&c.Stats.Intelligence, &c.Stats.Wisdom, &c.Stats.Charisma,
	} {
		if *score == 0 {
			*score = defaultAbilityScore
		}
	}
	if c.Level <= 0 {
		c.Level = defaultLevel
	}
	if c.MaxHP <= 0 {
		c.MaxHP = baseHitPoints + AbilityModifier(c.Stats.Constitution)
	}
	if c.MaxHP < minimumHitPoints {
		c.MaxHP = minimumHitPoints
	}
	if c.HP <= 0 || c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	if c.MaxMP < 0 {
		c.MaxMP = 0
	}
	if c.MP <= 0 || c.MP > c.MaxMP {
		c.MP = c.MaxMP
	}
	if c.AC <= 0 {
		c.AC = baseArmorClass + AbilityModifier(c.Stats.Dexterity)
	}
}

// AdjustHP applies a signed delta and returns the clamped result
func (c *Character) AdjustHP(delta int) int {
	c.HP = clamp(c.HP+delta, 0, c.MaxHP)
	return c.HP
}

// AdjustMP applies a signed delta and returns the clamped result
func (c *Character) AdjustMP(delta int) int {
	c.MP = clamp(c.MP+delta, 0, c.MaxMP)
	return c.MP
}

// SetHP sets an absolute value, clamped to [0, MaxHP]
func (c *Character) SetHP(value int) int {
	c.HP = clamp(value, 0, c.MaxHP)
	return c.HP
}

// SetMP sets an absolute value, clamped to [0, MaxMP]
func (c *Character) SetMP(value int) int {
	c.MP = clamp(value, 0, c.MaxMP)
	return c.MP
}

// SetAC overwrites armor class; negative values are floored at zero
func (c *Character) SetAC(value int) int {
	c.AC = max(value, 0)
	return c.AC
}

// IsDown reports whether the character is at zero hit points
func (c *Character) IsDown() bool {
	return c.HP == 0
}

// GetID implements core.Entity
func (c *Character) GetID() string {
	return c.Name
}

// GetType implements core.Entity
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
