package entities_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
)

type CharacterTestSuite struct {
	suite.Suite
}

func TestCharacterSuite(t *testing.T) {
	suite.Run(t, new(CharacterTestSuite))
}

func (s *CharacterTestSuite) TestAbilityModifier() {
	testCases := []struct {
		score    int
		expected int
	}{
		{1, -5},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{12, 1},
		{15, 2},
		{20, 5},
	}

	for _, tc := range testCases {
		s.Equal(tc.expected, entities.AbilityModifier(tc.score), "score %d", tc.score)
	}
}

func (s *CharacterTestSuite) TestNormalizeDefaults() {
	c := entities.Character{
		Name:  "  Aria ",
		Race:  "Elf",
		Class: "Ranger",
		Stats: entities.AbilityScores{Constitution: 14, Dexterity: 16},
	}
	c.Normalize()

	s.Equal("Aria", c.Name)
	s.Equal(1, c.Level)
	s.Equal(12, c.MaxHP)
	s.Equal(12, c.HP)
	s.Equal(13, c.AC)
	s.Equal(0, c.MaxMP)
	s.Equal(0, c.MP)
	s.Equal(10, c.Stats.Strength)
	s.Equal(16, c.Stats.Dexterity)
}

func (s *CharacterTestSuite) TestNormalizeKeepsProvidedValues() {
	c := entities.Character{Name: "Bram", Level: 3, MaxHP: 20, HP: 7, MaxMP: 10, MP: 4, AC: 17}
	c.Normalize()

	s.Equal(3, c.Level)
	s.Equal(7, c.HP)
	s.Equal(4, c.MP)
	s.Equal(17, c.AC)
}

func (s *CharacterTestSuite) TestNormalizeMinimumHitPoints() {
	c := entities.Character{Name: "Frail", Stats: entities.AbilityScores{Constitution: -20}}
	c.Normalize()

	s.Equal(1, c.MaxHP)
	s.Equal(1, c.HP)
}

func (s *CharacterTestSuite) TestAdjustmentsClamp() {
	c := entities.Character{Name: "Aria", MaxHP: 10, HP: 10, MaxMP: 5, MP: 5}

	s.Equal(4, c.AdjustHP(-6))
	s.Equal(0, c.AdjustHP(-100))
	s.True(c.IsDown())
	s.Equal(10, c.AdjustHP(50))

	s.Equal(2, c.AdjustMP(-3))
	s.Equal(0, c.SetMP(-1))
	s.Equal(5, c.SetMP(9))

	s.Equal(7, c.SetHP(7))
	s.Equal(0, c.SetAC(-2))
	s.Equal(15, c.SetAC(15))
}
