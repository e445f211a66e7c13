package i18n_test

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gm/internal/i18n"
)

type CatalogTestSuite struct {
	suite.Suite
	catalog *i18n.Catalog
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) SetupTest() {
	c, err := i18n.Load()
	s.Require().NoError(err)
	s.catalog = c
}

func (s *CatalogTestSuite) TestEmbeddedLocales() {
	s.Equal([]string{"en", "fr"}, s.catalog.Locales())
}

func (s *CatalogTestSuite) TestRollResult() {
	s.Equal("Rolled 1d20+2. Result: 17 (Dice: 15)",
		s.catalog.Sprintf("en", i18n.KeyRollResult, "1d20+2", 17, "15"))
	s.Equal("Lancer 1d20+2. Résultat : 17 (Dés : 15)",
		s.catalog.Sprintf("fr", i18n.KeyRollResult, "1d20+2", 17, "15"))
}

func (s *CatalogTestSuite) TestStatLabels() {
	s.Equal("STR", s.catalog.Sprintf("en", i18n.KeyStatSTR))
	s.Equal("FOR", s.catalog.Sprintf("fr", i18n.KeyStatSTR))
	s.Equal("SAG", s.catalog.Sprintf("fr", i18n.KeyStatWIS))
}

func (s *CatalogTestSuite) TestUnknownLocaleFallsBackToEnglish() {
	s.Equal("STR", s.catalog.Sprintf("de", i18n.KeyStatSTR))
}

func (s *CatalogTestSuite) TestStatsBlockArgumentOrder() {
	fr := s.catalog.Sprintf("fr", i18n.KeyStatsBlock, "Arin", 3, "Guerrier", 10, 12, 0, 0, 10, "FOR 10 (+0)")
	s.Contains(fr, "Arin, Guerrier de niveau 3")

	en := s.catalog.Sprintf("en", i18n.KeyStatsBlock, "Arin", 3, "Fighter", 10, 12, 0, 0, 10, "STR 10 (+0)")
	s.Contains(en, "Arin, level 3 Fighter")
	s.Contains(en, "HP 10/12, MP 0/0, AC 10")
}

// formatArgs mirrors the arguments each call site passes. Values are
// distinct so a misplaced or dropped verb shows up as a missing value.
var formatArgs = map[string][]any{
	i18n.KeySystemPrompt:        {"Arin", "Elf", "Wizard"},
	i18n.KeyStatsBlock:          {"Arin", 7, "Wizard", 21, 22, 13, 14, 16, "INT 18 (+4)"},
	i18n.KeyRulesExcerpt:        {"Resting heals."},
	i18n.KeyRemindCoords:        nil,
	i18n.KeyRemindCombat:        nil,
	i18n.KeyRemindCompanion:     {"Kaelen, Mira"},
	i18n.KeyCorrectRollQuestion: nil,
	i18n.KeyCorrectMissingRoll:  nil,
	i18n.KeyCorrectCoordinates:  {"{3, -2}"},
	i18n.KeyRollResult:          {"1d20+2", 17, "15"},
	i18n.KeyRollResultLabeled:   {"Perception", "1d20+2", 17, "15"},
	i18n.KeyRollGroupHeader:     nil,
	i18n.KeyRollGroupLine:       {2, "Goblin", 13, "1d20+3", "10"},
	i18n.KeyModelUnavailable:    nil,
	i18n.KeyNoCompanions:        nil,
	i18n.KeyStatSTR:             nil,
	i18n.KeyStatDEX:             nil,
	i18n.KeyStatCON:             nil,
	i18n.KeyStatINT:             nil,
	i18n.KeyStatWIS:             nil,
	i18n.KeyStatCHA:             nil,
}

func (s *CatalogTestSuite) TestEveryKeyFormatsInEveryLocale() {
	s.Len(formatArgs, len(everyKey))

	for _, locale := range s.catalog.Locales() {
		for _, key := range everyKey {
			args, ok := formatArgs[key]
			s.Require().True(ok, "no arguments listed for %s", key)

			s.Run(locale+"/"+key, func() {
				s.True(s.catalog.Has(locale, key))

				out := s.catalog.Sprintf(locale, key, args...)
				s.NotEmpty(out)
				s.NotContains(out, "%!")
				for _, arg := range args {
					s.Contains(out, fmt.Sprint(arg))
				}
			})
		}
	}
}

func (s *CatalogTestSuite) TestFrenchStatsBlock() {
	fr := s.catalog.Sprintf("fr", i18n.KeyStatsBlock, "Arin", 3, "Guerrier", 10, 12, 4, 5, 16, "FOR 10 (+0), SAG 15 (+2)")
	s.Contains(fr, "Arin, Guerrier de niveau 3")
	s.Contains(fr, "PV 10/12, PM 4/5, CA 16")
	s.Contains(fr, "SAG 15 (+2)")
}

func (s *CatalogTestSuite) TestMissingKeyFallsBackToEnglish() {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte(fullEnglish())},
		"locales/fr.yaml": {Data: []byte("locale: fr\nmessages:\n  stat.str: FOR\n")},
	}
	c, err := i18n.LoadFromFS(fsys)
	s.Require().NoError(err)

	s.Equal("FOR", c.Sprintf("fr", i18n.KeyStatSTR))
	s.Equal("DEX", c.Sprintf("fr", i18n.KeyStatDEX))
	s.False(c.Has("fr", i18n.KeyStatDEX))
}

func (s *CatalogTestSuite) TestLoadFromFSErrors() {
	testCases := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name:  "no files",
			files: fstest.MapFS{},
			want:  "no locale catalogs",
		},
		{
			name: "locale mismatch",
			files: fstest.MapFS{
				"locales/en.yaml": {Data: []byte("locale: fr\nmessages:\n  stat.str: FOR\n")},
			},
			want: "must match file name",
		},
		{
			name: "missing base key",
			files: fstest.MapFS{
				"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  stat.str: STR\n")},
			},
			want: "missing key",
		},
		{
			name: "missing base locale",
			files: fstest.MapFS{
				"locales/fr.yaml": {Data: []byte("locale: fr\nmessages:\n  stat.str: FOR\n")},
			},
			want: "base locale en",
		},
		{
			name: "bad yaml",
			files: fstest.MapFS{
				"locales/en.yaml": {Data: []byte("locale: [en\n")},
			},
			want: "parse catalog",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := i18n.LoadFromFS(tc.files)
			s.Require().Error(err)
			s.Contains(err.Error(), tc.want)
		})
	}
}

var everyKey = []string{
	i18n.KeySystemPrompt, i18n.KeyStatsBlock, i18n.KeyRulesExcerpt,
	i18n.KeyRemindCoords, i18n.KeyRemindCombat, i18n.KeyRemindCompanion,
	i18n.KeyCorrectRollQuestion, i18n.KeyCorrectMissingRoll, i18n.KeyCorrectCoordinates,
	i18n.KeyRollResult, i18n.KeyRollResultLabeled, i18n.KeyRollGroupHeader, i18n.KeyRollGroupLine,
	i18n.KeyModelUnavailable, i18n.KeyNoCompanions,
	i18n.KeyStatSTR, i18n.KeyStatDEX, i18n.KeyStatCON, i18n.KeyStatINT, i18n.KeyStatWIS, i18n.KeyStatCHA,
}

func fullEnglish() string {
	out := "locale: en\nmessages:\n"
	for _, key := range everyKey {
		if key == i18n.KeyStatDEX {
			continue
		}
		out += "  " + key + ": x\n"
	}
	return out + "  " + i18n.KeyStatDEX + ": DEX\n"
}
