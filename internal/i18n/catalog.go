// Package i18n holds the narrator's localized prompt and system texts.
// Catalogs are YAML files embedded at build time and registered with
// golang.org/x/text so formatting follows the session language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the language every key must be defined in
const BaseLocale = "en"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog formats localized messages
type Catalog struct {
	builder *catalog.Builder
	locales map[string]map[string]string
}

// Load reads the embedded catalogs
func Load() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// MustLoad is Load for package-level wiring; it panics on a broken build
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFromFS reads locales/*.yaml from fsys
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	slices.Sort(paths)

	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		locales: map[string]map[string]string{},
	}

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}

		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}

	if err := c.checkComplete(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) add(p string, file localeFile) error {
	locale := strings.TrimSpace(file.Locale)
	if want := strings.TrimSuffix(path.Base(p), path.Ext(p)); locale != want {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, want)
	}
	if _, dup := c.locales[locale]; dup {
		return fmt.Errorf("catalog %s: locale %q defined twice", p, locale)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale: %w", p, err)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, msg := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: blank message key", p)
		}
		msg = strings.TrimRight(msg, "\n")
		if err := c.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s: key %q: %w", p, key, err)
		}
		messages[key] = msg
	}
	c.locales[locale] = messages
	return nil
}

func (c *Catalog) checkComplete() error {
	base, ok := c.locales[BaseLocale]
	if !ok {
		return fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	for _, key := range allKeys {
		if _, ok := base[key]; !ok {
			return fmt.Errorf("base locale %s is missing key %q", BaseLocale, key)
		}
	}
	return nil
}

// Locales returns the loaded locale identifiers in order
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.locales))
	for l := range c.locales {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Has reports whether locale defines key itself, without fallback
func (c *Catalog) Has(locale, key string) bool {
	_, ok := c.locales[locale][key]
	return ok
}

// Sprintf formats key for locale. Unknown locales and keys missing from
// a locale fall back to English.
func (c *Catalog) Sprintf(locale, key string, args ...any) string {
	tag := language.English
	if c.Has(locale, key) {
		tag = language.Make(locale)
	}
	p := message.NewPrinter(tag, message.Catalog(c.builder))
	return p.Sprintf(key, args...)
}

var allKeys = []string{
	KeySystemPrompt, KeyStatsBlock, KeyRulesExcerpt,
	KeyRemindCoords, KeyRemindCombat, KeyRemindCompanion,
	KeyCorrectRollQuestion, KeyCorrectMissingRoll, KeyCorrectCoordinates,
	KeyRollResult, KeyRollResultLabeled, KeyRollGroupHeader, KeyRollGroupLine,
	KeyModelUnavailable, KeyNoCompanions,
	KeyStatSTR, KeyStatDEX, KeyStatCON, KeyStatINT, KeyStatWIS, KeyStatCHA,
}
