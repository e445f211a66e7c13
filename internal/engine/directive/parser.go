// Package directive extracts the bracketed control tags the narrator
// emits ([[ROLL: 1d20+3]], [[UPDATE_STATS: {...}]], ...) and strips them
// from the text that is shown to the player and kept in history.
package directive

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
)

var (
	rollRegex        = regexp.MustCompile(`\[\[\s*(ROLL_GROUP|ROLL)\s*:\s*([^\]]*?)\s*\]\]`)
	statsRegex       = regexp.MustCompile(`(?s)\[\[\s*UPDATE_STATS\s*:\s*(\{.*?\})\s*\]\]`)
	coordinatesRegex = regexp.MustCompile(`(?i)\[\[\s*coordinates\s*\[\s*x\s*:\s*(-?\d+)\s*,\s*y\s*:\s*(-?\d+)\s*\]\s*\]\]`)
	addCompanion     = regexp.MustCompile(`(?s)\[\[\s*ADD_COMPANION\s*:\s*(\{.*?\})\s*\]\]`)
	removeCompanion  = regexp.MustCompile(`\[\[\s*REMOVE_COMPANION\s*:\s*"?([^"\]]+?)"?\s*\]\]`)

	// NAME: {json} tags, whose payload may span lines
	payloadTagRegex = regexp.MustCompile(`(?s)\[\[\s*[A-Z_]+\s*:\s*\{[^\[\]]*?\}\s*\]\]`)
	// any single-line [[...]] tag, including the triple-bracket coordinate
	// form. A stray "[[" never reaches past the next "[[" or line end.
	anyTagRegex = regexp.MustCompile(`\[\[[^\[\]\n]*(?:\[[^\[\]\n]*\])?[^\[\]\n]*\]\]\]?`)
	// a tag cut off by truncation at the end of the text
	danglingTagRegex = regexp.MustCompile(`\[\[[^\[\]\n]*$`)

	explicitPlusRegex = regexp.MustCompile(`:\s*\+(\d)`)
	blankRunRegex     = regexp.MustCompile(`[ \t]{2,}`)
	blankLinesRegex   = regexp.MustCompile(`\n{3,}`)
)

// Parse recognizes every directive kind in text
func Parse(text string) *Set {
	return &Set{
		Roll:             FindRoll(text),
		Stats:            FindStats(text),
		Coordinates:      FindCoordinates(text),
		AddCompanions:    FindAddCompanions(text),
		RemoveCompanions: FindRemoveCompanions(text),
		Narrative:        Strip(text),
	}
}

// FindRoll returns the earliest ROLL or ROLL_GROUP directive, or nil
func FindRoll(text string) *Roll {
	loc := rollRegex.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil
	}

	roll := &Roll{
		Kind:       Kind(text[loc[2]:loc[3]]),
		Expression: text[loc[4]:loc[5]],
		Raw:        text[loc[0]:loc[1]],
		Start:      loc[0],
		End:        loc[1],
	}
	switch roll.Kind {
	case KindRollGroup:
		roll.Entries = parseGroup(roll.Expression)
	default:
		if label, expr, found := strings.Cut(roll.Expression, "="); found {
			roll.Label = strings.TrimSpace(label)
			roll.Expression = strings.TrimSpace(expr)
		}
	}
	return roll
}

// parseGroup splits "name=expr, name=expr". Entries without a name keep
// the expression and an empty name; empty entries are dropped.
func parseGroup(body string) []GroupEntry {
	var entries []GroupEntry
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, expr, found := strings.Cut(part, "=")
		if !found {
			entries = append(entries, GroupEntry{Expression: part})
			continue
		}
		entries = append(entries, GroupEntry{
			Name:       strings.TrimSpace(name),
			Expression: strings.TrimSpace(expr),
		})
	}
	return entries
}

// FindStats returns every well-formed UPDATE_STATS payload in order.
// Malformed JSON drops that directive only.
func FindStats(text string) []StatUpdate {
	var updates []StatUpdate
	for _, m := range statsRegex.FindAllStringSubmatch(text, -1) {
		payload := explicitPlusRegex.ReplaceAllString(m[1], ": $1")

		var update StatUpdate
		if err := json.Unmarshal([]byte(payload), &update); err != nil {
			slog.Debug("ignoring malformed stats directive", "payload", m[1], "error", err)
			continue
		}
		if update.IsEmpty() {
			continue
		}
		updates = append(updates, update)
	}
	return updates
}

// FindCoordinates returns the last coordinate directive, or nil
func FindCoordinates(text string) *Coordinates {
	all := coordinatesRegex.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return nil
	}

	m := all[len(all)-1]
	x, errX := strconv.Atoi(m[1])
	y, errY := strconv.Atoi(m[2])
	if errX != nil || errY != nil {
		return nil
	}
	return &Coordinates{X: x, Y: y}
}

// FindAddCompanions returns every ADD_COMPANION record with a name
func FindAddCompanions(text string) []entities.Companion {
	var out []entities.Companion
	for _, m := range addCompanion.FindAllStringSubmatch(text, -1) {
		var c entities.Companion
		if err := json.Unmarshal([]byte(m[1]), &c); err != nil {
			slog.Debug("ignoring malformed companion directive", "payload", m[1], "error", err)
			continue
		}
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FindRemoveCompanions returns every REMOVE_COMPANION name
func FindRemoveCompanions(text string) []string {
	var out []string
	for _, m := range removeCompanion.FindAllStringSubmatch(text, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Strip removes every [[...]] tag, recognized or not, and tidies the
// whitespace left behind.
func Strip(text string) string {
	// dangling first: once complete tags are gone a stray "[[" could
	// look like one
	out := danglingTagRegex.ReplaceAllString(text, "")
	out = payloadTagRegex.ReplaceAllString(out, "")
	out = anyTagRegex.ReplaceAllString(out, "")
	out = blankRunRegex.ReplaceAllString(out, " ")

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out = blankLinesRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")

	return strings.TrimSpace(out)
}
