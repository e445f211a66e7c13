// Package dice parses dice expressions such as "1d20+3" and rolls them
// through an rpg-toolkit Roller so tests can script every die.
package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

const (
	// MaxCount bounds how many dice a single expression may roll
	MaxCount = 100
	// MaxSides bounds the die size
	MaxSides = 1000
	// MaxModifier bounds the flat modifier
	MaxModifier = 1000
)

// The whole (trimmed) input must be one expression.
var notationRegex = regexp.MustCompile(`(?i)^(\d+)d(\d+)(?:\s*([-+])\s*(\d+))?$`)

// Spec is a parsed dice expression
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// String renders the canonical form, e.g. "2d6-1"
func (s Spec) String() string {
	switch {
	case s.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", s.Count, s.Sides, s.Modifier)
	case s.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", s.Count, s.Sides, s.Modifier)
	default:
		return fmt.Sprintf("%dd%d", s.Count, s.Sides)
	}
}

// Parse reads "NdM[+/-K]". Surrounding whitespace is ignored; anything
// else around the expression is rejected. Count and sides must be at
// least 1.
func Parse(expression string) (Spec, error) {
	matches := notationRegex.FindStringSubmatch(strings.TrimSpace(expression))
	if matches == nil {
		return Spec{}, errors.InvalidArgumentf("not a dice expression: %q", expression)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil || count < 1 || count > MaxCount {
		return Spec{}, errors.InvalidArgumentf("dice count must be between 1 and %d: %q", MaxCount, expression)
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil || sides < 1 || sides > MaxSides {
		return Spec{}, errors.InvalidArgumentf("die size must be between 1 and %d: %q", MaxSides, expression)
	}

	spec := Spec{Count: count, Sides: sides}
	if matches[3] != "" {
		modifier, err := strconv.Atoi(matches[4])
		if err != nil || modifier > MaxModifier {
			return Spec{}, errors.InvalidArgumentf("modifier must be at most %d: %q", MaxModifier, expression)
		}
		if matches[3] == "-" {
			modifier = -modifier
		}
		spec.Modifier = modifier
	}

	return spec, nil
}

// Engine rolls parsed expressions
type Engine struct {
	roller dice.Roller
}

// NewEngine creates an engine. A nil roller uses RandomRoller; pass
// dice.DefaultRoller for crypto-grade dice.
func NewEngine(roller dice.Roller) *Engine {
	if roller == nil {
		roller = NewRandomRoller()
	}
	return &Engine{roller: roller}
}

// Roll rolls every die of spec
func (e *Engine) Roll(spec Spec) (*entities.RollResult, error) {
	if spec.Count < 1 || spec.Sides < 1 {
		return nil, errors.InvalidArgumentf("cannot roll %s", spec)
	}

	rolls, err := e.roller.RollN(spec.Count, spec.Sides)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s", spec)
	}

	total := spec.Modifier
	for _, r := range rolls {
		total += r
	}

	return &entities.RollResult{
		Expression: spec.String(),
		Count:      spec.Count,
		Sides:      spec.Sides,
		Modifier:   spec.Modifier,
		Rolls:      rolls,
		Total:      total,
	}, nil
}

// RollExpression parses and rolls in one step
func (e *Engine) RollExpression(expression string) (*entities.RollResult, error) {
	spec, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return e.Roll(spec)
}

// FormatRolls renders individual dice as "3, 5, 1"
func FormatRolls(rolls []int) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}
