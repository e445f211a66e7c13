package turn

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/rpg-gm/internal/clients/llm"
	"github.com/KirkDiggler/rpg-gm/internal/engine/dice"
	"github.com/KirkDiggler/rpg-gm/internal/engine/directive"
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	"github.com/KirkDiggler/rpg-gm/internal/i18n"
)

const maxNodeDescription = 160

// stepResult is what one step produced after the session was mutated
type stepResult struct {
	status      Status
	message     string
	narrative   string
	rolls       []*entities.RollResult
	corrections []Correction
	events      []events.Event
}

// step runs one narrator call against sess. Every model call happens
// before sess is touched, so an error return leaves it unchanged.
func (o *orchestrator) step(ctx context.Context, sess *entities.Session, pending []entities.Message) (*stepResult, error) {
	ctx, span := o.tracer.Start(ctx, "turn.step", trace.WithAttributes(
		attribute.String("gm.session_id", sess.ID),
		attribute.String("gm.model", sess.Model),
		attribute.Int("gm.history", len(sess.History)),
	))
	defer span.End()

	res := &stepResult{status: StatusComplete}
	lang := sess.Language
	prompt := o.prompts.Build(sess, pending...)

	raw, err := o.complete(ctx, "narrate", sess.Model, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		if errors.IsCanceled(err) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable,
			o.catalog.Sprintf(lang, i18n.KeyModelUnavailable)).
			WithMeta("session_id", sess.ID)
	}

	text := o.sanitizer.Sanitize(raw)
	roll := directive.FindRoll(text)

	// A roll must end the narration, and combat actions must be resolved
	// with one before asking the player anything.
	if correction, violated := o.protocolViolation(sess, pending, text, roll); violated {
		res.corrections = append(res.corrections, CorrectionProtocol)
		retry := appendCorrection(prompt, text, o.catalog.Sprintf(lang, correction))

		fixed, err := o.complete(ctx, "protocol_correction", sess.Model, retry)
		switch {
		case err != nil:
			slog.Warn("Protocol correction failed, keeping original narration",
				"session_id", sess.ID, "error", err)
		case strings.TrimSpace(fixed) == "":
			slog.Warn("Protocol correction returned nothing", "session_id", sess.ID)
		default:
			text = o.sanitizer.Sanitize(fixed)
			roll = directive.FindRoll(text)
		}
	}

	full := text
	retained := text
	if roll != nil {
		retained = o.sanitizer.TruncateAtDirective(text, roll.End)
	}
	retained = o.sanitizer.TruncateAtSystemLabel(retained)
	if roll != nil && !strings.Contains(retained, roll.Raw) {
		roll = directive.FindRoll(retained)
	}

	coords := directive.FindCoordinates(full)
	if coords == nil {
		res.corrections = append(res.corrections, CorrectionCoordinates)
		retry := appendCorrection(prompt, retained,
			o.catalog.Sprintf(lang, i18n.KeyCorrectCoordinates, sess.Position.String()))

		reply, err := o.complete(ctx, "coordinates_correction", sess.Model, retry)
		if err != nil {
			slog.Warn("Coordinate correction failed, position unchanged",
				"session_id", sess.ID, "error", err)
		} else {
			coords = directive.FindCoordinates(o.sanitizer.Sanitize(reply))
		}
	}

	// Nothing below calls the model; mutate the session.
	narrative := directive.Strip(retained)
	sess.Append(pending...)
	if narrative != "" {
		sess.Append(entities.AssistantMessage(narrative))
	}

	if coords != nil {
		res.events = append(res.events, o.applyPosition(sess, coords.Position(), narrative)...)
	}
	res.events = append(res.events, o.applyStats(sess, retained)...)
	res.events = append(res.events, o.applyCompanions(sess, retained)...)

	if roll != nil {
		results, summary, err := o.executeRoll(lang, roll)
		if err != nil {
			slog.Warn("Ignoring unrollable directive",
				"session_id", sess.ID, "directive", roll.Raw, "error", err)
		} else {
			sess.Append(entities.SystemMessage(summary))
			res.rolls = results
			res.status = StatusContinue
			for _, r := range results {
				res.events = append(res.events, o.newEvent(EventRollPerformed, &sess.Character, sess, map[string]any{
					KeyRollID:      r.ID,
					KeyExpression:  r.Expression,
					KeyLabel:       r.Label,
					KeyTotal:       r.Total,
					KeySessionID:   sess.ID,
					KeyDiceResults: slices.Clone(r.Rolls),
				}))
			}
		}
	}

	res.message = retained
	res.narrative = narrative

	span.SetAttributes(
		attribute.String("gm.status", string(res.status)),
		attribute.Int("gm.rolls", len(res.rolls)),
		attribute.Int("gm.corrections", len(res.corrections)),
	)
	slog.Info("Turn step complete",
		"session_id", sess.ID,
		"status", res.status,
		"rolls", len(res.rolls),
		"corrections", len(res.corrections))

	return res, nil
}

// complete is one traced model call
func (o *orchestrator) complete(ctx context.Context, purpose, model string, msgs []entities.Message) (string, error) {
	ctx, span := o.tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("gm.purpose", purpose),
		attribute.String("gm.model", model),
		attribute.Int("gm.messages", len(msgs)),
	))
	defer span.End()

	out, err := o.llm.Complete(ctx, &llm.CompleteInput{Model: model, Messages: msgs})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, purpose+" failed")
		return "", err
	}
	return out.Text, nil
}

// protocolViolation returns the catalog key of the corrective instruction
// when the narration breaks the roll protocol
func (o *orchestrator) protocolViolation(sess *entities.Session, pending []entities.Message, text string, roll *directive.Roll) (string, bool) {
	if !o.prompts.IsInterrogative(text) {
		return "", false
	}
	if roll != nil {
		return i18n.KeyCorrectRollQuestion, true
	}
	if o.prompts.ExpectsRoll(sess, pending...) {
		return i18n.KeyCorrectMissingRoll, true
	}
	return "", false
}

func appendCorrection(prompt []entities.Message, narration, instruction string) []entities.Message {
	out := make([]entities.Message, 0, len(prompt)+2)
	out = append(out, prompt...)
	out = append(out, entities.AssistantMessage(narration), entities.SystemMessage(instruction))
	return out
}

func (o *orchestrator) applyPosition(sess *entities.Session, pos entities.Position, narrative string) []events.Event {
	from := sess.Position
	added := sess.MoveTo(entities.MapNode{
		Name:        pos.String(),
		Category:    entities.NodeCategoryLocation,
		X:           pos.X,
		Y:           pos.Y,
		Status:      entities.NodeStatusVisited,
		Description: summarize(narrative),
	})
	if from == pos && !added {
		return nil
	}

	return []events.Event{o.newEvent(EventPositionChanged, &sess.Character, sess, map[string]any{
		KeySessionID: sess.ID,
		KeyFrom:      from.String(),
		KeyTo:        pos.String(),
		KeyNewNode:   added,
	})}
}

// applyStats applies every UPDATE_STATS in order. Without any, the
// fallback extractor may read absolute values from the prose.
func (o *orchestrator) applyStats(sess *entities.Session, text string) []events.Event {
	c := &sess.Character
	hp, mp, ac := c.HP, c.MP, c.AC

	updates := directive.FindStats(text)
	for _, u := range updates {
		if u.HP != nil {
			c.AdjustHP(*u.HP)
		}
		if u.MP != nil {
			c.AdjustMP(*u.MP)
		}
		if u.AC != nil {
			c.SetAC(*u.AC)
		}
	}

	source := "directive"
	if len(updates) == 0 {
		source = "prose"
		reading := o.fallback.Extract(text, *c)
		if reading.HP != nil {
			c.SetHP(*reading.HP)
		}
		if reading.MP != nil {
			c.SetMP(*reading.MP)
		}
	}

	if hp == c.HP && mp == c.MP && ac == c.AC {
		return nil
	}

	slog.Info("Character stats changed",
		"session_id", sess.ID, "source", source,
		"hp", c.HP, "mp", c.MP, "ac", c.AC)

	return []events.Event{o.newEvent(EventStatsChanged, c, sess, map[string]any{
		KeySessionID: sess.ID,
		KeySource:    source,
		KeyHP:        c.HP,
		KeyMP:        c.MP,
		KeyAC:        c.AC,
	})}
}

func (o *orchestrator) applyCompanions(sess *entities.Session, text string) []events.Event {
	var out []events.Event

	for _, companion := range directive.FindAddCompanions(text) {
		if !sess.AddCompanion(companion) {
			continue
		}
		out = append(out, o.newEvent(EventCompanionJoined, &companion, sess, map[string]any{
			KeySessionID: sess.ID,
			KeyName:      companion.Name,
		}))
	}

	for _, name := range directive.FindRemoveCompanions(text) {
		if !sess.RemoveCompanion(name) {
			continue
		}
		out = append(out, o.newEvent(EventCompanionLeft, &entities.Companion{Name: name}, sess, map[string]any{
			KeySessionID: sess.ID,
			KeyName:      name,
		}))
	}

	return out
}

// executeRoll rolls a directive and renders the system message recording
// it. Group results are ordered highest total first; ties keep the order
// the model listed them in.
func (o *orchestrator) executeRoll(lang string, roll *directive.Roll) ([]*entities.RollResult, string, error) {
	if roll.Kind != directive.KindRollGroup {
		result, err := o.dice.RollExpression(roll.Expression)
		if err != nil {
			return nil, "", err
		}
		result.ID = o.idGen.Generate()
		result.Label = roll.Label

		var summary string
		if result.Label != "" {
			summary = o.catalog.Sprintf(lang, i18n.KeyRollResultLabeled,
				result.Label, result.Expression, result.Total, dice.FormatRolls(result.Rolls))
		} else {
			summary = o.catalog.Sprintf(lang, i18n.KeyRollResult,
				result.Expression, result.Total, dice.FormatRolls(result.Rolls))
		}
		return []*entities.RollResult{result}, summary, nil
	}

	if len(roll.Entries) == 0 {
		return nil, "", errors.InvalidArgument("roll group has no entries")
	}

	results := make([]*entities.RollResult, 0, len(roll.Entries))
	for _, entry := range roll.Entries {
		result, err := o.dice.RollExpression(entry.Expression)
		if err != nil {
			return nil, "", errors.Wrapf(err, "group entry %q", entry.Name)
		}
		result.ID = o.idGen.Generate()
		result.Label = entry.Name
		results = append(results, result)
	}

	slices.SortStableFunc(results, func(a, b *entities.RollResult) int {
		return b.Total - a.Total
	})

	lines := []string{o.catalog.Sprintf(lang, i18n.KeyRollGroupHeader)}
	for i, r := range results {
		name := r.Label
		if name == "" {
			name = r.Expression
		}
		lines = append(lines, o.catalog.Sprintf(lang, i18n.KeyRollGroupLine,
			i+1, name, r.Total, r.Expression, dice.FormatRolls(r.Rolls)))
	}
	return results, strings.Join(lines, "\n"), nil
}

// summarize keeps the first line of a narrative, cut to a node-sized blurb
func summarize(narrative string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(narrative), "\n")
	if utf8.RuneCountInString(line) <= maxNodeDescription {
		return line
	}

	runes := []rune(line)[:maxNodeDescription]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > maxNodeDescription/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}
