package turn

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types published on the bus after a step is committed
const (
	EventRollPerformed   = "gm.roll.performed"
	EventStatsChanged    = "gm.stats.changed"
	EventPositionChanged = "gm.position.changed"
	EventCompanionJoined = "gm.companion.joined"
	EventCompanionLeft   = "gm.companion.left"
)

// Event context keys
const (
	KeySessionID   = "session_id"
	KeyRollID      = "roll_id"
	KeyExpression  = "expression"
	KeyLabel       = "label"
	KeyTotal       = "total"
	KeyDiceResults = "dice"
	KeySource      = "source"
	KeyHP          = "hp"
	KeyMP          = "mp"
	KeyAC          = "ac"
	KeyFrom        = "from"
	KeyTo          = "to"
	KeyNewNode     = "new_node"
	KeyName        = "name"
)

func (o *orchestrator) newEvent(eventType string, source, target core.Entity, data map[string]any) events.Event {
	event := events.NewGameEvent(eventType, source, target)
	for k, v := range data {
		event.Context().Set(k, v)
	}
	return event
}

// publishAll delivers events in order. Handler failures are logged; the
// step that produced them is already committed.
func (o *orchestrator) publishAll(ctx context.Context, evts []events.Event) {
	if o.bus == nil {
		return
	}
	for _, event := range evts {
		if err := o.bus.Publish(ctx, event); err != nil {
			slog.Warn("Event handler failed", "event", event.Type(), "error", err)
		}
	}
}
