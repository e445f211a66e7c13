package entities

import (
	"fmt"
	"strings"
)

// Map node categories and statuses
const (
	NodeCategoryLocation = "location"

	NodeStatusVisited = "visited"
	NodeStatusKnown   = "known"

	// EntityTypeCompanion identifies companions on the event bus
	EntityTypeCompanion = "companion"
)

// Position is a point on the session's integer grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the position the way map node names do
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// MapNode is a discovered location. Nodes are unique per coordinate.
type MapNode struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// Position returns the node's coordinate
func (n MapNode) Position() Position {
	return Position{X: n.X, Y: n.Y}
}

// Companion is a named ally travelling with the player
type Companion struct {
	Name        string `json:"name"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
}

// GetID implements core.Entity
func (c *Companion) GetID() string {
	return c.Name
}

// GetType implements core.Entity
func (c *Companion) GetType() string {
	return EntityTypeCompanion
}

// sameName compares companion names ignoring case and surrounding space
func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
