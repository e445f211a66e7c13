package directive

import "github.com/KirkDiggler/rpg-gm/internal/entities"

// Kind distinguishes the two roll directive forms
type Kind string

// Roll directive kinds, spelled as they appear in model output
const (
	KindRoll      Kind = "ROLL"
	KindRollGroup Kind = "ROLL_GROUP"
)

// GroupEntry is one named expression of a ROLL_GROUP
type GroupEntry struct {
	Name       string
	Expression string
}

// Roll is the earliest roll directive in a text. Start and End are byte
// offsets into the text it was found in; End points just past the
// closing brackets. Label is set for a single roll written as
// "name=expr".
type Roll struct {
	Kind       Kind
	Label      string
	Expression string
	Entries    []GroupEntry
	Raw        string
	Start      int
	End        int
}

// StatUpdate carries an UPDATE_STATS payload. HP and MP are deltas, AC is
// absolute. Absent keys are nil.
type StatUpdate struct {
	HP *int `json:"hp"`
	MP *int `json:"mp"`
	AC *int `json:"ac"`
}

// IsEmpty reports whether no key was set
func (u StatUpdate) IsEmpty() bool {
	return u.HP == nil && u.MP == nil && u.AC == nil
}

// Coordinates is a position directive
type Coordinates struct {
	X int
	Y int
}

// Position converts to the entity type
func (c Coordinates) Position() entities.Position {
	return entities.Position{X: c.X, Y: c.Y}
}

// Set is everything recognized in one text
type Set struct {
	Roll             *Roll
	Stats            []StatUpdate
	Coordinates      *Coordinates
	AddCompanions    []entities.Companion
	RemoveCompanions []string
	// Narrative is the input with every bracket directive removed
	Narrative string
}
