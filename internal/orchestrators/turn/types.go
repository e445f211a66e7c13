package turn

import "github.com/KirkDiggler/rpg-gm/internal/entities"

// Status tells the caller whether another step is due
type Status string

// Step outcomes
const (
	// StatusContinue means a roll was resolved and the narrator should be
	// called again without new player input
	StatusContinue Status = "continue"
	// StatusComplete means the turn is over and the player acts next
	StatusComplete Status = "complete"
)

// Correction names a corrective model call that ran during a step
type Correction string

// Corrective calls
const (
	CorrectionProtocol    Correction = "protocol"
	CorrectionCoordinates Correction = "coordinates"
)

// ActInput contains the player's action for a session
type ActInput struct {
	SessionID string
	Action    string
}

// ContinueInput asks for the next step without player input
type ContinueInput struct {
	SessionID string
}

// StepOutput reports the steps run by one call
type StepOutput struct {
	Status Status
	// Message is the narrator text of the last step as shown to the
	// player, cut right after a roll directive when there is one
	Message string
	// Narrative is Message with every directive removed, as stored in
	// the session history
	Narrative   string
	Rolls       []*entities.RollResult
	Corrections []Correction
	Steps       int
	Session     *entities.Session
}
