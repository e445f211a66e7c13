package entities

import (
	"slices"
	"time"
)

// Supported narration languages
const (
	LanguageEnglish = "en"
	LanguageFrench  = "fr"

	// EntityTypeSession identifies sessions on the event bus
	EntityTypeSession = "session"
)

// SupportedLanguages lists the languages a session may be created with
var SupportedLanguages = []string{LanguageEnglish, LanguageFrench}

// Role identifies who authored a message
type Role string

// Message roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role message
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Session is one playthrough. History is append-only; the first entry is
// the system prompt.
type Session struct {
	ID         string      `json:"id"`
	Character  Character   `json:"character"`
	Model      string      `json:"model"`
	Language   string      `json:"language"`
	History    []Message   `json:"history"`
	Map        []MapNode   `json:"mapData"`
	Position   Position    `json:"currentPosition"`
	Companions []Companion `json:"companions"`
	CreatedAt  time.Time   `json:"createdAt"`
	LastSaved  *time.Time  `json:"lastSaved,omitempty"`
}

// NewSession creates a session at the origin with an empty map and party.
// The character is normalized; unknown languages fall back to English.
func NewSession(id string, character Character, model, language string, now time.Time) *Session {
	character.Normalize()
	if !slices.Contains(SupportedLanguages, language) {
		language = LanguageEnglish
	}

	return &Session{
		ID:         id,
		Character:  character,
		Model:      model,
		Language:   language,
		History:    []Message{},
		Map:        []MapNode{},
		Position:   Position{},
		Companions: []Companion{},
		CreatedAt:  now,
	}
}

// Append adds messages to the end of the history
func (s *Session) Append(msgs ...Message) {
	s.History = append(s.History, msgs...)
}

// LastMessage returns the newest history entry, if any
func (s *Session) LastMessage() (Message, bool) {
	if len(s.History) == 0 {
		return Message{}, false
	}
	return s.History[len(s.History)-1], true
}

// NodeAt returns the map node at a coordinate
func (s *Session) NodeAt(p Position) (MapNode, bool) {
	for _, n := range s.Map {
		if n.X == p.X && n.Y == p.Y {
			return n, true
		}
	}
	return MapNode{}, false
}

// AddMapNode inserts a node unless one already exists at the same
// coordinate, in which case the existing node wins. Reports insertion.
func (s *Session) AddMapNode(node MapNode) bool {
	if _, exists := s.NodeAt(node.Position()); exists {
		return false
	}
	s.Map = append(s.Map, node)
	return true
}

// MoveTo updates the current position and records the location
func (s *Session) MoveTo(node MapNode) (added bool) {
	s.Position = node.Position()
	return s.AddMapNode(node)
}

// HasCompanion reports membership by name
func (s *Session) HasCompanion(name string) bool {
	return slices.ContainsFunc(s.Companions, func(c Companion) bool {
		return sameName(c.Name, name)
	})
}

// AddCompanion adds a companion unless one with the same name is already
// travelling with the player. Reports insertion.
func (s *Session) AddCompanion(c Companion) bool {
	if c.Name == "" || s.HasCompanion(c.Name) {
		return false
	}
	s.Companions = append(s.Companions, c)
	return true
}

// RemoveCompanion drops a companion by name. Reports removal.
func (s *Session) RemoveCompanion(name string) bool {
	before := len(s.Companions)
	s.Companions = slices.DeleteFunc(s.Companions, func(c Companion) bool {
		return sameName(c.Name, name)
	})
	return len(s.Companions) != before
}

// Clone returns a deep copy safe to mutate independently
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	out := *s
	out.Character.Spells = slices.Clone(s.Character.Spells)
	out.History = slices.Clone(s.History)
	out.Map = slices.Clone(s.Map)
	out.Companions = slices.Clone(s.Companions)
	if s.LastSaved != nil {
		saved := *s.LastSaved
		out.LastSaved = &saved
	}
	if out.History == nil {
		out.History = []Message{}
	}
	if out.Map == nil {
		out.Map = []MapNode{}
	}
	if out.Companions == nil {
		out.Companions = []Companion{}
	}
	return &out
}

// GetID implements core.Entity
func (s *Session) GetID() string {
	return s.ID
}

// GetType implements core.Entity
func (s *Session) GetType() string {
	return EntityTypeSession
}
