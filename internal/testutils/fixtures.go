package testutils

import (
	"time"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
)

const (
	// TestCharacterName is the default character name for fixtures
	TestCharacterName = "Arin"

	// TestSessionID is the default session id for fixtures
	TestSessionID = "01jabcdefghjkmnpqrstvwxyz0"

	// TestModel is the default model for fixtures
	TestModel = "llama3"

	// TestSystemPrompt stands in for the localized system prompt
	TestSystemPrompt = "You are the Dungeon Master."
)

// TestTime is a fixed instant used by fixtures
var TestTime = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// CreateTestCharacter returns a level 1 fighter with every ability at 10
func CreateTestCharacter() entities.Character {
	return entities.Character{
		Name:  TestCharacterName,
		Race:  "Human",
		Class: "Fighter",
		Stats: entities.AbilityScores{
			Strength:     10,
			Dexterity:    10,
			Constitution: 10,
			Intelligence: 10,
			Wisdom:       10,
			Charisma:     10,
		},
	}
}

// CreateTestSession returns a normalized session whose history holds only
// the system prompt
func CreateTestSession() *entities.Session {
	sess := entities.NewSession(TestSessionID, CreateTestCharacter(), TestModel, entities.LanguageEnglish, TestTime)
	sess.Append(entities.SystemMessage(TestSystemPrompt))
	return sess
}

// CreateTestSessionWithHistory returns CreateTestSession followed by msgs
func CreateTestSessionWithHistory(msgs ...entities.Message) *entities.Session {
	sess := CreateTestSession()
	sess.Append(msgs...)
	return sess
}
