package entities

import "github.com/KirkDiggler/rpg-toolkit/core"

// Compile-time check that domain types can travel on the event bus
var (
	_ core.Entity = (*Session)(nil)
	_ core.Entity = (*Character)(nil)
	_ core.Entity = (*Companion)(nil)
)
