// Package game defines the engine contract shared by the mini-games and the registry
// the dispatcher uses to find them.
package game

import "math/rand/v2"

// State is the per-user state of a running game. It is stored between messages,
// so every field must survive a JSON round trip.
type State struct {
	Game     string `json:"game"`
	Secret   int    `json:"secret,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// Result is the outcome of feeding one message into a game.
type Result struct {
	Text     string // Reply shown to the player
	Finished bool   // Session ends and Score is recorded
	Score    int
}

// Engine is implemented by every mini-game.
// Step must be pure: same state and input always give the same output.
type Engine interface {
	// Name is the persisted game name used in scores and game_status.
	Name() string

	// Command is the chat command that starts the game, e.g. "/quiz".
	Command() string

	// Title is the human-readable game title.
	Title() string

	// Start creates a fresh state and the opening prompt.
	Start(rng *rand.Rand) (State, string)

	// Step applies the player's input to state.
	Step(state State, input string) (State, Result)
}
