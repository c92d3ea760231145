// Package guess implements the guess-the-number game.
package guess

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"mini-games-bot/internal/game"
	"mini-games-bot/internal/model"
)

const (
	// DefaultMaxNumber is the upper bound of the secret.
	DefaultMaxNumber = 10

	// DefaultMaxAttempts is the number of numeric guesses per round.
	DefaultMaxAttempts = 3

	// MaxScore is awarded for a first-attempt hit; each extra attempt costs one point.
	MaxScore = 10
)

// Config holds configuration for the game.
type Config struct {
	MaxNumber   int
	MaxAttempts int
}

// Game implements game.Engine for guess-the-number.
type Game struct {
	maxNumber   int
	maxAttempts int
}

var _ game.Engine = (*Game)(nil)

// New creates a Game, falling back to defaults for unset fields.
func New(cfg *Config) *Game {
	maxNumber := DefaultMaxNumber
	maxAttempts := DefaultMaxAttempts

	if cfg != nil {
		if cfg.MaxNumber > 0 {
			maxNumber = cfg.MaxNumber
		}
		if cfg.MaxAttempts > 0 {
			maxAttempts = cfg.MaxAttempts
		}
	}

	return &Game{
		maxNumber:   maxNumber,
		maxAttempts: maxAttempts,
	}
}

func (g *Game) Name() string    { return model.GameGuessNumber }
func (g *Game) Command() string { return "/guess" }
func (g *Game) Title() string   { return "«Угадай число»" }

// Start draws a secret uniformly from [1, maxNumber].
func (g *Game) Start(rng *rand.Rand) (game.State, string) {
	state := game.State{
		Game:   g.Name(),
		Secret: rng.IntN(g.maxNumber) + 1,
	}
	prompt := fmt.Sprintf("🔮 Я загадал число от 1 до %d. У вас %d попытки. Введите число:", g.maxNumber, g.maxAttempts)
	return state, prompt
}

// Step consumes one attempt per numeric input. Non-numeric input only repeats the prompt.
func (g *Game) Step(state game.State, input string) (game.State, game.Result) {
	guess, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return state, game.Result{Text: fmt.Sprintf("Введите число от 1 до %d.", g.maxNumber)}
	}

	state.Attempts++

	switch {
	case guess == state.Secret:
		score := Score(state.Attempts)
		return state, game.Result{
			Text:     fmt.Sprintf("✅ Угадал! Загадано было %d. Очки: %d", state.Secret, score),
			Finished: true,
			Score:    score,
		}
	case state.Attempts >= g.maxAttempts:
		return state, game.Result{
			Text:     fmt.Sprintf("❌ Попытки закончились. Было загадано %d.", state.Secret),
			Finished: true,
		}
	default:
		hint := "меньше"
		if guess < state.Secret {
			hint = "больше"
		}
		return state, game.Result{
			Text: fmt.Sprintf("Неверно. Загаданное число %s. Осталось %d попыток.", hint, g.maxAttempts-state.Attempts),
		}
	}
}

// Score returns the points for a hit on the given attempt, never below 1.
func Score(attempt int) int {
	return max(MaxScore-attempt+1, 1)
}
