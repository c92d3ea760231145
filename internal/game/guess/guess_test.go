package guess

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mini-games-bot/internal/game"
	"mini-games-bot/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		attempt  int
		expected int
	}{
		{1, 10},
		{2, 9},
		{3, 8},
		{10, 1},
		{11, 1},
		{50, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Score(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestNew_Defaults(t *testing.T) {
	g := New(nil)
	assert.Equal(t, DefaultMaxNumber, g.maxNumber)
	assert.Equal(t, DefaultMaxAttempts, g.maxAttempts)

	g = New(&Config{MaxNumber: 20})
	assert.Equal(t, 20, g.maxNumber)
	assert.Equal(t, DefaultMaxAttempts, g.maxAttempts)
}

func TestGame_Identity(t *testing.T) {
	g := New(nil)
	assert.Equal(t, model.GameGuessNumber, g.Name())
	assert.Equal(t, "/guess", g.Command())
	assert.NotEmpty(t, g.Title())
}

func TestGame_Start(t *testing.T) {
	g := New(nil)
	state, prompt := g.Start(rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, model.GameGuessNumber, state.Game)
	assert.Zero(t, state.Attempts)
	assert.GreaterOrEqual(t, state.Secret, 1)
	assert.LessOrEqual(t, state.Secret, DefaultMaxNumber)
	assert.Contains(t, prompt, "от 1 до 10")
}

func TestGame_Step(t *testing.T) {
	g := New(nil)

	t.Run("hit on first attempt", func(t *testing.T) {
		state, res := g.Step(game.State{Game: g.Name(), Secret: 7}, "7")
		assert.True(t, res.Finished)
		assert.Equal(t, 10, res.Score)
		assert.Equal(t, 1, state.Attempts)
		assert.Equal(t, "✅ Угадал! Загадано было 7. Очки: 10", res.Text)
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		_, res := g.Step(game.State{Game: g.Name(), Secret: 4}, "  4 \n")
		assert.True(t, res.Finished)
		assert.Equal(t, 10, res.Score)
	})

	t.Run("miss below gives higher hint", func(t *testing.T) {
		state, res := g.Step(game.State{Game: g.Name(), Secret: 7}, "3")
		assert.False(t, res.Finished)
		assert.Equal(t, 1, state.Attempts)
		assert.Equal(t, "Неверно. Загаданное число больше. Осталось 2 попыток.", res.Text)
	})

	t.Run("miss above gives lower hint", func(t *testing.T) {
		_, res := g.Step(game.State{Game: g.Name(), Secret: 7, Attempts: 1}, "9")
		assert.False(t, res.Finished)
		assert.Equal(t, "Неверно. Загаданное число меньше. Осталось 1 попыток.", res.Text)
	})

	t.Run("third miss reveals secret", func(t *testing.T) {
		state, res := g.Step(game.State{Game: g.Name(), Secret: 7, Attempts: 2}, "1")
		assert.True(t, res.Finished)
		assert.Zero(t, res.Score)
		assert.Equal(t, 3, state.Attempts)
		assert.Equal(t, "❌ Попытки закончились. Было загадано 7.", res.Text)
	})

	t.Run("hit on last attempt", func(t *testing.T) {
		_, res := g.Step(game.State{Game: g.Name(), Secret: 7, Attempts: 2}, "7")
		assert.True(t, res.Finished)
		assert.Equal(t, 8, res.Score)
	})

	t.Run("non-numeric input does not consume attempt", func(t *testing.T) {
		in := game.State{Game: g.Name(), Secret: 7, Attempts: 1}
		state, res := g.Step(in, "seven")
		assert.False(t, res.Finished)
		assert.Equal(t, in, state)
		assert.Equal(t, "Введите число от 1 до 10.", res.Text)
	})
}

// TestGame_StepProperty plays random rounds and checks attempt accounting and scoring.
func TestGame_StepProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := New(nil)
		state := game.State{Game: g.Name(), Secret: rapid.IntRange(1, DefaultMaxNumber).Draw(t, "secret")}

		steps := rapid.IntRange(1, 20).Draw(t, "steps")

		numeric := 0
		for i := 0; i < steps; i++ {
			isNumber := rapid.Bool().Draw(t, "isNumber")
			text := rapid.SampledFrom([]string{"", "abc", "1.5", "десять"}).Draw(t, "text")
			value := 0
			if isNumber {
				value = rapid.IntRange(-5, 15).Draw(t, "value")
				text = strconv.Itoa(value)
			}

			next, res := g.Step(state, text)
			if !isNumber {
				require.False(t, res.Finished)
				require.Equal(t, state, next)
				continue
			}

			numeric++
			require.Equal(t, numeric, next.Attempts)
			state = next

			if res.Finished {
				if value == state.Secret {
					require.Equal(t, Score(numeric), res.Score)
					require.GreaterOrEqual(t, res.Score, 1)
				} else {
					require.Equal(t, DefaultMaxAttempts, numeric)
					require.Zero(t, res.Score)
				}
				return
			}
			require.NotEqual(t, value, state.Secret)
			require.Less(t, numeric, DefaultMaxAttempts)
			require.Zero(t, res.Score)
		}
	})
}

// TestGame_StartSecretInRange checks that secrets stay in range for any seed.
func TestGame_StartSecretInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxNumber := rapid.IntRange(1, 100).Draw(t, "maxNumber")
		seed := rapid.Uint64().Draw(t, "seed")

		g := New(&Config{MaxNumber: maxNumber})
		state, _ := g.Start(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

		if state.Secret < 1 || state.Secret > maxNumber {
			t.Fatalf("secret %d out of [1, %d]", state.Secret, maxNumber)
		}
	})
}
