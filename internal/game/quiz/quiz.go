// Package quiz implements the single-question quiz game.
package quiz

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"

	"mini-games-bot/internal/game"
	"mini-games-bot/internal/model"
)

// DefaultPoints is awarded for a correct answer.
const DefaultPoints = 5

// Config holds configuration for the quiz.
type Config struct {
	Points    int
	Questions []Question
}

// Quiz implements game.Engine. Every round is one question and one answer.
type Quiz struct {
	points    int
	questions []Question
}

var _ game.Engine = (*Quiz)(nil)

// New creates a Quiz, falling back to defaults for unset fields.
func New(cfg *Config) *Quiz {
	points := DefaultPoints
	questions := DefaultQuestions

	if cfg != nil {
		if cfg.Points > 0 {
			points = cfg.Points
		}
		if len(cfg.Questions) > 0 {
			questions = cfg.Questions
		}
	}

	return &Quiz{
		points:    points,
		questions: questions,
	}
}

func (q *Quiz) Name() string    { return model.GameQuiz }
func (q *Quiz) Command() string { return "/quiz" }
func (q *Quiz) Title() string   { return "Викторина" }

// Start picks a question uniformly from the bank.
func (q *Quiz) Start(rng *rand.Rand) (game.State, string) {
	question := q.questions[rng.IntN(len(q.questions))]
	state := game.State{
		Game:     q.Name(),
		Question: question.Text,
		Answer:   question.Answer,
	}
	return state, "❓ " + question.Text
}

// Step checks the answer. The round always finishes.
func (q *Quiz) Step(state game.State, input string) (game.State, game.Result) {
	if Matches(input, state.Answer) {
		return state, game.Result{
			Text:     fmt.Sprintf("✅ Правильно! +%d очков.", q.points),
			Finished: true,
			Score:    q.points,
		}
	}
	return state, game.Result{
		Text:     "❌ Неправильно. Правильный ответ: " + state.Answer,
		Finished: true,
	}
}

// Matches compares answers after trimming and Unicode case folding.
func Matches(input, answer string) bool {
	return normalize(input) == normalize(answer)
}

func normalize(s string) string {
	// cases.Caser keeps state, so a new one is taken per call.
	return cases.Fold().String(strings.TrimSpace(s))
}
