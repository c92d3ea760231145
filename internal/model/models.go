// Package model defines the data models for the mini-games bot.
package model

import (
	"strconv"
	"time"
)

// Persisted game names. These are the keys stored in scores and game_status.
const (
	GameQuiz        = "quiz"
	GameGuessNumber = "guess_number"
)

// User represents a Telegram user who has written to the bot at least once.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
}

// DisplayName returns the handle prefixed with @, falling back to the first name
// and finally the numeric id.
func (u *User) DisplayName() string {
	return displayName(u.ID, u.Username, u.FirstName)
}

// Score is one completed game round. Scores are append-only.
type Score struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	GameName  string    `db:"game_name"`
	Value     int       `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

// GameStatus is the admin-controlled enabled flag of a game.
// A game without a row is enabled.
type GameStatus struct {
	GameName string `db:"game_name"`
	Enabled  bool   `db:"is_active"`
}

// BlockEntry marks a user as blocked.
type BlockEntry struct {
	UserID    int64     `db:"user_id"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

// BlockedUser is a block entry joined with the user's handle for admin listings.
type BlockedUser struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Reason   string `db:"reason"`
}

// DisplayName returns a printable name for the blocked user.
func (b *BlockedUser) DisplayName() string {
	return displayName(b.UserID, b.Username, "")
}

// RatingEntry is one row of the global rating.
type RatingEntry struct {
	UserID    int64  `db:"user_id"`
	Username  string `db:"username"`
	FirstName string `db:"first_name"`
	Total     int64  `db:"total"`
}

// DisplayName returns a printable name for the rated user.
func (r *RatingEntry) DisplayName() string {
	return displayName(r.UserID, r.Username, r.FirstName)
}

// GameStats is the per-game breakdown of one user's scores.
type GameStats struct {
	GameName string `db:"game_name"`
	Games    int64  `db:"game_count"`
	Score    int64  `db:"total_score"`
}

// UserStats aggregates all scores of a user for the admin report.
type UserStats struct {
	User       *User
	TotalGames int64
	TotalScore int64
	Games      []*GameStats
}

// GlobalStats holds bot-wide counters.
type GlobalStats struct {
	Users       int64 `db:"users"`
	GamesPlayed int64 `db:"games_played"`
	TotalScore  int64 `db:"total_score"`
}

func displayName(id int64, username, firstName string) string {
	switch {
	case username != "":
		return "@" + username
	case firstName != "":
		return firstName
	default:
		return "id" + strconv.FormatInt(id, 10)
	}
}
