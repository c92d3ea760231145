// Package handler routes incoming chat messages through the per-user game state machine.
//
// The dispatcher is transport-agnostic: it receives plain message data and returns
// the replies to send, so the Telegram layer stays a thin adapter.
package handler

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"mini-games-bot/internal/game"
	"mini-games-bot/internal/model"
	"mini-games-bot/internal/pkg/lock"
	"mini-games-bot/internal/service"
	"mini-games-bot/internal/session"
)

// Incoming is one text message from a user.
type Incoming struct {
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Text      string
}

// Reply is one outgoing message. Keyboard rows, when set, are shown as a reply keyboard.
type Reply struct {
	ChatID   int64
	Text     string
	Keyboard [][]string
}

// Deps holds the collaborators of a Dispatcher.
type Deps struct {
	Accounts *service.AccountService
	Ranking  *service.RankingService
	Admin    *service.AdminService
	Sessions session.Store
	Games    *game.Registry
	UserLock *lock.UserLock
	IsAdmin  func(userID int64) bool

	// Rand seeds game starts. A randomly seeded source is used when nil.
	Rand *rand.Rand
}

// Dispatcher handles every message of every user.
type Dispatcher struct {
	accounts *service.AccountService
	ranking  *service.RankingService
	admin    *service.AdminService
	sessions session.Store
	games    *game.Registry
	userLock *lock.UserLock
	isAdmin  func(userID int64) bool

	adminCommands map[string]adminCommand

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(deps Deps) *Dispatcher {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	isAdmin := deps.IsAdmin
	if isAdmin == nil {
		isAdmin = func(int64) bool { return false }
	}
	userLock := deps.UserLock
	if userLock == nil {
		userLock = lock.NewUserLock()
	}

	d := &Dispatcher{
		accounts: deps.Accounts,
		ranking:  deps.Ranking,
		admin:    deps.Admin,
		sessions: deps.Sessions,
		games:    deps.Games,
		userLock: userLock,
		isAdmin:  isAdmin,
		rng:      rng,
	}
	d.adminCommands = d.buildAdminCommands()
	return d
}

// Handle processes one message and returns the replies to send, in order.
// Messages of the same user are handled one at a time.
func (d *Dispatcher) Handle(ctx context.Context, in Incoming) ([]Reply, error) {
	var replies []Reply
	err := d.userLock.WithLock(ctx, in.UserID, func() error {
		var err error
		replies, err = d.handle(ctx, in)
		return err
	})
	return replies, err
}

func (d *Dispatcher) handle(ctx context.Context, in Incoming) ([]Reply, error) {
	user := &model.User{
		ID:        in.UserID,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := d.accounts.EnsureUser(ctx, user); err != nil {
		return nil, err
	}

	blocked, err := d.accounts.IsBlocked(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return d.reply(in, BlockedText), nil
	}

	text := strings.TrimSpace(in.Text)
	cmd, args := splitCommand(text)

	if d.isAdmin(in.UserID) {
		if handler, ok := d.adminCommands[cmd]; ok {
			return handler(ctx, in, args)
		}
	}

	if engine, ok := d.games.ByCommand(cmd); ok {
		return d.startGame(ctx, in, engine)
	}

	state, active, err := d.sessions.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if active {
		if replies, handled, err := d.stepGame(ctx, in, state, text); handled || err != nil {
			return replies, err
		}
	}

	switch cmd {
	case "/start":
		return d.handleStart(in), nil
	case "/rating":
		return d.handleRating(ctx, in)
	default:
		return d.reply(in, UnknownText), nil
	}
}

func (d *Dispatcher) reply(in Incoming, text string) []Reply {
	return []Reply{{ChatID: in.ChatID, Text: text}}
}

// splitCommand returns the first word of text, without a "@botname" suffix,
// and the trimmed remainder.
func splitCommand(text string) (string, string) {
	cmd, args := splitFirst(text)
	if strings.HasPrefix(cmd, "/") {
		if at := strings.IndexByte(cmd, '@'); at > 0 {
			cmd = cmd[:at]
		}
	}
	return cmd, args
}
