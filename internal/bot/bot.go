// Package bot connects the dispatcher to the Telegram Bot API.
package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"mini-games-bot/internal/config"
	"mini-games-bot/internal/handler"
)

// Dispatcher turns one incoming message into replies.
type Dispatcher interface {
	Handle(ctx context.Context, in handler.Incoming) ([]handler.Reply, error)
}

// Sender delivers a message to a chat. *tele.Bot implements it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot        *tele.Bot
	sender     Sender
	dispatcher Dispatcher
	ctx        context.Context
}

// Dependencies holds all the dependencies needed by the bot.
type Dependencies struct {
	Config     *config.Config
	Dispatcher Dispatcher
}

// New creates a new Bot. ctx is passed to every dispatch and should be
// cancelled on shutdown.
func New(ctx context.Context, deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, config.ErrMissingToken
	}

	pref := tele.Settings{
		Token:       deps.Config.Bot.Token,
		Poller:      NewPoller(&deps.Config.Bot),
		Synchronous: deps.Config.Bot.Synchronous,
		OnError: func(err error, c tele.Context) {
			ev := log.Error().Err(err)
			if c != nil && c.Sender() != nil {
				ev = ev.Int64("user_id", c.Sender().ID)
			}
			ev.Msg("Telegram handler error")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:        teleBot,
		sender:     teleBot,
		dispatcher: deps.Dispatcher,
		ctx:        ctx,
	}

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers routes every text message, commands included, to the dispatcher.
func (b *Bot) registerHandlers() {
	b.bot.Handle(tele.OnText, b.onText)
}

func (b *Bot) onText(c tele.Context) error {
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	in := handler.Incoming{
		ChatID:    chat.ID,
		UserID:    sender.ID,
		Username:  sender.Username,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
		Text:      c.Text(),
	}

	replies, err := b.dispatcher.Handle(b.ctx, in)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", in.UserID).
			Int64("chat_id", in.ChatID).
			Msg("Failed to handle message")
		replies = []handler.Reply{{ChatID: in.ChatID, Text: handler.ErrorText}}
	}

	for _, r := range replies {
		b.send(r)
	}
	return nil
}

// send delivers one reply. Failures are logged and dropped.
func (b *Bot) send(r handler.Reply) {
	var opts []interface{}
	if len(r.Keyboard) > 0 {
		opts = append(opts, replyKeyboard(r.Keyboard))
	}

	if _, err := b.sender.Send(tele.ChatID(r.ChatID), r.Text, opts...); err != nil {
		log.Error().
			Err(err).
			Int64("chat_id", r.ChatID).
			Msg("Failed to send message")
	}
}

// replyKeyboard builds a resized reply keyboard with one text button per cell.
func replyKeyboard(rows [][]string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	teleRows := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		btns := make([]tele.Btn, 0, len(row))
		for _, text := range row {
			btns = append(btns, menu.Text(text))
		}
		teleRows = append(teleRows, menu.Row(btns...))
	}
	menu.Reply(teleRows...)

	return menu
}

// Start starts polling. It blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
