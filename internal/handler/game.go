package handler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"mini-games-bot/internal/game"
)

// startGame opens a new session, replacing any running one.
// A disabled game is refused and the current session is left alone.
func (d *Dispatcher) startGame(ctx context.Context, in Incoming, engine game.Engine) ([]Reply, error) {
	enabled, err := d.admin.IsGameEnabled(ctx, engine.Name())
	if err != nil {
		return nil, err
	}
	if !enabled {
		return d.reply(in, fmt.Sprintf(unavailableFmt, engine.Title())), nil
	}

	d.rngMu.Lock()
	state, prompt := engine.Start(d.rng)
	d.rngMu.Unlock()

	if err := d.sessions.Put(ctx, in.UserID, state); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	log.Debug().
		Int64("user_id", in.UserID).
		Str("game", engine.Name()).
		Msg("Game started")

	return d.reply(in, prompt), nil
}

// stepGame feeds text into the running game. handled is false when the session
// belongs to a game that is no longer registered; that session is dropped.
func (d *Dispatcher) stepGame(ctx context.Context, in Incoming, state game.State, text string) ([]Reply, bool, error) {
	engine, ok := d.games.ByName(state.Game)
	if !ok {
		log.Warn().
			Int64("user_id", in.UserID).
			Str("game", state.Game).
			Msg("Dropping session of unknown game")
		if err := d.sessions.Delete(ctx, in.UserID); err != nil {
			return nil, false, fmt.Errorf("failed to delete session: %w", err)
		}
		return nil, false, nil
	}

	next, res := engine.Step(state, text)

	if !res.Finished {
		if err := d.sessions.Put(ctx, in.UserID, next); err != nil {
			return nil, true, fmt.Errorf("failed to store session: %w", err)
		}
		return d.reply(in, res.Text), true, nil
	}

	if err := d.ranking.RecordScore(ctx, in.UserID, engine.Name(), res.Score); err != nil {
		return nil, true, err
	}
	if err := d.sessions.Delete(ctx, in.UserID); err != nil {
		return nil, true, fmt.Errorf("failed to delete session: %w", err)
	}

	log.Debug().
		Int64("user_id", in.UserID).
		Str("game", engine.Name()).
		Int("score", res.Score).
		Msg("Game finished")

	return d.reply(in, res.Text), true, nil
}
