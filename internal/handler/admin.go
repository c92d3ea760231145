package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"mini-games-bot/internal/model"
	"mini-games-bot/internal/repository"
	"mini-games-bot/internal/service"
)

// adminCommand handles one admin command. args is the text after the command word.
type adminCommand func(ctx context.Context, in Incoming, args string) ([]Reply, error)

func (d *Dispatcher) buildAdminCommands() map[string]adminCommand {
	cmds := map[string]adminCommand{
		"/admin":      d.handleAdminHelp,
		"/block":      d.handleBlock,
		"/unblock":    d.handleUnblock,
		"/blocked":    d.handleBlocked,
		"/user_stats": d.handleUserStats,
		"/stats":      d.handleStats,
	}

	// "/quiz" is toggled by "/toggle_quiz", "/guess" by "/toggle_guess".
	for _, engine := range d.games.List() {
		name, title := engine.Name(), engine.Title()
		cmds["/toggle_"+strings.TrimPrefix(engine.Command(), "/")] = func(ctx context.Context, in Incoming, _ string) ([]Reply, error) {
			return d.handleToggle(ctx, in, name, title)
		}
	}

	return cmds
}

func (d *Dispatcher) handleAdminHelp(_ context.Context, in Incoming, _ string) ([]Reply, error) {
	return d.reply(in, adminHelpText), nil
}

// handleBlock handles "/block <handle> <reason>".
// The target is notified in its own chat, which equals its user id.
func (d *Dispatcher) handleBlock(ctx context.Context, in Incoming, args string) ([]Reply, error) {
	handle, reason := splitFirst(args)
	handle = service.NormalizeHandle(handle)
	if handle == "" || reason == "" {
		return d.reply(in, blockUsageText), nil
	}

	user, err := d.admin.Block(ctx, in.UserID, handle, reason)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return d.reply(in, fmt.Sprintf(blockNotFoundFmt, handle)), nil
		}
		return nil, err
	}

	return []Reply{
		{ChatID: in.ChatID, Text: fmt.Sprintf(blockedAdminFmt, handle, reason)},
		{ChatID: user.ID, Text: fmt.Sprintf(blockedNoticeFmt, reason)},
	}, nil
}

// handleUnblock handles "/unblock <handle>".
func (d *Dispatcher) handleUnblock(ctx context.Context, in Incoming, args string) ([]Reply, error) {
	handle, _ := splitFirst(args)
	handle = service.NormalizeHandle(handle)
	if handle == "" {
		return d.reply(in, unblockUsageText), nil
	}

	user, err := d.admin.Unblock(ctx, in.UserID, handle)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return d.reply(in, fmt.Sprintf(unblockNotFoundFmt, handle)), nil
		}
		return nil, err
	}

	return []Reply{
		{ChatID: in.ChatID, Text: fmt.Sprintf(unblockedAdminFmt, handle)},
		{ChatID: user.ID, Text: unblockedNoticeTxt},
	}, nil
}

func (d *Dispatcher) handleBlocked(ctx context.Context, in Incoming, _ string) ([]Reply, error) {
	blocked, err := d.admin.Blocked(ctx)
	if err != nil {
		return nil, err
	}
	if len(blocked) == 0 {
		return d.reply(in, noBlockedText), nil
	}

	lines := make([]string, 0, len(blocked)+1)
	lines = append(lines, "🚫 Заблокированные:")
	for _, b := range blocked {
		lines = append(lines, fmt.Sprintf("%s — %s", b.DisplayName(), b.Reason))
	}
	return d.reply(in, strings.Join(lines, "\n")), nil
}

// handleUserStats handles "/user_stats <handle>".
func (d *Dispatcher) handleUserStats(ctx context.Context, in Incoming, args string) ([]Reply, error) {
	handle, _ := splitFirst(args)
	handle = service.NormalizeHandle(handle)
	if handle == "" {
		return d.reply(in, userStatsUsageText), nil
	}

	stats, err := d.admin.UserStats(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return d.reply(in, fmt.Sprintf(userStatsNotFoundFmt, handle)), nil
		}
		return nil, err
	}

	return d.reply(in, d.formatUserStats(handle, stats)), nil
}

func (d *Dispatcher) formatUserStats(handle string, stats *model.UserStats) string {
	lines := []string{
		fmt.Sprintf("📊 Статистика игрока @%s:", handle),
		"",
		fmt.Sprintf("Всего сыграно игр: %d", stats.TotalGames),
		fmt.Sprintf("Общий рейтинг: %d очк.", stats.TotalScore),
		"",
		"Результаты по играм:",
	}
	for _, g := range stats.Games {
		title := g.GameName
		if engine, ok := d.games.ByName(g.GameName); ok {
			title = engine.Title()
		}
		lines = append(lines, fmt.Sprintf("— %s: %d игр., %d очк.", title, g.Games, g.Score))
	}
	return strings.Join(lines, "\n")
}

func (d *Dispatcher) handleStats(ctx context.Context, in Incoming, _ string) ([]Reply, error) {
	stats, err := d.admin.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return d.reply(in, fmt.Sprintf(
		"📊 Общая статистика:\n"+
			"Пользователей: %d\n"+
			"Сыграно игр: %d\n"+
			"Общее количество очков: %d очк.",
		stats.Users, stats.GamesPlayed, stats.TotalScore,
	)), nil
}

func (d *Dispatcher) handleToggle(ctx context.Context, in Incoming, gameName, title string) ([]Reply, error) {
	enabled, err := d.admin.ToggleGame(ctx, in.UserID, gameName)
	if err != nil {
		return nil, err
	}

	state := "выключена"
	if enabled {
		state = "включена"
	}

	return d.reply(in, fmt.Sprintf("%s %s", title, state)), nil
}

// splitFirst splits s into its first word and the trimmed remainder.
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
