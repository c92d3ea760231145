package handler

import (
	"context"
	"fmt"
	"strings"

	"mini-games-bot/internal/model"
)

// handleRating shows the personal total and the global top list.
func (d *Dispatcher) handleRating(ctx context.Context, in Incoming) ([]Reply, error) {
	total, err := d.ranking.PersonalRating(ctx, in.UserID, "")
	if err != nil {
		return nil, err
	}

	top, err := d.ranking.GlobalTop(ctx, "")
	if err != nil {
		return nil, err
	}

	return d.reply(in, formatRating(total, top)), nil
}

func formatRating(total int64, top []*model.RatingEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 Ваш рейтинг: %d очк.\n\n", total)
	sb.WriteString("🏆 Топ-10 игроков:\n")

	if len(top) == 0 {
		sb.WriteString(emptyTopText)
		return sb.String()
	}

	for i, entry := range top {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s — %d очк.", i+1, entry.DisplayName(), entry.Total)
	}
	return sb.String()
}
