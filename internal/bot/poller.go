package bot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"mini-games-bot/internal/config"
)

// Default polling intervals.
const (
	DefaultPollTimeout = 30 * time.Second
	DefaultRetryDelay  = 5 * time.Second
	DefaultIdleDelay   = 500 * time.Millisecond
)

// FetchFunc requests updates starting at offset, waiting up to timeout for new ones.
type FetchFunc func(b *tele.Bot, offset int, timeout time.Duration) ([]tele.Update, error)

// Poller is a long poller that backs off after failed requests.
// It implements tele.Poller.
type Poller struct {
	Timeout    time.Duration
	RetryDelay time.Duration
	IdleDelay  time.Duration

	// LastUpdateID is the id of the last update handed to the bot.
	// The next request asks for LastUpdateID+1.
	LastUpdateID int

	fetch FetchFunc
}

var _ tele.Poller = (*Poller)(nil)

// NewPoller creates a Poller from the bot configuration.
func NewPoller(cfg *config.BotConfig) *Poller {
	p := &Poller{
		Timeout:    DefaultPollTimeout,
		RetryDelay: DefaultRetryDelay,
		IdleDelay:  DefaultIdleDelay,
		fetch:      getUpdates,
	}
	if cfg != nil {
		if cfg.PollTimeout > 0 {
			p.Timeout = cfg.PollTimeout
		}
		if cfg.RetryDelay > 0 {
			p.RetryDelay = cfg.RetryDelay
		}
		if cfg.IdleDelay > 0 {
			p.IdleDelay = cfg.IdleDelay
		}
	}
	return p
}

// Poll delivers updates to dest until stop is closed.
func (p *Poller) Poll(b *tele.Bot, dest chan tele.Update, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		updates, err := p.fetch(b, p.LastUpdateID+1, p.Timeout)
		if err != nil {
			log.Error().
				Err(err).
				Int("offset", p.LastUpdateID+1).
				Dur("retry_in", p.RetryDelay).
				Msg("Failed to get updates")
			if !wait(stop, p.RetryDelay) {
				return
			}
			continue
		}

		for _, upd := range updates {
			if upd.ID > p.LastUpdateID {
				p.LastUpdateID = upd.ID
			}
			select {
			case dest <- upd:
			case <-stop:
				return
			}
		}

		if len(updates) == 0 && !wait(stop, p.IdleDelay) {
			return
		}
	}
}

// wait sleeps for d and reports false if stop was closed first.
func wait(stop chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}

// getUpdates calls the getUpdates Bot API method for message updates only.
func getUpdates(b *tele.Bot, offset int, timeout time.Duration) ([]tele.Update, error) {
	params := map[string]string{
		"offset":          strconv.Itoa(offset),
		"timeout":         strconv.Itoa(int(timeout / time.Second)),
		"allowed_updates": `["message"]`,
	}

	data, err := b.Raw("getUpdates", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result []tele.Update `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}

	return resp.Result, nil
}
