package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"mini-games-bot/internal/handler"
)

// fakeContext implements the parts of tele.Context the bot touches.
type fakeContext struct {
	tele.Context

	sender *tele.User
	chat   *tele.Chat
	text   string
	sent   []interface{}
}

func (c *fakeContext) Sender() *tele.User { return c.sender }
func (c *fakeContext) Chat() *tele.Chat   { return c.chat }
func (c *fakeContext) Text() string       { return c.text }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

type sentMessage struct {
	to   string
	text string
	opts []interface{}
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (s *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, _ := what.(string)
	s.sent = append(s.sent, sentMessage{to: to.Recipient(), text: text, opts: opts})
	if s.err != nil {
		return nil, s.err
	}
	return &tele.Message{Text: text}, nil
}

type fakeDispatcher struct {
	got     []handler.Incoming
	replies []handler.Reply
	err     error
}

func (d *fakeDispatcher) Handle(_ context.Context, in handler.Incoming) ([]handler.Reply, error) {
	d.got = append(d.got, in)
	return d.replies, d.err
}

func newTestBot(d Dispatcher, s Sender) *Bot {
	return &Bot{sender: s, dispatcher: d, ctx: context.Background()}
}

func textContext(text string) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: 42, Username: "alice", FirstName: "Alice", LastName: "Smith"},
		chat:   &tele.Chat{ID: 4242, Type: tele.ChatPrivate},
		text:   text,
	}
}

func TestOnText_BuildsIncoming(t *testing.T) {
	d := &fakeDispatcher{}
	b := newTestBot(d, &fakeSender{})

	require.NoError(t, b.onText(textContext("/start")))

	require.Len(t, d.got, 1)
	assert.Equal(t, handler.Incoming{
		ChatID:    4242,
		UserID:    42,
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Text:      "/start",
	}, d.got[0])
}

func TestOnText_SendsEveryReply(t *testing.T) {
	d := &fakeDispatcher{replies: []handler.Reply{
		{ChatID: 4242, Text: "blocked"},
		{ChatID: 77, Text: "you are blocked"},
	}}
	s := &fakeSender{}
	b := newTestBot(d, s)

	require.NoError(t, b.onText(textContext("/block bob spam")))

	require.Len(t, s.sent, 2)
	assert.Equal(t, "4242", s.sent[0].to)
	assert.Equal(t, "blocked", s.sent[0].text)
	assert.Empty(t, s.sent[0].opts)
	assert.Equal(t, "77", s.sent[1].to)
	assert.Equal(t, "you are blocked", s.sent[1].text)
}

func TestOnText_AttachesKeyboard(t *testing.T) {
	d := &fakeDispatcher{replies: []handler.Reply{{
		ChatID:   4242,
		Text:     "welcome",
		Keyboard: [][]string{{"/quiz", "/guess"}, {"/rating"}},
	}}}
	s := &fakeSender{}
	b := newTestBot(d, s)

	require.NoError(t, b.onText(textContext("/start")))

	require.Len(t, s.sent, 1)
	require.Len(t, s.sent[0].opts, 1)
	markup, ok := s.sent[0].opts[0].(*tele.ReplyMarkup)
	require.True(t, ok)
	assert.True(t, markup.ResizeKeyboard)
	require.Len(t, markup.ReplyKeyboard, 2)
	require.Len(t, markup.ReplyKeyboard[0], 2)
	assert.Equal(t, "/quiz", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "/guess", markup.ReplyKeyboard[0][1].Text)
	assert.Equal(t, "/rating", markup.ReplyKeyboard[1][0].Text)
}

func TestOnText_DispatchErrorSendsErrorText(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("db down")}
	s := &fakeSender{}
	b := newTestBot(d, s)

	require.NoError(t, b.onText(textContext("/rating")))

	require.Len(t, s.sent, 1)
	assert.Equal(t, "4242", s.sent[0].to)
	assert.Equal(t, handler.ErrorText, s.sent[0].text)
}

func TestOnText_SendFailureIsSwallowed(t *testing.T) {
	d := &fakeDispatcher{replies: []handler.Reply{
		{ChatID: 1, Text: "a"},
		{ChatID: 2, Text: "b"},
	}}
	s := &fakeSender{err: errors.New("forbidden: bot was blocked by the user")}
	b := newTestBot(d, s)

	require.NoError(t, b.onText(textContext("x")))
	assert.Len(t, s.sent, 2)
}

func TestOnText_IgnoresMessagesWithoutSender(t *testing.T) {
	d := &fakeDispatcher{}
	b := newTestBot(d, &fakeSender{})

	c := textContext("hi")
	c.sender = nil
	require.NoError(t, b.onText(c))
	assert.Empty(t, d.got)
}

func TestRecoveryMiddleware(t *testing.T) {
	c := textContext("/quiz")
	h := RecoveryMiddleware()(func(tele.Context) error {
		panic("boom")
	})

	require.NoError(t, h(c))
	assert.Equal(t, []interface{}{handler.ErrorText}, c.sent)
}

func TestRecoveryMiddleware_PassesThrough(t *testing.T) {
	want := errors.New("handler failed")
	c := textContext("/quiz")
	h := RecoveryMiddleware()(func(tele.Context) error { return want })

	assert.ErrorIs(t, h(c), want)
	assert.Empty(t, c.sent)
}

func TestLoggingMiddleware_CallsNext(t *testing.T) {
	called := false
	h := LoggingMiddleware()(func(tele.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(textContext("hello")))
	assert.True(t, called)
}
