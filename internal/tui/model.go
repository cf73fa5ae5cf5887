/*
Package tui is the interactive terminal front-end: splash, registration and
login, the chat list with search, message threads and the group and profile
dialogs.
*/
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gregriff/rilmas/internal/chat"
	"github.com/gregriff/rilmas/internal/dialogs"
	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/services/rilmas"
	"github.com/gregriff/rilmas/internal/session"
)

// API is the part of the transport client the UI uses.
type API interface {
	dialogs.Registrar
	dialogs.Authenticator
	ListConversations(ctx context.Context, userID int64, token string) ([]schemas.Conversation, error)
	ListMessages(ctx context.Context, chatID int64, token string, limit int) ([]schemas.Message, error)
	SendMessage(ctx context.Context, msg schemas.Message, token string) (*rilmas.SentMessage, error)
	CreateGroup(ctx context.Context, name, icon, description string, userID int64, token string) (int64, error)
}

type screen int

const (
	screenSplash screen = iota
	screenAuth
	screenChats
)

type focus int

const (
	focusList focus = iota
	focusSearch
	focusComposer
)

type overlay int

const (
	overlayNone overlay = iota
	overlayGroup
	overlayProfile
)

const sidebarWidth = 32

// Model is the root bubbletea model. It is used through a pointer so dialog
// callbacks can queue commands while Update runs.
type Model struct {
	ctx   context.Context
	api   API
	store *session.Store

	screen        screen
	splash        splash
	width, height int

	auth authForm

	session  session.Session
	chats    *chat.Model
	cursor   int
	focus    focus
	search   textinput.Model
	composer textinput.Model
	thread   viewport.Model

	overlay overlay
	group   groupForm
	profile profileForm

	spinner spinner.Model
	pending int
	queued  []tea.Cmd
	lastErr error
	status  string
}

// New builds the UI. A session already in store skips registration. Requests
// are cancelled when ctx is done.
func New(ctx context.Context, api API, store *session.Store, inviteCode string) *Model {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 64
	search.Width = sidebarWidth - 6

	composer := textinput.New()
	composer.Placeholder = "Message, /media <url>, /sticker <id>, /rename <name>"
	composer.CharLimit = 4000

	m := &Model{
		ctx:      ctx,
		api:      api,
		store:    store,
		chats:    chat.NewModel(),
		search:   search,
		composer: composer,
		thread:   viewport.New(80, 20),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.auth = newAuthForm(inviteCode)
	m.group = newGroupForm(m.onGroupCreate)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.splash.Init(), m.spinner.Tick, textinput.Blink)
}

// requestDone wraps the result of a request so the pending count stays exact.
type requestDone struct {
	msg tea.Msg
}

type errMsg struct {
	err error
}

type authDoneMsg struct {
	session session.Session
}

type authFailedMsg struct {
	err error
}

type chatsLoadedMsg struct {
	convs []schemas.Conversation
}

type messagesLoadedMsg struct {
	chatID int64
	msgs   []schemas.Message
}

type messageSentMsg struct {
	msg schemas.Message
}

type groupCreatedMsg struct {
	localID, chatID int64
}

// request runs fn off the UI loop.
func (m *Model) request(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return requestDone{msg: fn(ctx)}
	}
}

// queue schedules cmd to be returned by the current Update.
func (m *Model) queue(cmd tea.Cmd) {
	m.queued = append(m.queued, cmd)
}

func (m *Model) loadChats() tea.Cmd {
	s := m.session
	return m.request(func(ctx context.Context) tea.Msg {
		convs, err := m.api.ListConversations(ctx, s.User.ID, s.Token)
		if err != nil {
			return errMsg{err}
		}
		return chatsLoadedMsg{convs: convs}
	})
}

func (m *Model) loadMessages(chatID int64) tea.Cmd {
	token := m.session.Token
	return m.request(func(ctx context.Context) tea.Msg {
		msgs, err := m.api.ListMessages(ctx, chatID, token, 0)
		if err != nil {
			return errMsg{err}
		}
		return messagesLoadedMsg{chatID: chatID, msgs: msgs}
	})
}

func (m *Model) sendMessage(msg schemas.Message) tea.Cmd {
	token := m.session.Token
	return m.request(func(ctx context.Context) tea.Msg {
		sent, err := m.api.SendMessage(ctx, msg, token)
		if err != nil {
			return errMsg{err}
		}
		msg.ID, msg.Time = sent.MessageID, sent.CreatedAt
		return messageSentMsg{msg: msg}
	})
}

func (m *Model) createGroup(localID int64, name, description, icon string) tea.Cmd {
	s := m.session
	return m.request(func(ctx context.Context) tea.Msg {
		chatID, err := m.api.CreateGroup(ctx, name, icon, description, s.User.ID, s.Token)
		if err != nil {
			return errMsg{err}
		}
		return groupCreatedMsg{localID: localID, chatID: chatID}
	})
}

// completeRegistration raises the dialog's loading flag before returning, so
// a second enter processed ahead of the request is rejected.
func (m *Model) completeRegistration(reg *dialogs.Registration) tea.Cmd {
	submit, err := reg.Start(m.ctx, m.api, m.store)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.auth.submitting = true
	return m.request(func(context.Context) tea.Msg {
		if err := submit(); err != nil {
			return authFailedMsg{err}
		}
		s, _ := m.store.Get()
		return authDoneMsg{session: s}
	})
}

func (m *Model) submitLogin(phone string) tea.Cmd {
	submit, err := m.auth.login.Start(m.ctx, phone, m.api, m.store)
	if err != nil {
		m.fail(err)
		return nil
	}
	m.auth.submitting = true
	return m.request(func(context.Context) tea.Msg {
		if _, err := submit(); err != nil {
			return authFailedMsg{err}
		}
		s, _ := m.store.Get()
		return authDoneMsg{session: s}
	})
}

// describe turns an error into the text shown in the status line.
func describe(err error) string {
	var (
		se *rilmas.StatusError
		de *rilmas.DecodeError
	)
	switch {
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case errors.As(err, &de):
		return "unexpected response from the server"
	case errors.Is(err, rilmas.ErrNoUser):
		return "the server did not return a user"
	case errors.Is(err, dialogs.ErrInFlight):
		return "still waiting for the previous request"
	case errors.Is(err, rilmas.ErrTransport):
		return "server unreachable"
	}
	return err.Error()
}

func (m *Model) fail(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	logx.Debug("ui error", "error", err.Error())
	m.lastErr = err
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, api API, store *session.Store, inviteCode string) error {
	p := tea.NewProgram(New(ctx, api, store, inviteCode), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
