package tui

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gregriff/rilmas/internal/chat"
	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/session"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if len(m.queued) > 0 {
		cmd = tea.Batch(append(m.queued, cmd)...)
		m.queued = nil
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case splashTickMsg:
		m.splash = m.splash.Update(msg)
		if m.screen == screenSplash && m.splash.Done() {
			return m.leaveSplash()
		}
		return nil

	case requestDone:
		m.pending--
		return m.update(msg.msg)

	case errMsg:
		m.fail(msg.err)
		return nil

	case authFailedMsg:
		m.auth.submitting = false
		m.fail(msg.err)
		return nil

	case authDoneMsg:
		m.auth.submitting = false
		logx.Info("signed in", "user_id", msg.session.User.ID)
		return m.enterChats(msg.session)

	case chatsLoadedMsg:
		m.setConversations(msg.convs)
		return nil

	case messagesLoadedMsg:
		if err := m.chats.SetMessages(msg.chatID, msg.msgs); err != nil {
			m.fail(err)
			return nil
		}
		m.refreshThread()
		return nil

	case messageSentMsg:
		if err := m.chats.AppendMessage(msg.msg.ChatID, msg.msg); err != nil {
			m.fail(err)
			return nil
		}
		m.refreshThread()
		return nil

	case groupCreatedMsg:
		if err := m.chats.ConfirmGroup(msg.localID, msg.chatID); err != nil {
			m.fail(err)
		}
		m.status = "group created"
		return m.loadChats()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		switch m.screen {
		case screenAuth:
			return m.updateAuth(msg)
		case screenChats:
			return m.updateChats(msg)
		}
	}
	return nil
}

func (m *Model) leaveSplash() tea.Cmd {
	if s, ok := m.store.Get(); ok {
		return m.enterChats(s)
	}
	m.screen = screenAuth
	return m.auth.phone.Focus()
}

func (m *Model) enterChats(s session.Session) tea.Cmd {
	m.session = s
	m.screen = screenChats
	m.focus = focusList
	m.lastErr = nil
	m.chats.AddUser(s.User)
	return m.loadChats()
}

// setConversations installs a fresh listing and mirrors its peers and groups
// into the directory.
func (m *Model) setConversations(convs []schemas.Conversation) {
	m.chats.SetConversations(convs)
	for _, c := range convs {
		switch {
		case c.Kind == schemas.GroupChat:
			m.chats.AddGroup(schemas.Group{ID: c.ID, Name: c.Name, Icon: c.Avatar.String()})
		case c.PeerID != 0:
			m.chats.AddUser(schemas.User{ID: c.PeerID, Name: c.Name, Avatar: c.Avatar, Online: c.Online})
		}
	}
	m.cursor = min(m.cursor, max(len(m.visible())-1, 0))
	m.refreshThread()
}

// visible is the conversation list after the search filter.
func (m *Model) visible() []schemas.Conversation {
	return slices.Collect(m.chats.Search(m.search.Value()).Conversations())
}

func (m *Model) updateChats(msg tea.KeyMsg) tea.Cmd {
	switch m.overlay {
	case overlayGroup:
		return m.updateGroup(msg)
	case overlayProfile:
		return m.updateProfile(msg)
	}

	switch m.focus {
	case focusSearch:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter, tea.KeyDown:
			m.search.Blur()
			m.focus = focusList
			return nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.cursor = 0
		return cmd

	case focusComposer:
		switch msg.Type {
		case tea.KeyEsc:
			m.composer.Blur()
			m.focus = focusList
			return nil
		case tea.KeyEnter:
			return m.submitComposer()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.thread, cmd = m.thread.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return cmd
	}

	visible := m.visible()
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "enter", "l", "right":
		if m.cursor < len(visible) {
			return m.open(visible[m.cursor].ID)
		}
	case "/":
		m.focus = focusSearch
		return m.search.Focus()
	case "g":
		return m.openGroup()
	case "p":
		return m.openProfile()
	case "r":
		m.status = ""
		return m.loadChats()
	case "L":
		return m.logout()
	}
	return nil
}

func (m *Model) open(chatID int64) tea.Cmd {
	if !m.chats.SelectConversation(chatID) {
		return nil
	}
	m.focus = focusComposer
	m.refreshThread()
	return tea.Batch(m.composer.Focus(), m.loadMessages(chatID))
}

func (m *Model) logout() tea.Cmd {
	if err := m.store.Clear(); err != nil {
		m.fail(err)
		return nil
	}
	logx.Info("signed out", "user_id", m.session.User.ID)
	m.session = session.Session{}
	m.chats = chat.NewModel()
	m.search.SetValue("")
	m.cursor = 0
	m.auth = newAuthForm("")
	m.screen = screenAuth
	return m.auth.phone.Focus()
}

var errNoConversation = errors.New("open a conversation first")

// submitComposer sends the composer text. "/media <url> [caption]",
// "/sticker <id>" and "/rename <name>" are understood.
func (m *Model) submitComposer() tea.Cmd {
	chatID, ok := m.chats.Active()
	if !ok {
		m.fail(errNoConversation)
		return nil
	}
	text := strings.TrimSpace(m.composer.Value())
	if text == "" {
		return nil
	}

	msg := schemas.Message{ChatID: chatID, SenderID: m.session.User.ID, Sender: m.session.User.Name, Type: schemas.TextMessage, Content: text}
	command, arg, _ := strings.Cut(text, " ")
	switch command {
	case "/media":
		url, caption, _ := strings.Cut(strings.TrimSpace(arg), " ")
		msg.Type, msg.MediaURL, msg.Content = schemas.MediaMessage, url, strings.TrimSpace(caption)
	case "/sticker":
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			m.fail(errors.New("sticker id must be a number"))
			return nil
		}
		msg.Type, msg.StickerID, msg.Content = schemas.StickerMessage, id, ""
	case "/rename":
		m.renamePeer(chatID, arg)
		m.composer.SetValue("")
		return nil
	}

	if err := msg.Validate(); err != nil {
		m.fail(err)
		return nil
	}
	m.lastErr = nil
	m.composer.SetValue("")
	return m.sendMessage(msg)
}

// renamePeer sets a local name for the other member of a direct chat.
func (m *Model) renamePeer(chatID int64, name string) {
	c, ok := m.chats.Conversation(chatID)
	if !ok || c.PeerID == 0 || c.Kind == schemas.GroupChat {
		m.fail(errors.New("only direct chats can be renamed"))
		return
	}
	if !m.chats.RenameLocalUser(c.PeerID, name) {
		m.fail(errors.New("name is empty"))
		return
	}
	m.lastErr = nil
	m.status = "renamed locally"
}

func (m *Model) resize() {
	w := max(m.width-sidebarWidth-4, 20)
	h := max(m.height-8, 3)
	m.thread.Width, m.thread.Height = w, h
	m.composer.Width = w - 4
	m.refreshThread()
}
