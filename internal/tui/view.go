package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gregriff/rilmas/internal/schemas"
)

func (m *Model) View() string {
	switch m.screen {
	case screenSplash:
		return m.splash.View(m.width, m.height)
	case screenAuth:
		body := lipgloss.JoinVertical(lipgloss.Left, m.viewAuth(), m.statusLine())
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return m.viewChats()
}

func (m *Model) viewChats() string {
	var main string
	switch m.overlay {
	case overlayGroup:
		main = lipgloss.Place(m.thread.Width+2, m.thread.Height+6, lipgloss.Center, lipgloss.Center, m.viewGroup())
	case overlayProfile:
		main = lipgloss.Place(m.thread.Width+2, m.thread.Height+6, lipgloss.Center, lipgloss.Center, m.viewProfile())
	default:
		main = m.viewThread()
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), main)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

func (m *Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.profileLabel()) + "\n")
	b.WriteString(m.search.View() + "\n\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("no conversations"))
	}
	active, hasActive := m.chats.Active()
	for i, c := range visible {
		line := fmt.Sprintf("%s %s", c.Avatar.Glyph(), m.conversationName(c))
		if c.Online {
			line += " " + ownMessageStyle.Render("●")
		}
		if c.Unread > 0 {
			line += " " + unreadStyle.Render(fmt.Sprint(c.Unread))
		}
		if c.LastMessage != "" {
			line += "\n  " + mutedStyle.Render(truncate(c.LastMessage, sidebarWidth-8))
		}
		selected := (i == m.cursor && m.focus == focusList) || (hasActive && c.ID == active && m.focus != focusList)
		if selected {
			b.WriteString(selectedItemStyle.Render(line) + "\n")
		} else {
			b.WriteString(unselectedItemStyle.Render(line) + "\n")
		}
	}

	style := sidebarStyle.Width(sidebarWidth).Height(max(m.height-4, 5))
	if m.focus != focusComposer {
		style = style.BorderForeground(accentColor)
	}
	return style.Render(b.String())
}

func (m *Model) viewThread() string {
	id, ok := m.chats.Active()
	if !ok {
		hint := mutedStyle.Render("select a conversation • g: new group • p: profile • /: search")
		return chatWindowStyle.Render(lipgloss.Place(m.thread.Width, m.thread.Height+4, lipgloss.Center, lipgloss.Center, hint))
	}
	c, _ := m.chats.Conversation(id)
	header := headerStyle.Width(m.thread.Width).Render(c.Avatar.Glyph() + " " + m.conversationName(c))
	footer := footerStyle.Width(m.thread.Width).Render(m.composer.View())

	style := chatWindowStyle
	if m.focus == focusComposer {
		style = style.BorderForeground(accentColor)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.thread.View(), footer))
}

// refreshThread rerenders the active conversation into the viewport.
func (m *Model) refreshThread() {
	id, ok := m.chats.Active()
	if !ok {
		m.thread.SetContent("")
		return
	}
	var b strings.Builder
	for _, msg := range m.chats.Messages(id) {
		b.WriteString(m.renderMessage(msg) + "\n")
	}
	m.thread.SetContent(b.String())
	m.thread.GotoBottom()
}

func (m *Model) renderMessage(msg schemas.Message) string {
	sender, style := msg.Sender, otherMessageStyle
	if msg.FromSelf(m.session.User.ID) {
		sender, style = "You", ownMessageStyle
	} else if u, ok := m.chats.User(msg.SenderID); ok {
		sender = u.DisplayName()
	}

	body := msg.Content
	switch msg.Type {
	case schemas.MediaMessage:
		body = strings.TrimSpace("🖼 " + msg.MediaURL + " " + msg.Content)
	case schemas.StickerMessage:
		body = fmt.Sprintf("[sticker #%d]", msg.StickerID)
	}
	return fmt.Sprintf("%s %s %s", mutedStyle.Render(clock(msg.Time)), style.Render(sender+":"), body)
}

func (m *Model) conversationName(c schemas.Conversation) string {
	return m.chats.DisplayName(c)
}

// profileLabel is the local profile as edited, falling back to the session user.
func (m *Model) profileLabel() string {
	p, ok := m.store.Profile()
	if !ok || p.Nickname == "" {
		p = schemas.ProfileOf(m.session.User)
	}
	return p.Avatar.Glyph() + " " + p.Nickname
}

func (m *Model) statusLine() string {
	switch {
	case m.pending > 0:
		return m.spinner.View() + " " + mutedStyle.Render("working...")
	case m.lastErr != nil:
		return errorStyle.Render("error: " + describe(m.lastErr))
	case m.status != "":
		return mutedStyle.Render(m.status)
	case m.screen == screenChats && m.session.User.InviteCode != "":
		return mutedStyle.Render("invite code " + m.session.User.InviteCode + " • r: refresh • L: sign out • q: quit")
	}
	return mutedStyle.Render("ctrl+c: quit")
}

// clock shows a wire timestamp as local hh:mm when it parses.
func clock(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:max(n-1, 0)]) + "…"
}
