package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gregriff/rilmas/internal/dialogs"
)

type authMode int

const (
	modeRegister authMode = iota
	modeLogin
)

// authForm is the screen shown when no session was restored.
type authForm struct {
	mode      authMode
	reg       *dialogs.Registration
	login     *dialogs.Login
	phone     textinput.Model
	invite    textinput.Model
	nickname  textinput.Model
	onInvite  bool
	avatarIdx int

	// submitting stays set until Update has handled the auth result.
	submitting bool
}

func newAuthForm(inviteCode string) authForm {
	phone := textinput.New()
	phone.Placeholder = "+7 (___) ___-__-__"
	phone.CharLimit = 24
	phone.Width = 30
	phone.Focus()

	invite := textinput.New()
	invite.Placeholder = "Invite code (optional)"
	invite.CharLimit = 16
	invite.Width = 30
	invite.SetValue(inviteCode)

	nickname := textinput.New()
	nickname.Placeholder = "Nickname"
	nickname.CharLimit = 32
	nickname.Width = 30

	return authForm{
		reg:      dialogs.NewRegistration(inviteCode, nil),
		login:    &dialogs.Login{},
		phone:    phone,
		invite:   invite,
		nickname: nickname,
	}
}

// busy reports whether a registration or login is waiting for its response.
func (a *authForm) busy() bool {
	return a.submitting || a.reg.Loading() || a.login.Loading()
}

func (m *Model) updateAuth(msg tea.KeyMsg) tea.Cmd {
	a := &m.auth
	if a.busy() {
		if msg.Type == tea.KeyEnter {
			m.fail(dialogs.ErrInFlight)
		}
		return nil
	}
	if msg.String() == "ctrl+l" {
		if a.mode == modeRegister {
			a.mode = modeLogin
		} else {
			a.mode = modeRegister
		}
		a.reg.Back()
		a.onInvite = false
		a.invite.Blur()
		a.nickname.Blur()
		m.lastErr = nil
		return a.phone.Focus()
	}

	if a.mode == modeLogin {
		if msg.Type == tea.KeyEnter {
			m.lastErr = nil
			return m.submitLogin(a.phone.Value())
		}
		var cmd tea.Cmd
		a.phone, cmd = a.phone.Update(msg)
		return cmd
	}

	switch a.reg.Step() {
	case dialogs.PhoneEntry:
		return m.updatePhoneEntry(msg)
	default:
		return m.updateProfileSetup(msg)
	}
}

func (m *Model) updatePhoneEntry(msg tea.KeyMsg) tea.Cmd {
	a := &m.auth
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		a.onInvite = !a.onInvite
		if a.onInvite {
			a.phone.Blur()
			return a.invite.Focus()
		}
		a.invite.Blur()
		return a.phone.Focus()
	case tea.KeyEnter:
		code := strings.TrimSpace(a.invite.Value())
		if code != a.reg.InviteCode() {
			a.reg = dialogs.NewRegistration(code, nil)
		}
		a.reg.SetPhone(a.phone.Value())
		if err := a.reg.Continue(); err != nil {
			m.fail(err)
			return nil
		}
		m.lastErr = nil
		a.phone.Blur()
		a.invite.Blur()
		return a.nickname.Focus()
	}

	var cmd tea.Cmd
	if a.onInvite {
		a.invite, cmd = a.invite.Update(msg)
	} else {
		a.phone, cmd = a.phone.Update(msg)
	}
	return cmd
}

func (m *Model) updateProfileSetup(msg tea.KeyMsg) tea.Cmd {
	a := &m.auth
	switch msg.Type {
	case tea.KeyEsc:
		a.reg.Back()
		a.nickname.Blur()
		a.onInvite = false
		return a.phone.Focus()
	case tea.KeyLeft, tea.KeyRight:
		step := 1
		if msg.Type == tea.KeyLeft {
			step = -1
		}
		n := len(dialogs.RegistrationAvatars)
		a.avatarIdx = (a.avatarIdx + step + n) % n
		a.reg.ChooseAvatar(dialogs.RegistrationAvatars[a.avatarIdx])
		return nil
	case tea.KeyEnter:
		m.lastErr = nil
		a.reg.SetNickname(a.nickname.Value())
		return m.completeRegistration(a.reg)
	}

	var cmd tea.Cmd
	a.nickname, cmd = a.nickname.Update(msg)
	return cmd
}

func (m *Model) viewAuth() string {
	a := &m.auth
	var b strings.Builder

	if a.mode == modeLogin {
		b.WriteString(titleStyle.Render("Sign in") + "\n\n")
		b.WriteString("Phone\n" + a.phone.View() + "\n\n")
		b.WriteString(mutedStyle.Render("enter: sign in • ctrl+l: register instead"))
		return boxStyle.Render(b.String())
	}

	switch a.reg.Step() {
	case dialogs.PhoneEntry:
		b.WriteString(titleStyle.Render("Welcome to rilmas") + "\n\n")
		b.WriteString("Phone\n" + a.phone.View() + "\n\n")
		b.WriteString("Invite code\n" + a.invite.View() + "\n\n")
		b.WriteString(mutedStyle.Render("enter: continue • tab: switch field • ctrl+l: sign in instead"))
	default:
		b.WriteString(titleStyle.Render("Set up your profile") + "\n\n")
		b.WriteString("Nickname\n" + a.nickname.View() + "\n\n")
		b.WriteString("Avatar\n" + picker(dialogs.RegistrationAvatars, a.avatarIdx) + "\n\n")
		b.WriteString(mutedStyle.Render("enter: finish • ←/→: avatar • esc: back"))
	}
	return boxStyle.Render(b.String())
}

// picker renders a row of emoji with the chosen one framed.
func picker(options []string, chosen int) string {
	cells := make([]string, len(options))
	for i, o := range options {
		if i == chosen {
			cells[i] = pickedStyle.Render(o)
		} else {
			cells[i] = pickStyle.Render(o)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cells...)
}
