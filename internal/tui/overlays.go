package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gregriff/rilmas/internal/dialogs"
	"github.com/gregriff/rilmas/internal/schemas"
)

type groupField int

const (
	groupName groupField = iota
	groupDescription
	groupIcon
)

type groupForm struct {
	dialog      *dialogs.GroupCreation
	name        textinput.Model
	description textinput.Model
	field       groupField
}

func newGroupForm(onCreate func(name, description, icon string)) groupForm {
	name := textinput.New()
	name.Placeholder = "Group name"
	name.CharLimit = 64
	name.Width = 36

	description := textinput.New()
	description.Placeholder = "Description"
	description.CharLimit = 256
	description.Width = 36

	return groupForm{
		dialog:      dialogs.NewGroupCreation(onCreate),
		name:        name,
		description: description,
	}
}

func (m *Model) openGroup() tea.Cmd {
	g := &m.group
	g.dialog.Show()
	g.name.SetValue(g.dialog.Name())
	g.description.SetValue(g.dialog.Description())
	g.field = groupName
	m.overlay = overlayGroup
	return g.name.Focus()
}

// onGroupCreate receives the emitted group from the dialog, records it in the
// view model and asks the chat endpoint to create it.
func (m *Model) onGroupCreate(name, description, icon string) {
	localID, err := m.chats.CreateGroup(name, description, icon)
	if err != nil {
		m.fail(err)
		return
	}
	m.queue(m.createGroup(localID, strings.TrimSpace(name), strings.TrimSpace(description), icon))
}

func (m *Model) updateGroup(msg tea.KeyMsg) tea.Cmd {
	g := &m.group
	g.dialog.SetName(g.name.Value())
	g.dialog.SetDescription(g.description.Value())

	switch msg.Type {
	case tea.KeyEsc:
		g.dialog.Cancel()
		m.overlay = overlayNone
		return nil
	case tea.KeyTab, tea.KeyShiftTab:
		g.field = (g.field + 1) % 3
		if msg.Type == tea.KeyShiftTab {
			g.field = (g.field + 1) % 3
		}
		g.name.Blur()
		g.description.Blur()
		switch g.field {
		case groupName:
			return g.name.Focus()
		case groupDescription:
			return g.description.Focus()
		}
		return nil
	case tea.KeyEnter:
		if err := g.dialog.Create(); err != nil {
			m.fail(err)
			return nil
		}
		m.lastErr = nil
		g.name.SetValue("")
		g.description.SetValue("")
		m.overlay = overlayNone
		return nil
	}

	if g.field == groupIcon {
		if msg.Type == tea.KeyLeft || msg.Type == tea.KeyRight {
			g.dialog.ChooseIcon(cycle(dialogs.GroupIcons, g.dialog.Icon(), msg.Type == tea.KeyLeft))
		}
		return nil
	}

	var cmd tea.Cmd
	if g.field == groupName {
		g.name, cmd = g.name.Update(msg)
	} else {
		g.description, cmd = g.description.Update(msg)
	}
	return cmd
}

func (m *Model) viewGroup() string {
	g := &m.group
	var b strings.Builder
	b.WriteString(titleStyle.Render("New group") + "\n\n")
	b.WriteString("Name\n" + g.name.View() + "\n\n")
	b.WriteString("Description\n" + g.description.View() + "\n\n")
	label := "Icon"
	if g.field == groupIcon {
		label = "Icon ←/→"
	}
	b.WriteString(label + "\n" + picker(dialogs.GroupIcons, slices.Index(dialogs.GroupIcons, g.dialog.Icon())) + "\n\n")
	b.WriteString(mutedStyle.Render("enter: create • tab: next field • esc: close"))
	return boxStyle.Render(b.String())
}

type profileField int

const (
	profileNickname profileField = iota
	profileEmoji
	profileImage
)

type profileForm struct {
	dialog   *dialogs.ProfileEdit
	nickname textinput.Model
	image    textinput.Model
	field    profileField
}

func (m *Model) openProfile() tea.Cmd {
	current, ok := m.store.Profile()
	if !ok {
		current = schemas.ProfileOf(m.session.User)
	}

	nickname := textinput.New()
	nickname.Placeholder = "Nickname"
	nickname.CharLimit = 32
	nickname.Width = 36
	nickname.SetValue(current.Nickname)

	image := textinput.New()
	image.Placeholder = "Image URL or data URI"
	image.CharLimit = 1 << 16
	image.Width = 36
	if ref, ok := current.Avatar.Image(); ok {
		image.SetValue(ref)
	}

	m.profile = profileForm{
		dialog:   dialogs.NewProfileEdit(current, m.onProfileSave),
		nickname: nickname,
		image:    image,
	}
	m.overlay = overlayProfile
	return m.profile.nickname.Focus()
}

func (m *Model) onProfileSave(p schemas.Profile) {
	if err := m.store.SetProfile(p); err != nil {
		m.fail(err)
		return
	}
	m.status = "profile saved"
}

func (m *Model) updateProfile(msg tea.KeyMsg) tea.Cmd {
	p := &m.profile
	p.dialog.SetNickname(p.nickname.Value())

	switch msg.Type {
	case tea.KeyEsc:
		p.dialog.Cancel()
		m.overlay = overlayNone
		return nil
	case tea.KeyTab, tea.KeyShiftTab:
		p.field = (p.field + 1) % 3
		if msg.Type == tea.KeyShiftTab {
			p.field = (p.field + 1) % 3
		}
		p.nickname.Blur()
		p.image.Blur()
		switch p.field {
		case profileNickname:
			return p.nickname.Focus()
		case profileImage:
			return p.image.Focus()
		}
		return nil
	case tea.KeyEnter:
		if ref := strings.TrimSpace(p.image.Value()); p.field == profileImage && ref != "" {
			if err := p.dialog.ChooseImage(ref); err != nil {
				m.fail(err)
				return nil
			}
		}
		if _, err := p.dialog.Save(); err != nil {
			m.fail(err)
			return nil
		}
		m.lastErr = nil
		m.overlay = overlayNone
		return nil
	}

	var cmd tea.Cmd
	switch p.field {
	case profileEmoji:
		if msg.Type == tea.KeyLeft || msg.Type == tea.KeyRight {
			current, _ := p.dialog.Avatar().Emoji()
			p.dialog.ChooseEmoji(cycle(dialogs.ProfileAvatars, current, msg.Type == tea.KeyLeft))
		}
	case profileNickname:
		p.nickname, cmd = p.nickname.Update(msg)
	case profileImage:
		p.image, cmd = p.image.Update(msg)
	}
	return cmd
}

func (m *Model) viewProfile() string {
	p := &m.profile
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit profile") + "\n\n")
	b.WriteString("Nickname\n" + p.nickname.View() + "\n\n")

	emoji, isEmoji := p.dialog.Avatar().Emoji()
	chosen := -1
	if isEmoji {
		chosen = slices.Index(dialogs.ProfileAvatars, emoji)
	}
	label := "Emoji"
	if p.field == profileEmoji {
		label = "Emoji ←/→"
	}
	b.WriteString(label + "\n" + picker(dialogs.ProfileAvatars, chosen) + "\n\n")
	b.WriteString("Image\n" + p.image.View() + "\n\n")
	b.WriteString(mutedStyle.Render("enter: save • tab: next field • esc: cancel"))
	return boxStyle.Render(b.String())
}

// cycle returns the option after (or before) current, starting from the
// first option when current is not among them.
func cycle(options []string, current string, back bool) string {
	i := slices.Index(options, current)
	n := len(options)
	switch {
	case i < 0:
		return options[0]
	case back:
		return options[(i-1+n)%n]
	}
	return options[(i+1)%n]
}
