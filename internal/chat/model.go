// Package chat holds the client-side view of conversations, their messages,
// the user directory and locally created groups.
//
// A Model is not safe for concurrent use; it is owned by the UI loop.
package chat

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gregriff/rilmas/internal/schemas"
)

var (
	ErrNotFound  = errors.New("conversation not found")
	ErrEmptyName = errors.New("name is empty")
)

type Model struct {
	conversations []schemas.Conversation
	messages      map[int64][]schemas.Message
	users         []schemas.User
	groups        []schemas.Group

	active    int64
	hasActive bool
	nextGroup int64
}

func NewModel() *Model {
	return &Model{messages: make(map[int64][]schemas.Message)}
}

// SetConversations replaces the conversation list, keeping the given order.
// Message threads of conversations that disappeared are dropped, and the
// selection is cleared if it no longer exists.
func (m *Model) SetConversations(convs []schemas.Conversation) {
	m.conversations = slices.Clone(convs)
	for id := range m.messages {
		if m.indexOf(id) < 0 {
			delete(m.messages, id)
		}
	}
	if m.hasActive && m.indexOf(m.active) < 0 {
		m.ClearSelection()
	}
}

func (m *Model) Conversations() []schemas.Conversation {
	return slices.Clone(m.conversations)
}

// Conversation returns the conversation with id.
func (m *Model) Conversation(id int64) (schemas.Conversation, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return schemas.Conversation{}, false
	}
	return m.conversations[i], true
}

// SetMessages replaces the thread of a known conversation.
func (m *Model) SetMessages(id int64, msgs []schemas.Message) error {
	if m.indexOf(id) < 0 {
		return fmt.Errorf("set messages of %d: %w", id, ErrNotFound)
	}
	m.messages[id] = slices.Clone(msgs)
	return nil
}

// Messages returns the thread of a conversation, oldest first.
func (m *Model) Messages(id int64) []schemas.Message {
	return slices.Clone(m.messages[id])
}

// SelectConversation makes id the active conversation and marks it read.
// Unknown ids leave the current selection untouched and report false.
func (m *Model) SelectConversation(id int64) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.active, m.hasActive = id, true
	m.conversations[i].Unread = 0
	return true
}

func (m *Model) ClearSelection() {
	m.active, m.hasActive = 0, false
}

// Active returns the active conversation id, if any.
func (m *Model) Active() (int64, bool) {
	return m.active, m.hasActive
}

// AppendMessage adds msg to the tail of a conversation's thread and updates
// its preview. The unread counter grows by one unless the conversation is active.
func (m *Model) AppendMessage(id int64, msg schemas.Message) error {
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("append to %d: %w", id, ErrNotFound)
	}
	msg.ChatID = id
	m.messages[id] = append(m.messages[id], msg)

	c := &m.conversations[i]
	c.LastMessage = msg.Preview()
	if msg.Time != "" {
		c.LastMessageTime = msg.Time
	}
	if !m.hasActive || m.active != id {
		c.Unread++
	}
	return nil
}

// CreateGroup appends a group with the creator as its only member and returns
// the generated id. Blank names are rejected; an empty icon gets the default.
func (m *Model) CreateGroup(name, description, icon string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	if icon == "" {
		icon = schemas.DefaultGroupIcon
	}

	m.nextGroup++
	g := schemas.Group{
		ID:          m.nextGroup,
		Name:        name,
		Icon:        icon,
		Description: strings.TrimSpace(description),
		Members:     1,
		MaxMembers:  schemas.MaxGroupMembers,
	}
	m.groups = append(m.groups, g)
	return g.ID, nil
}

// AddGroup records a group known to the chat endpoint, replacing any entry
// with the same id.
func (m *Model) AddGroup(g schemas.Group) {
	if g.MaxMembers == 0 {
		g.MaxMembers = schemas.MaxGroupMembers
	}
	g.Members = min(max(g.Members, 1), g.MaxMembers)
	if g.ID > m.nextGroup {
		m.nextGroup = g.ID
	}
	if i := m.groupIndex(g.ID); i >= 0 {
		m.groups[i] = g
		return
	}
	m.groups = append(m.groups, g)
}

// ConfirmGroup re-keys a locally created group under the id the chat
// endpoint assigned. If serverID is already known the local entry is dropped.
func (m *Model) ConfirmGroup(localID, serverID int64) error {
	i := m.groupIndex(localID)
	if i < 0 {
		return fmt.Errorf("confirm group %d: %w", localID, ErrNotFound)
	}
	if m.groupIndex(serverID) >= 0 {
		m.groups = slices.Delete(m.groups, i, i+1)
		return nil
	}
	m.groups[i].ID = serverID
	m.nextGroup = max(m.nextGroup, serverID)
	return nil
}

func (m *Model) Groups() []schemas.Group {
	return slices.Clone(m.groups)
}

// AddUser adds or replaces a directory entry, keeping any local override.
func (m *Model) AddUser(u schemas.User) {
	for i := range m.users {
		if m.users[i].ID == u.ID {
			if u.CustomName == "" {
				u.CustomName = m.users[i].CustomName
			}
			m.users[i] = u
			return
		}
	}
	m.users = append(m.users, u)
}

func (m *Model) Users() []schemas.User {
	return slices.Clone(m.users)
}

// User returns a directory entry by id.
func (m *Model) User(id int64) (schemas.User, bool) {
	for _, u := range m.users {
		if u.ID == id {
			return u, true
		}
	}
	return schemas.User{}, false
}

// RenameLocalUser sets the local display-name override of userID. The
// canonical name is untouched. Blank names and unknown users are ignored.
func (m *Model) RenameLocalUser(userID int64, newName string) bool {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false
	}
	for i := range m.users {
		if m.users[i].ID == userID {
			m.users[i].CustomName = newName
			return true
		}
	}
	return false
}

// DisplayName is the name a conversation is shown under: the local override
// of the peer for direct chats, the canonical name otherwise.
func (m *Model) DisplayName(c schemas.Conversation) string {
	if c.Kind == schemas.GroupChat || c.PeerID == 0 {
		return c.Name
	}
	if u, ok := m.User(c.PeerID); ok && u.CustomName != "" {
		return u.CustomName
	}
	return c.Name
}

func (m *Model) indexOf(id int64) int {
	return slices.IndexFunc(m.conversations, func(c schemas.Conversation) bool {
		return c.ID == id
	})
}

func (m *Model) groupIndex(id int64) int {
	return slices.IndexFunc(m.groups, func(g schemas.Group) bool {
		return g.ID == id
	})
}
