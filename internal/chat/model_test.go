package chat

import (
	"errors"
	"slices"
	"testing"

	"github.com/gregriff/rilmas/internal/schemas"
)

func seeded() *Model {
	m := NewModel()
	m.SetConversations([]schemas.Conversation{
		{ID: 1, Name: `Alex "Shadow" Morgan`, LastMessage: "GG!", Unread: 3, Online: true},
		{ID: 2, Name: "Team Dragons", Unread: 12, Online: true},
		{ID: 3, Name: `Mike "Fury"`},
		{ID: 4, Name: "Elite Squad", Unread: 5},
		{ID: 5, Name: "Sarah K."},
	})
	m.AddUser(schemas.User{ID: 10, Name: "Alex"})
	m.AddUser(schemas.User{ID: 11, Name: "Kate"})
	return m
}

func ids(convs []schemas.Conversation) []int64 {
	out := make([]int64, 0, len(convs))
	for _, c := range convs {
		out = append(out, c.ID)
	}
	return out
}

func TestUnreadNeverNegative(t *testing.T) {
	m := seeded()
	m.SelectConversation(2)
	m.SelectConversation(3)
	for _, c := range m.Conversations() {
		if c.Unread < 0 {
			t.Fatalf("conversation %d has unread %d", c.ID, c.Unread)
		}
	}
}

func TestSelectConversation(t *testing.T) {
	m := seeded()
	if !m.SelectConversation(2) {
		t.Fatal("expected selection of existing conversation")
	}
	if c, _ := m.Conversation(2); c.Unread != 0 {
		t.Fatalf("selecting must clear unread, got %d", c.Unread)
	}

	if m.SelectConversation(42) {
		t.Fatal("unknown id must not select")
	}
	if id, ok := m.Active(); !ok || id != 2 {
		t.Fatalf("active = %d,%v; unknown id must keep prior selection", id, ok)
	}

	m.ClearSelection()
	if _, ok := m.Active(); ok {
		t.Fatal("expected no selection")
	}
}

func TestAppendMessageUnread(t *testing.T) {
	m := seeded()
	m.SelectConversation(1)

	before, _ := m.Conversation(4)
	if err := m.AppendMessage(4, schemas.Message{Content: "need one more", Time: "3h"}); err != nil {
		t.Fatal(err)
	}
	after, _ := m.Conversation(4)
	if after.Unread != before.Unread+1 {
		t.Fatalf("inactive unread = %d, want %d", after.Unread, before.Unread+1)
	}
	if after.LastMessage != "need one more" || after.LastMessageTime != "3h" {
		t.Fatalf("preview not updated: %+v", after)
	}

	if err := m.AppendMessage(1, schemas.Message{Content: "gg"}); err != nil {
		t.Fatal(err)
	}
	if c, _ := m.Conversation(1); c.Unread != 0 {
		t.Fatalf("active unread = %d, want 0", c.Unread)
	}

	if got := m.Messages(4); len(got) != 1 || got[0].ChatID != 4 {
		t.Fatalf("messages = %+v", got)
	}
}

func TestAppendMessageKeepsOrder(t *testing.T) {
	m := seeded()
	for _, text := range []string{"a", "b", "c"} {
		if err := m.AppendMessage(5, schemas.Message{Content: text}); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for _, msg := range m.Messages(5) {
		got = append(got, msg.Content)
	}
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("thread = %v", got)
	}
}

func TestAppendMessageUnknownConversation(t *testing.T) {
	m := seeded()
	err := m.AppendMessage(99, schemas.Message{Content: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateGroup(t *testing.T) {
	m := NewModel()
	for _, name := range []string{"", "   "} {
		if id, err := m.CreateGroup(name, "d", "🎮"); !errors.Is(err, ErrEmptyName) || id != 0 {
			t.Fatalf("CreateGroup(%q) = %d, %v; want rejection", name, id, err)
		}
	}
	if len(m.Groups()) != 0 {
		t.Fatal("rejected groups must not be appended")
	}

	id, err := m.CreateGroup("Test", "desc", "🎮")
	if err != nil {
		t.Fatal(err)
	}
	groups := m.Groups()
	if len(groups) != 1 {
		t.Fatalf("groups = %+v", groups)
	}
	g := groups[0]
	if g.ID != id || g.Members != 1 || g.MaxMembers != 200000 || g.Members > g.MaxMembers {
		t.Fatalf("group = %+v", g)
	}

	id2, _ := m.CreateGroup("Other", "", "")
	if id2 == id {
		t.Fatal("ids must be distinct")
	}
	if m.Groups()[1].Icon != schemas.DefaultGroupIcon {
		t.Fatalf("icon = %q, want default", m.Groups()[1].Icon)
	}
}

func TestRenameLocalUser(t *testing.T) {
	m := seeded()
	if m.RenameLocalUser(10, "") || m.RenameLocalUser(10, "   ") {
		t.Fatal("blank names must be ignored")
	}
	if u, _ := m.User(10); u.CustomName != "" {
		t.Fatalf("custom name = %q", u.CustomName)
	}

	if !m.RenameLocalUser(10, "Shadow") {
		t.Fatal("rename failed")
	}
	u, _ := m.User(10)
	if u.Name != "Alex" || u.DisplayName() != "Shadow" {
		t.Fatalf("user = %+v", u)
	}

	// a directory refresh keeps the override
	m.AddUser(schemas.User{ID: 10, Name: "Alex M."})
	if u, _ := m.User(10); u.DisplayName() != "Shadow" || u.Name != "Alex M." {
		t.Fatalf("after refresh = %+v", u)
	}

	if m.RenameLocalUser(404, "ghost") {
		t.Fatal("unknown user must be ignored")
	}
}

func TestSetConversationsDropsStaleSelection(t *testing.T) {
	m := seeded()
	m.SelectConversation(5)
	_ = m.AppendMessage(5, schemas.Message{Content: "x"})
	m.SetConversations([]schemas.Conversation{{ID: 1, Name: "a"}})

	if _, ok := m.Active(); ok {
		t.Fatal("selection of a removed conversation must be cleared")
	}
	if len(m.Messages(5)) != 0 {
		t.Fatal("thread of a removed conversation must be dropped")
	}
}

func TestConfirmGroup(t *testing.T) {
	m := NewModel()
	local, _ := m.CreateGroup("Raid", "", "🏆")

	if err := m.ConfirmGroup(local+100, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown local id: %v", err)
	}
	if err := m.ConfirmGroup(local, 42); err != nil {
		t.Fatal(err)
	}
	groups := m.Groups()
	if len(groups) != 1 || groups[0].ID != 42 || groups[0].Name != "Raid" {
		t.Fatalf("groups = %+v", groups)
	}
	if next, _ := m.CreateGroup("Next", "", ""); next <= 42 {
		t.Fatalf("next local id %d collides with server ids", next)
	}

	// a reload that already delivered the server group wins over the local copy
	pending, _ := m.CreateGroup("Late", "", "")
	m.AddGroup(schemas.Group{ID: 77, Name: "Late", Icon: schemas.DefaultGroupIcon})
	if err := m.ConfirmGroup(pending, 77); err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, g := range m.Groups() {
		if g.Name == "Late" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Late listed %d times", count)
	}
}

func TestAddGroupReplacesByID(t *testing.T) {
	m := NewModel()
	m.AddGroup(schemas.Group{ID: 5, Name: "old"})
	m.AddGroup(schemas.Group{ID: 5, Name: "new", Members: 3})
	groups := m.Groups()
	if len(groups) != 1 || groups[0].Name != "new" || groups[0].Members != 3 || groups[0].MaxMembers != schemas.MaxGroupMembers {
		t.Fatalf("groups = %+v", groups)
	}
}
