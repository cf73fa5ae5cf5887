package chat

import (
	"slices"
	"testing"

	"github.com/gregriff/rilmas/internal/schemas"
)

func TestSearchEmptyQueryMatchesEverything(t *testing.T) {
	m := seeded()
	_, _ = m.CreateGroup("Elite", "", "")

	v := m.Search("")
	if got := ids(slices.Collect(v.Conversations())); !slices.Equal(got, []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("conversations = %v", got)
	}
	if got := slices.Collect(v.Users()); len(got) != 2 || got[0].ID != 10 || got[1].ID != 11 {
		t.Fatalf("users = %+v", got)
	}
	if got := slices.Collect(v.Groups()); len(got) != 1 {
		t.Fatalf("groups = %+v", got)
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	m := seeded()
	_, _ = m.CreateGroup("Elite Raiders", "", "")

	v := m.Search("ELITE")
	if got := ids(slices.Collect(v.Conversations())); !slices.Equal(got, []int64{4}) {
		t.Fatalf("conversations = %v", got)
	}
	if got := slices.Collect(v.Groups()); len(got) != 1 || got[0].Name != "Elite Raiders" {
		t.Fatalf("groups = %+v", got)
	}

	if got := ids(slices.Collect(m.Search("a").Conversations())); !slices.Equal(got, []int64{1, 2, 4, 5}) {
		t.Fatalf("substring 'a' = %v", got)
	}
}

func TestSearchUsesLocalOverride(t *testing.T) {
	m := seeded()
	m.RenameLocalUser(11, "Katya")

	got := slices.Collect(m.Search("katya").Users())
	if len(got) != 1 || got[0].ID != 11 {
		t.Fatalf("users = %+v", got)
	}
}

func TestSearchFindsRenamedDirectChat(t *testing.T) {
	m := NewModel()
	m.SetConversations([]schemas.Conversation{
		{ID: 1, Kind: schemas.DirectChat, Name: "Raven", PeerID: 3},
		{ID: 2, Kind: schemas.GroupChat, Name: "Raiders", PeerID: 3},
	})
	m.AddUser(schemas.User{ID: 3, Name: "Raven"})
	m.RenameLocalUser(3, "Shadow")

	if got := m.DisplayName(m.Conversations()[0]); got != "Shadow" {
		t.Fatalf("display name = %q", got)
	}
	found := slices.Collect(m.Search("shadow").Conversations())
	if len(found) != 1 || found[0].ID != 1 || found[0].Name != "Shadow" {
		t.Fatalf("search shadow = %+v", found)
	}
	if got := ids(slices.Collect(Filter(m.Search("shadow").Conversations(), "shadow"))); !slices.Equal(got, []int64{1}) {
		t.Fatalf("reapplied = %v", got)
	}
	if got := ids(slices.Collect(m.Search("raven").Conversations())); len(got) != 0 {
		t.Fatalf("canonical name of a renamed chat still matches: %v", got)
	}
	if c, _ := m.Conversation(1); c.Name != "Raven" {
		t.Fatal("search must not change the stored name")
	}
}

func TestFilterIdempotent(t *testing.T) {
	m := seeded()
	once := m.Search("e").Conversations()
	twice := Filter(once, "e")

	a, b := ids(slices.Collect(once)), ids(slices.Collect(twice))
	if !slices.Equal(a, b) {
		t.Fatalf("reapplying the query changed the result: %v vs %v", a, b)
	}
}

func TestFilterIsRestartableAndLazy(t *testing.T) {
	calls := 0
	source := func(yield func(schemas.Group) bool) {
		for _, g := range []schemas.Group{{Name: "a"}, {Name: "b"}} {
			calls++
			if !yield(g) {
				return
			}
		}
	}

	seq := Filter(source, "")
	if calls != 0 {
		t.Fatal("filter must not consume the source before iteration")
	}
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("first=%v second=%v", first, second)
	}

	for range seq {
		break
	}
	if calls != 5 {
		t.Fatalf("source pulled %d times, want 5", calls)
	}
}

func TestSearchSnapshot(t *testing.T) {
	m := seeded()
	v := m.Search("")
	m.SetConversations(nil)
	if got := slices.Collect(v.Conversations()); len(got) != 5 {
		t.Fatalf("view must not change after the model does, got %d", len(got))
	}
}
