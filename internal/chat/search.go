package chat

import (
	"iter"
	"slices"
	"strings"

	"github.com/gregriff/rilmas/internal/schemas"
)

// Named is anything that can be matched by display name.
type Named interface {
	schemas.Conversation | schemas.User | schemas.Group
}

func nameOf[T Named](v T) string {
	switch v := any(v).(type) {
	case schemas.Conversation:
		return v.Name
	case schemas.User:
		return v.DisplayName()
	case schemas.Group:
		return v.Name
	}
	return ""
}

// Filter yields the elements of seq whose display name contains query,
// ignoring case. An empty query yields everything. Filter is lazy and the
// returned sequence can be ranged over any number of times.
func Filter[T Named](seq iter.Seq[T], query string) iter.Seq[T] {
	needle := strings.ToLower(query)
	return func(yield func(T) bool) {
		for v := range seq {
			if needle != "" && !strings.Contains(strings.ToLower(nameOf(v)), needle) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// View is the result of a search. Each accessor filters a snapshot taken when
// the view was created.
type View struct {
	query         string
	conversations []schemas.Conversation
	users         []schemas.User
	groups        []schemas.Group
}

// Search returns a view of the conversations, users and groups whose display
// names contain query. Conversations in the view carry their display name.
func (m *Model) Search(query string) View {
	convs := slices.Clone(m.conversations)
	for i := range convs {
		convs[i].Name = m.DisplayName(convs[i])
	}
	return View{
		query:         query,
		conversations: convs,
		users:         slices.Clone(m.users),
		groups:        slices.Clone(m.groups),
	}
}

func (v View) Query() string { return v.query }

func (v View) Conversations() iter.Seq[schemas.Conversation] {
	return Filter(slices.Values(v.conversations), v.query)
}

func (v View) Users() iter.Seq[schemas.User] {
	return Filter(slices.Values(v.users), v.query)
}

func (v View) Groups() iter.Seq[schemas.Group] {
	return Filter(slices.Values(v.groups), v.query)
}
