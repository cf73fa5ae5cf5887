package dialogs

import (
	"errors"
	"strings"

	"github.com/gregriff/rilmas/internal/schemas"
)

var ErrNameRequired = errors.New("group name is required")

// GroupIcons are the icons offered when creating a group.
var GroupIcons = []string{"🎮", "🎯", "⚔️", "🛡️", "🏆", "👥", "💬", "🌟", "🔥", "⚡", "💎", "🎪"}

// GroupCreation holds the working copy of a new group.
type GroupCreation struct {
	name        string
	description string
	icon        string
	open        bool

	onCreate func(name, description, icon string)
}

func NewGroupCreation(onCreate func(name, description, icon string)) *GroupCreation {
	g := &GroupCreation{onCreate: onCreate}
	g.reset()
	return g
}

func (g *GroupCreation) reset() {
	g.name, g.description, g.icon = "", "", schemas.DefaultGroupIcon
}

// Show opens the dialog.
func (g *GroupCreation) Show() { g.open = true }

func (g *GroupCreation) Open() bool { return g.open }

func (g *GroupCreation) Name() string        { return g.name }
func (g *GroupCreation) Description() string { return g.description }
func (g *GroupCreation) Icon() string        { return g.icon }

func (g *GroupCreation) SetName(s string)        { g.name = s }
func (g *GroupCreation) SetDescription(s string) { g.description = s }
func (g *GroupCreation) ChooseIcon(icon string)  { g.icon = icon }

// CanCreate reports whether Create is enabled.
func (g *GroupCreation) CanCreate() bool {
	return strings.TrimSpace(g.name) != ""
}

// Create emits (name, description, icon), resets the working copy and closes.
func (g *GroupCreation) Create() error {
	if !g.CanCreate() {
		return ErrNameRequired
	}
	name, description, icon := g.name, g.description, g.icon
	g.reset()
	g.open = false
	if g.onCreate != nil {
		g.onCreate(name, description, icon)
	}
	return nil
}

// Cancel closes the dialog and keeps the working copy for the next Show.
func (g *GroupCreation) Cancel() {
	g.open = false
}
