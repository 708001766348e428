package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a key press asks the finder to do
type Action int

const (
	ActionNone Action = iota
	ActionConfirm
	ActionCancel
	ActionInsert
	ActionBackspace
	ActionDelete
	ActionLeft
	ActionRight
	ActionHome
	ActionEnd
	ActionUp
	ActionDown
	ActionPageUp
	ActionPageDown
	ActionClearQuery
)

// KeyMap holds the key bindings of the finder
type KeyMap struct {
	Confirm    key.Binding
	Cancel     key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Left       key.Binding
	Right      key.Binding
	Home       key.Binding
	End        key.Binding
	Backspace  key.Binding
	Delete     key.Binding
	ClearQuery key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter", "ctrl+j"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "ctrl+g"),
			key.WithHelp("esc", "cancel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "ctrl+k"),
			key.WithHelp("↑/ctrl+p", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/ctrl+n", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
			key.WithHelp("←", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("→", "cursor right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
			key.WithHelp("home", "start of query"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
			key.WithHelp("end", "end of query"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete left"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "ctrl+d"),
			key.WithHelp("del", "delete right"),
		),
		ClearQuery: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear query"),
		),
	}
}

// NamedBinding is a binding with the action name used in the config file
type NamedBinding struct {
	Name    string
	Binding key.Binding
}

// Bindings lists every binding with its action name, in match order
func (k KeyMap) Bindings() []NamedBinding {
	var out []NamedBinding
	for _, b := range k.bindings() {
		out = append(out, NamedBinding{Name: b.name, Binding: *b.binding})
	}
	return out
}

type boundAction struct {
	name    string
	binding *key.Binding
	action  Action
}

// bindings pairs each configurable action name with its binding and action,
// in the order they are matched.
func (k *KeyMap) bindings() []boundAction {
	return []boundAction{
		{"confirm", &k.Confirm, ActionConfirm},
		{"cancel", &k.Cancel, ActionCancel},
		{"up", &k.Up, ActionUp},
		{"down", &k.Down, ActionDown},
		{"page_up", &k.PageUp, ActionPageUp},
		{"page_down", &k.PageDown, ActionPageDown},
		{"left", &k.Left, ActionLeft},
		{"right", &k.Right, ActionRight},
		{"home", &k.Home, ActionHome},
		{"end", &k.End, ActionEnd},
		{"backspace", &k.Backspace, ActionBackspace},
		{"delete", &k.Delete, ActionDelete},
		{"clear_query", &k.ClearQuery, ActionClearQuery},
	}
}

// ActionNames lists the action names accepted by Override
func ActionNames() []string {
	var k KeyMap
	var names []string
	for _, b := range k.bindings() {
		names = append(names, b.name)
	}
	sort.Strings(names)
	return names
}

// Override replaces the keys of the named actions. The help text of an
// overridden binding shows its first key.
func (k *KeyMap) Override(keys map[string][]string) error {
	known := make(map[string]*key.Binding)
	for _, b := range k.bindings() {
		known[b.name] = b.binding
	}

	for name, list := range keys {
		binding, ok := known[name]
		if !ok {
			return fmt.Errorf("unknown key action %q (valid: %s)", name, strings.Join(ActionNames(), ", "))
		}
		if len(list) == 0 {
			return fmt.Errorf("key action %q has no keys", name)
		}
		binding.SetKeys(list...)
		binding.SetHelp(list[0], binding.Help().Desc)
	}
	return nil
}

// Action resolves a key press. Printable characters that are not bound to
// anything insert into the query.
func (k KeyMap) Action(msg tea.KeyMsg) Action {
	for _, b := range k.bindings() {
		if key.Matches(msg, *b.binding) {
			return b.action
		}
	}
	if !msg.Alt && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && len(msg.Runes) > 0 {
		return ActionInsert
	}
	return ActionNone
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Cancel}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Left, k.Right, k.Home, k.End},
		{k.Backspace, k.Delete, k.ClearQuery},
		{k.Confirm, k.Cancel},
	}
}
