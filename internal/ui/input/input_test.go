package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyStrings(keys []tea.KeyMsg) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"letters", "ab", []string{"a", "b"}},
		{"enter and newline", "\r\n", []string{"enter", "ctrl+j"}},
		{"control keys", "\x03\x15\x7f\x08", []string{"ctrl+c", "ctrl+u", "backspace", "ctrl+h"}},
		{"lone escape", "\x1b", []string{"esc"}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []string{"up", "down", "right", "left"}},
		{"application arrows", "\x1bOA\x1bOB", []string{"up", "down"}},
		{"home end", "\x1b[H\x1b[F\x1b[1~\x1b[4~", []string{"home", "end", "home", "end"}},
		{"delete and paging", "\x1b[3~\x1b[5~\x1b[6~", []string{"delete", "pgup", "pgdown"}},
		{"modified arrow", "\x1b[1;5A", []string{"up"}},
		{"alt letter", "\x1bx", []string{"alt+x"}},
		{"multibyte", "ü🔒", []string{"ü", "🔒"}},
		{"unknown sequence skipped", "\x1b[99~a", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			assert.Equal(t, tt.want, keyStrings(d.Decode([]byte(tt.input))))
		})
	}
}

func TestDecoderSpace(t *testing.T) {
	var d Decoder
	keys := d.Decode([]byte(" "))
	require.Len(t, keys, 1)
	assert.Equal(t, tea.KeySpace, keys[0].Type)
	assert.Equal(t, []rune{' '}, keys[0].Runes)
}

func TestDecoderSplitInput(t *testing.T) {
	var d Decoder

	// a UTF-8 character split across reads
	lock := []byte("🔒")
	assert.Empty(t, d.Decode(lock[:2]))
	assert.Equal(t, []string{"🔒"}, keyStrings(d.Decode(lock[2:])))

	// an escape sequence split across reads
	assert.Empty(t, d.Decode([]byte("\x1b[")))
	assert.Equal(t, []string{"up"}, keyStrings(d.Decode([]byte("A"))))
}

func TestKeyMapActions(t *testing.T) {
	km := DefaultKeyMap()
	var d Decoder

	tests := []struct {
		input string
		want  Action
	}{
		{"\r", ActionConfirm},
		{"\n", ActionConfirm},
		{"\x1b", ActionCancel},
		{"\x03", ActionCancel},
		{"\x1b[A", ActionUp},
		{"\x10", ActionUp},
		{"\x1b[B", ActionDown},
		{"\x0e", ActionDown},
		{"\x1b[5~", ActionPageUp},
		{"\x1b[6~", ActionPageDown},
		{"\x1b[D", ActionLeft},
		{"\x1b[C", ActionRight},
		{"\x01", ActionHome},
		{"\x05", ActionEnd},
		{"\x7f", ActionBackspace},
		{"\x1b[3~", ActionDelete},
		{"\x15", ActionClearQuery},
		{"q", ActionInsert},
		{" ", ActionInsert},
		{"\x1bq", ActionNone},
		{"\t", ActionNone},
	}

	for _, tt := range tests {
		keys := d.Decode([]byte(tt.input))
		require.Len(t, keys, 1, "input %q", tt.input)
		assert.Equal(t, tt.want, km.Action(keys[0]), "input %q", tt.input)
	}
}

func TestKeyMapOverride(t *testing.T) {
	km := DefaultKeyMap()
	err := km.Override(map[string][]string{
		"down":   {"tab"},
		"cancel": {"ctrl+q"},
	})
	require.NoError(t, err)

	assert.Equal(t, ActionDown, km.Action(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, ActionNone, km.Action(tea.KeyMsg{Type: tea.KeyCtrlN}))
	assert.Equal(t, ActionCancel, km.Action(tea.KeyMsg{Type: tea.KeyCtrlQ}))
	assert.Equal(t, ActionNone, km.Action(tea.KeyMsg{Type: tea.KeyEscape}))
	assert.Equal(t, "tab", km.Down.Help().Key)

	err = km.Override(map[string][]string{"explode": {"x"}})
	assert.ErrorContains(t, err, "unknown key action")

	err = km.Override(map[string][]string{"up": {}})
	assert.ErrorContains(t, err, "no keys")
}

func TestActionNames(t *testing.T) {
	names := ActionNames()
	assert.Contains(t, names, "confirm")
	assert.Contains(t, names, "clear_query")
	assert.Len(t, names, 13)
}

func TestBindings(t *testing.T) {
	bindings := DefaultKeyMap().Bindings()
	require.Len(t, bindings, len(ActionNames()))
	assert.Equal(t, "confirm", bindings[0].Name)
	assert.Equal(t, []string{"enter", "ctrl+j"}, bindings[0].Binding.Keys())
}
