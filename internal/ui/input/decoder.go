package input

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const esc = 0x1b

// Decoder turns raw terminal input bytes into key events.
// Bytes of an incomplete escape sequence or UTF-8 character are kept until
// the next call; a lone ESC at the end of a read is reported as the escape
// key since terminals deliver whole sequences in a single write.
type Decoder struct {
	pending []byte
}

// Decode appends p to any pending bytes and returns the complete keys
func (d *Decoder) Decode(p []byte) []tea.KeyMsg {
	buf := append(d.pending, p...)
	d.pending = nil

	var keys []tea.KeyMsg
	for len(buf) > 0 {
		key, n, ok := decodeOne(buf)
		if n == 0 {
			// incomplete, wait for more input
			d.pending = append([]byte(nil), buf...)
			break
		}
		if ok {
			keys = append(keys, key)
		}
		buf = buf[n:]
	}
	return keys
}

// decodeOne decodes the key at the start of b. It returns the number of
// bytes consumed (0 when more input is needed) and whether a key was
// recognized.
func decodeOne(b []byte) (tea.KeyMsg, int, bool) {
	c := b[0]
	switch {
	case c == esc:
		return decodeEscape(b)
	case c == ' ':
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 1, true
	case c < 0x20 || c == 0x7f:
		// control characters map one-to-one onto bubbletea key types
		return tea.KeyMsg{Type: tea.KeyType(c)}, 1, true
	case c < utf8.RuneSelf:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune(c)}}, 1, true
	}

	if !utf8.FullRune(b) {
		return tea.KeyMsg{}, 0, false
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return tea.KeyMsg{}, size, false
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, size, true
}

func decodeEscape(b []byte) (tea.KeyMsg, int, bool) {
	if len(b) == 1 {
		return tea.KeyMsg{Type: tea.KeyEscape}, 1, true
	}

	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) < 3 {
			return tea.KeyMsg{}, 0, false
		}
		if t, ok := finalKeys[b[2]]; ok {
			return tea.KeyMsg{Type: t}, 3, true
		}
		return tea.KeyMsg{}, 3, false
	case esc:
		return tea.KeyMsg{Type: tea.KeyEscape}, 1, true
	}

	// ESC followed by a key is that key with alt held
	key, n, ok := decodeOne(b[1:])
	if n == 0 {
		return tea.KeyMsg{}, 0, false
	}
	key.Alt = true
	return key, n + 1, ok
}

// finalKeys maps the final byte of CSI and SS3 sequences without parameters
var finalKeys = map[byte]tea.KeyType{
	'A': tea.KeyUp,
	'B': tea.KeyDown,
	'C': tea.KeyRight,
	'D': tea.KeyLeft,
	'H': tea.KeyHome,
	'F': tea.KeyEnd,
	'Z': tea.KeyShiftTab,
}

// tildeKeys maps the first parameter of "CSI n ~" sequences
var tildeKeys = map[int]tea.KeyType{
	1: tea.KeyHome,
	2: tea.KeyInsert,
	3: tea.KeyDelete,
	4: tea.KeyEnd,
	5: tea.KeyPgUp,
	6: tea.KeyPgDown,
	7: tea.KeyHome,
	8: tea.KeyEnd,
}

func decodeCSI(b []byte) (tea.KeyMsg, int, bool) {
	// CSI parameter bytes 0x30-0x3f, intermediates 0x20-0x2f, final 0x40-0x7e
	i := 2
	param, firstDone := 0, false
	for ; i < len(b); i++ {
		c := b[i]
		if c >= 0x40 && c <= 0x7e {
			break
		}
		if c < 0x20 || c > 0x3f {
			// malformed, drop what we have seen
			return tea.KeyMsg{}, i, false
		}
		switch {
		case c >= '0' && c <= '9' && !firstDone:
			param = param*10 + int(c-'0')
		case c == ';':
			firstDone = true
		}
	}
	if i >= len(b) {
		return tea.KeyMsg{}, 0, false
	}

	final := b[i]
	n := i + 1
	if final == '~' {
		if t, ok := tildeKeys[param]; ok {
			return tea.KeyMsg{Type: t}, n, true
		}
		return tea.KeyMsg{}, n, false
	}
	if t, ok := finalKeys[final]; ok {
		return tea.KeyMsg{Type: t}, n, true
	}
	return tea.KeyMsg{}, n, false
}
