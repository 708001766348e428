package views

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"repofind/internal/finder"
)

// Layout constants. The bottom three rows hold the count line, the prompt
// and the key hints; the two rows above them hold the status area.
const (
	ReservedRows   = 3
	StatusRows     = 2
	MarkerWidth    = 2 // "> " or "  "
	WideGlyphSlack = 3 // columns kept free for double-width glyphs
	PromptGlyph    = ">"
	PromptWidth    = 2 // PromptGlyph plus a space
	FillChar       = "─"
)

// RowKind tells the encoder how to style a row
type RowKind int

const (
	RowBlank RowKind = iota
	RowItem
	RowSelected
	RowStatus
	RowError
	RowCount
	RowPrompt
	RowHelp
)

// Row is one line of a frame, with its unstyled text
type Row struct {
	Kind RowKind
	Text string
	// Count is the "<visible>/<total>" prefix of a RowCount row
	Count string
}

// Frame is the full description of one screen: one Row per terminal line
// plus the final cursor position (1-based).
type Frame struct {
	Width     int
	Height    int
	Rows      []Row
	CursorCol int
	CursorRow int
}

// Options changes what Compose draws besides the finder state
type Options struct {
	// Help is the pre-rendered key hint line; empty leaves the row blank
	Help string
}

// PageSize returns the number of item rows a terminal of height h shows
func PageSize(h int) int {
	return max(h-ReservedRows-StatusRows, 0)
}

// ItemWidth returns how many characters of an item fit on a row of width w
func ItemWidth(w int) int {
	return max(w-MarkerWidth-WideGlyphSlack, 0)
}

// QueryWidth returns how many characters of the query fit after the prompt
func QueryWidth(w int) int {
	return max(w-PromptWidth, 0)
}

// Compose lays out a snapshot on a w x h terminal. It has no side effects.
func Compose(snap finder.Snapshot, w, h int, opts Options) Frame {
	f := Frame{Width: w, Height: h}
	if w <= 0 || h <= 0 {
		return f
	}
	f.Rows = make([]Row, h)

	page := PageSize(h)
	end := min(snap.Scroll+page, len(snap.View))
	for i := snap.Scroll; i < end; i++ {
		row := Row{Kind: RowItem, Text: "  " + Truncate(snap.View[i], ItemWidth(w))}
		if i == snap.Selected {
			row = Row{Kind: RowSelected, Text: "> " + Truncate(snap.View[i], ItemWidth(w))}
		}
		f.Rows[i-snap.Scroll] = row
	}

	// status first, then the reserved rows bottom-up, so on tiny terminals
	// each later row overwrites an earlier one and the prompt always wins
	statusRow := h - ReservedRows - StatusRows + 1
	if statusRow < 1 {
		statusRow = 1
	}
	switch {
	case snap.Error != "":
		f.set(statusRow, Row{Kind: RowError, Text: Truncate(">Error: "+snap.Error, w)})
	case snap.Status != "":
		f.set(statusRow, Row{Kind: RowStatus, Text: Truncate(">"+snap.Status, w)})
	}

	f.set(h, Row{Kind: RowHelp, Text: Truncate(opts.Help, w)})
	if opts.Help == "" {
		f.set(h, Row{Kind: RowBlank})
	}

	count := fmt.Sprintf("%d/%d", len(snap.View), snap.Total)
	fill := strings.Repeat(FillChar, max(w-len(count)-1, 0))
	f.set(h-2, Row{Kind: RowCount, Count: count, Text: Truncate(count+" "+fill, w)})

	promptRow := h - 1
	if promptRow < 1 {
		promptRow = h
	}
	query, cursorCol := queryLine(snap.Query, snap.Cursor, w)
	f.set(promptRow, Row{Kind: RowPrompt, Text: Truncate(PromptGlyph+" "+query, w)})
	f.CursorRow, f.CursorCol = promptRow, cursorCol

	return f
}

// set places r on the 1-based row y if it is on screen
func (f *Frame) set(y int, r Row) {
	if y < 1 || y > len(f.Rows) {
		return
	}
	f.Rows[y-1] = r
}

// queryLine returns the visible part of the query and the 1-based column
// of the terminal cursor.
func queryLine(query string, cursor int, w int) (string, int) {
	avail := QueryWidth(w)
	if CharCount(query) > avail {
		return TruncateLeft(query, avail), w
	}
	runes := []rune(query)
	cursor = min(max(cursor, 0), len(runes))
	col := PromptWidth + CharCount(string(runes[:cursor])) + 1
	return query, min(col, max(w, 1))
}

// Encode renders the frame as a terminal byte stream: every row is erased
// and redrawn so nothing from a previous, larger frame survives.
func (f Frame) Encode(st *Styles) []byte {
	var buf bytes.Buffer
	buf.WriteString(ansi.HideCursor)
	for i, row := range f.Rows {
		buf.WriteString(ansi.CursorPosition(1, i+1))
		buf.WriteString(ansi.EraseEntireLine)
		buf.WriteString(styleRow(row, st))
		buf.WriteString(ansi.ResetStyle)
	}
	if f.CursorRow > 0 {
		buf.WriteString(ansi.CursorPosition(f.CursorCol, f.CursorRow))
		buf.WriteString(ansi.ShowCursor)
	}
	return buf.Bytes()
}

func styleRow(row Row, st *Styles) string {
	switch row.Kind {
	case RowSelected:
		return st.Selected.Render(row.Text)
	case RowStatus:
		return st.Status.Render(row.Text)
	case RowError:
		return st.Error.Render(row.Text)
	case RowCount:
		rest := strings.TrimPrefix(row.Text, row.Count)
		return st.Count.Render(row.Count) + st.Fill.Render(rest)
	case RowPrompt:
		rest, ok := strings.CutPrefix(row.Text, PromptGlyph)
		if !ok {
			return row.Text
		}
		return st.Prompt.Render(PromptGlyph) + rest
	case RowHelp:
		return st.Help.Render(row.Text)
	default:
		return row.Text
	}
}

// Lines returns the unstyled text of every row, for tests and debugging
func (f Frame) Lines() []string {
	lines := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		lines[i] = row.Text
	}
	return lines
}
