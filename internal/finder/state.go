package finder

// State is the finder's mutable core: the full item list, the query being
// edited, the filtered view derived from both, and the selection/scroll
// position inside that view.
//
// State is not safe for concurrent use; wrap it in a Handle when items or
// messages are pushed from other goroutines.
type State struct {
	matcher Matcher

	items    []string
	filtered []string

	query  []rune
	cursor int

	selected int
	scroll   int
	pageSize int

	status string
	err    string
}

// DefaultPageSize is used until the first render reports the real terminal height
const DefaultPageSize = 10

// NewState creates a finder state over items.
// A nil matcher falls back to FuzzyMatcher.
func NewState(items []string, matcher Matcher) *State {
	if matcher == nil {
		matcher = FuzzyMatcher{}
	}
	s := &State{
		matcher:  matcher,
		items:    cloneItems(items),
		pageSize: DefaultPageSize,
	}
	s.refilter()
	return s
}

// SetItems replaces the item list and recomputes the filtered view
func (s *State) SetItems(items []string) {
	s.items = cloneItems(items)
	s.refilter()
}

// SetStatus stores the status message; an empty string clears it
func (s *State) SetStatus(msg string) {
	s.status = msg
}

// SetError stores the error message; an empty string clears it
func (s *State) SetError(msg string) {
	s.err = msg
}

// SetQuery replaces the query and puts the cursor at its end
func (s *State) SetQuery(query string) {
	s.query = []rune(query)
	s.cursor = len(s.query)
	s.refilter()
}

// SetPageSize records how many item rows the terminal currently shows
// and scrolls so the selection stays visible.
func (s *State) SetPageSize(n int) {
	if n < 0 {
		n = 0
	}
	s.pageSize = n
	s.clampScroll()
}

// InsertChar inserts r at the cursor and advances the cursor
func (s *State) InsertChar(r rune) {
	s.query = append(s.query, 0)
	copy(s.query[s.cursor+1:], s.query[s.cursor:])
	s.query[s.cursor] = r
	s.cursor++
	s.refilter()
}

// DeleteBeforeCursor removes the character left of the cursor (backspace)
func (s *State) DeleteBeforeCursor() {
	if s.cursor == 0 {
		return
	}
	s.query = append(s.query[:s.cursor-1], s.query[s.cursor:]...)
	s.cursor--
	s.refilter()
}

// DeleteAtCursor removes the character under the cursor (delete)
func (s *State) DeleteAtCursor() {
	if s.cursor >= len(s.query) {
		return
	}
	s.query = append(s.query[:s.cursor], s.query[s.cursor+1:]...)
	s.refilter()
}

// ClearQuery empties the query
func (s *State) ClearQuery() {
	if len(s.query) == 0 {
		return
	}
	s.query = s.query[:0]
	s.cursor = 0
	s.refilter()
}

// MoveCursorLeft moves the query cursor one character left
func (s *State) MoveCursorLeft() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveCursorRight moves the query cursor one character right
func (s *State) MoveCursorRight() {
	if s.cursor < len(s.query) {
		s.cursor++
	}
}

// MoveCursorHome moves the query cursor to the start of the query
func (s *State) MoveCursorHome() {
	s.cursor = 0
}

// MoveCursorEnd moves the query cursor past the last character
func (s *State) MoveCursorEnd() {
	s.cursor = len(s.query)
}

// MoveSelectionUp selects the previous item; it does not wrap
func (s *State) MoveSelectionUp() {
	if len(s.filtered) == 0 || s.selected == 0 {
		return
	}
	s.selected--
	s.clampScroll()
}

// MoveSelectionDown selects the next item; it does not wrap
func (s *State) MoveSelectionDown() {
	if len(s.filtered) == 0 || s.selected >= len(s.filtered)-1 {
		return
	}
	s.selected++
	s.clampScroll()
}

// PageUp moves the selection one page up
func (s *State) PageUp() {
	if len(s.filtered) == 0 {
		return
	}
	s.selected -= s.page()
	if s.selected < 0 {
		s.selected = 0
	}
	s.clampScroll()
}

// PageDown moves the selection one page down
func (s *State) PageDown() {
	if len(s.filtered) == 0 {
		return
	}
	s.selected += s.page()
	if s.selected > len(s.filtered)-1 {
		s.selected = len(s.filtered) - 1
	}
	s.clampScroll()
}

// Current returns the selected item, or false when nothing matches
func (s *State) Current() (string, bool) {
	if len(s.filtered) == 0 {
		return "", false
	}
	return s.filtered[s.selected], true
}

// Query returns the query text
func (s *State) Query() string { return string(s.query) }

// Cursor returns the cursor position in characters
func (s *State) Cursor() int { return s.cursor }

// Selected returns the selection index into the filtered view
func (s *State) Selected() int { return s.selected }

// Scroll returns the index of the first visible item
func (s *State) Scroll() int { return s.scroll }

// PageSize returns the page size last reported by SetPageSize
func (s *State) PageSize() int { return s.pageSize }

// Filtered returns a copy of the filtered view
func (s *State) Filtered() []string { return cloneItems(s.filtered) }

// Snapshot returns an immutable copy of everything a render needs
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Total:    len(s.items),
		View:     cloneItems(s.filtered),
		Query:    string(s.query),
		Cursor:   s.cursor,
		Selected: s.selected,
		Scroll:   s.scroll,
		Status:   s.status,
		Error:    s.err,
	}
}

// refilter recomputes the filtered view and re-establishes the
// selection and scroll invariants.
func (s *State) refilter() {
	s.filtered = s.matcher.Filter(s.items, string(s.query))
	if s.selected >= len(s.filtered) {
		s.selected = max(len(s.filtered)-1, 0)
	}
	s.clampScroll()
}

// clampScroll shifts the scroll offset by the minimum amount that keeps
// the selection inside the visible page.
func (s *State) clampScroll() {
	page := s.page()
	if s.selected < s.scroll {
		s.scroll = s.selected
	} else if s.selected >= s.scroll+page {
		s.scroll = s.selected - page + 1
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
}

// page is the page size used for clamping; a zero-row terminal still
// keeps the selection as the first "visible" row.
func (s *State) page() int {
	if s.pageSize < 1 {
		return 1
	}
	return s.pageSize
}

func cloneItems(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
