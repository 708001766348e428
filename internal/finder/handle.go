package finder

import "sync"

// Snapshot is a read-only copy of the finder state taken for one frame
type Snapshot struct {
	Total    int      // number of items before filtering
	View     []string // filtered view
	Query    string
	Cursor   int // cursor position in characters
	Selected int
	Scroll   int
	Status   string
	Error    string
}

// Handle guards a State so that producers outside the event loop can push
// items and messages while the loop applies key events. Every method holds
// the lock for the whole mutation, including the filter recompute, so one
// writer's change is fully applied before the next one starts.
type Handle struct {
	mu    sync.Mutex
	state *State
}

// NewHandle creates a handle around a fresh State
func NewHandle(items []string, matcher Matcher) *Handle {
	return &Handle{state: NewState(items, matcher)}
}

// SetItems replaces the item list
func (h *Handle) SetItems(items []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.SetItems(items)
}

// SetStatus sets or clears (empty string) the status message
func (h *Handle) SetStatus(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.SetStatus(msg)
}

// SetError sets or clears (empty string) the error message
func (h *Handle) SetError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.SetError(msg)
}

// SetQuery replaces the query
func (h *Handle) SetQuery(query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.SetQuery(query)
}

// Update runs fn with exclusive access to the state
func (h *Handle) Update(fn func(*State)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.state)
}

// Current returns the selected item
func (h *Handle) Current() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Current()
}

// Frame records the page size for the upcoming frame and returns the
// snapshot to draw, in one critical section.
func (h *Handle) Frame(pageSize int) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.SetPageSize(pageSize)
	return h.state.Snapshot()
}
