// Package finder holds the state model of the interactive selector.
//
// A State owns the full item list, the query being typed, the filtered view
// the Matcher derives from both, and the selection and scroll offset inside
// that view. Every mutation of the query or the item list re-runs the
// Matcher and re-clamps selection and scroll, so after any operation:
//
//   - 0 <= selected < len(view) when the view is non-empty, 0 otherwise
//   - scroll <= selected < scroll + pageSize
//
// Handle wraps a State behind a mutex for producers that push new items or
// status text while the event loop is running.
package finder
