// Package terminal owns the interactive terminal while the finder runs.
//
// A Session puts the controlling terminal into raw mode, switches to the
// alternate screen and decodes key presses on a background goroutine.
// Closing the session undoes all of it, in reverse order, and is safe to
// call more than once.
package terminal
