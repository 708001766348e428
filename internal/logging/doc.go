// Package logging provides the application's structured logger.
//
// Output goes to a file, never to the terminal, because the finder owns the
// screen while it runs. Logging is off unless a level is configured or set
// through REPOFIND_LOG_LEVEL.
package logging
