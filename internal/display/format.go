// Package display turns repository records into the one-line strings the
// finder lists.
//
// A display string is the repository name followed by status markers and
// an optional description:
//
//	web-app 🔒 [GH] (Frontend application)
//	forked-api [GL] (fork: Backend service)
//	scratch [local]
package display

import (
	"fmt"
	"strings"
)

// Source identifies where a repository is hosted
type Source int

const (
	SourceLocal Source = iota // no remote configured
	SourceGitHub
	SourceGitLab
	SourceOther // some other remote host
)

// Marker returns the tag appended after the repository name
func (s Source) Marker() string {
	switch s {
	case SourceGitHub:
		return "[GH]"
	case SourceGitLab:
		return "[GL]"
	case SourceOther:
		return "[git]"
	default:
		return "[local]"
	}
}

// String returns the lower-case source name used in config and manifests
func (s Source) String() string {
	switch s {
	case SourceGitHub:
		return "github"
	case SourceGitLab:
		return "gitlab"
	case SourceOther:
		return "other"
	default:
		return "local"
	}
}

// ParseSource parses a source name as written by String
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "github", "gh":
		return SourceGitHub, nil
	case "gitlab", "gl":
		return SourceGitLab, nil
	case "other", "git":
		return SourceOther, nil
	case "local", "":
		return SourceLocal, nil
	default:
		return SourceLocal, fmt.Errorf("unknown repository source %q", name)
	}
}

// PrivateMarker is shown after the name of private repositories
const PrivateMarker = "🔒"

// FormatRepoName formats the name with its private and source markers
func FormatRepoName(name string, private bool, source Source) string {
	var b strings.Builder
	b.WriteString(name)
	if private {
		b.WriteString(" " + PrivateMarker)
	}
	b.WriteString(" " + source.Marker())
	return b.String()
}

// FormatRepository formats a complete display line for a repository.
// The description is trimmed; forks are always annotated, even without one.
func FormatRepository(name, description string, fork, private bool, source Source) string {
	formatted := FormatRepoName(name, private, source)
	description = strings.TrimSpace(description)

	switch {
	case fork && description == "":
		return formatted + " (fork)"
	case fork:
		return fmt.Sprintf("%s (fork: %s)", formatted, description)
	case description == "":
		return formatted
	default:
		return fmt.Sprintf("%s (%s)", formatted, description)
	}
}
