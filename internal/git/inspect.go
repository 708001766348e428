// Package git reads the metadata repofind shows for a repository straight
// from its .git directory, without running git.
package git

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repofind/internal/display"
)

// defaultDescription is what git init writes to .git/description
const defaultDescription = "Unnamed repository; edit this file 'description' to name the repository."

// Metadata is what Inspect learns about a repository
type Metadata struct {
	Remotes     map[string]string // remote name -> fetch URL
	Description string
	Source      display.Source
	Fork        bool
}

// Inspect reads the remotes and description of the repository at repoPath.
// A repository without a config file is reported as local.
func Inspect(repoPath string) (Metadata, error) {
	_, commonDir, err := resolveGitDir(repoPath)
	if err != nil {
		return Metadata{}, err
	}

	remotes, err := readRemotes(filepath.Join(commonDir, "config"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Metadata{}, fmt.Errorf("failed to read git config of %s: %w", repoPath, err)
	}

	desc, err := readDescription(filepath.Join(commonDir, "description"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Metadata{}, fmt.Errorf("failed to read description of %s: %w", repoPath, err)
	}

	md := Metadata{
		Remotes:     remotes,
		Description: desc,
		Source:      display.SourceLocal,
	}
	if origin, ok := remotes["origin"]; ok {
		md.Source = SourceOf(origin)
	} else if name := firstRemote(remotes); name != "" {
		md.Source = SourceOf(remotes[name])
	}
	_, md.Fork = remotes["upstream"]
	return md, nil
}

// SourceOf classifies a remote URL by its hosting service
func SourceOf(url string) display.Source {
	u := strings.ToLower(url)
	switch {
	case u == "":
		return display.SourceLocal
	case strings.Contains(u, "github.com"):
		return display.SourceGitHub
	case strings.Contains(u, "gitlab"):
		return display.SourceGitLab
	default:
		return display.SourceOther
	}
}

func firstRemote(remotes map[string]string) string {
	names := make([]string, 0, len(remotes))
	for name := range remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// resolveGitDir returns the git directory of repoPath and the directory
// holding its shared config. A .git file (worktrees, submodules) points to
// the git directory with a "gitdir:" line; a worktree's git directory names
// the shared one in its commondir file.
func resolveGitDir(repoPath string) (gitDir, commonDir string, err error) {
	gitDir = filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || info.IsDir() {
		return gitDir, gitDir, nil
	}

	data, err := os.ReadFile(gitDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", gitDir, err)
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", "", fmt.Errorf("%s is not a gitdir link", gitDir)
	}
	gitDir = strings.TrimSpace(target)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(repoPath, gitDir)
	}

	commonDir = gitDir
	if common, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		commonDir = strings.TrimSpace(string(common))
		if !filepath.IsAbs(commonDir) {
			commonDir = filepath.Join(gitDir, commonDir)
		}
	}
	return filepath.Clean(gitDir), filepath.Clean(commonDir), nil
}

// readRemotes extracts the url of every [remote "name"] section of a git
// config file.
func readRemotes(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return map[string]string{}, err
	}
	defer f.Close()

	remotes := make(map[string]string)
	var remote string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if strings.HasPrefix(line, "[") {
			remote = remoteSection(line)
			continue
		}
		if remote == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "url") {
			continue
		}
		if _, seen := remotes[remote]; !seen {
			remotes[remote] = strings.Trim(strings.TrimSpace(value), `"`)
		}
	}
	return remotes, sc.Err()
}

// remoteSection returns the remote name of a `[remote "name"]` header, or
// "" for any other section.
func remoteSection(header string) string {
	header = strings.TrimSuffix(strings.TrimPrefix(header, "["), "]")
	kind, sub, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(kind, "remote") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(sub), `"`)
}

func readDescription(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	desc := strings.TrimSpace(string(data))
	if desc == defaultDescription {
		return "", nil
	}
	return desc, nil
}
