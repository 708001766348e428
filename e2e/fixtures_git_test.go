//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// RepoOption is a function that configures repository creation
type RepoOption func(*repoOptions)

type repoOptions struct {
	withCommit  bool
	remotes     map[string]string // remote name -> URL
	description string
	files       map[string]string // filename -> contents
}

// WithCommit creates the repository with an initial commit
func WithCommit(commit bool) RepoOption {
	return func(opts *repoOptions) {
		opts.withCommit = commit
	}
}

// WithRemoteURL adds a remote pointing at url. Nothing is pushed.
func WithRemoteURL(name, url string) RepoOption {
	return func(opts *repoOptions) {
		if opts.remotes == nil {
			opts.remotes = make(map[string]string)
		}
		opts.remotes[name] = url
	}
}

// WithDescription writes .git/description
func WithDescription(desc string) RepoOption {
	return func(opts *repoOptions) {
		opts.description = desc
	}
}

// WithFiles creates the repository with specific files and contents
func WithFiles(files map[string]string) RepoOption {
	return func(opts *repoOptions) {
		opts.files = files
	}
}

// CreateTestWorkspace creates a temporary directory that also serves as $HOME
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateTestRepo creates a Git repository at name, relative to the workspace
func (tf *TUITestFramework) CreateTestRepo(name string, options ...RepoOption) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}

	repoPath := filepath.Join(tf.workspace, name)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		return "", err
	}

	if err := tf.runGitCommand(repoPath, "init"); err != nil {
		return "", err
	}
	if err := tf.runGitCommand(repoPath, "checkout", "-b", "main"); err != nil {
		return "", err
	}

	opts := &repoOptions{withCommit: true}
	for _, opt := range options {
		opt(opts)
	}

	for filename, content := range opts.files {
		if err := os.WriteFile(filepath.Join(repoPath, filename), []byte(content), 0644); err != nil {
			return "", err
		}
	}

	if opts.withCommit {
		readme := fmt.Sprintf("# %s\n\nTest repository for repofind testing.", filepath.Base(name))
		if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte(readme), 0644); err != nil {
			return "", err
		}
		if err := tf.runGitCommand(repoPath, "add", "."); err != nil {
			return "", err
		}
		if err := tf.runGitCommand(repoPath, "commit", "-m", "Initial commit"); err != nil {
			return "", err
		}
	}

	for remote, url := range opts.remotes {
		if err := tf.runGitCommand(repoPath, "remote", "add", remote, url); err != nil {
			return "", err
		}
	}

	if opts.description != "" {
		descPath := filepath.Join(repoPath, ".git", "description")
		if err := os.WriteFile(descPath, []byte(opts.description+"\n"), 0644); err != nil {
			return "", err
		}
	}

	return repoPath, nil
}

// WriteFile writes a file relative to the workspace, creating parents
func (tf *TUITestFramework) WriteFile(name, content string) (string, error) {
	path := filepath.Join(tf.workspace, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, []byte(content), 0644)
}

func (tf *TUITestFramework) runGitCommand(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	// Set deterministic git environment
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=repofind Test",
		"GIT_AUTHOR_EMAIL=test@repofind.test",
		"GIT_COMMITTER_NAME=repofind Test",
		"GIT_COMMITTER_EMAIL=test@repofind.test",
		"GIT_CONFIG_GLOBAL=/dev/null", // ignore user ~/.gitconfig
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %v failed: %v; out=%s", args, err, out)
	}
	return nil
}
