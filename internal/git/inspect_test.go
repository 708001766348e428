package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repofind/internal/display"
)

// makeRepo creates a fake repository with the given .git/config and
// .git/description contents; empty strings leave the file out.
func makeRepo(t *testing.T, config, description string) string {
	t.Helper()
	repo := t.TempDir()
	gitDir := filepath.Join(repo, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	if config != "" {
		require.NoError(t, os.WriteFile(filepath.Join(gitDir, "config"), []byte(config), 0o644))
	}
	if description != "" {
		require.NoError(t, os.WriteFile(filepath.Join(gitDir, "description"), []byte(description), 0o644))
	}
	return repo
}

const forkConfig = `[core]
	repositoryformatversion = 0
	bare = false
[remote "origin"]
	url = git@github.com:me/tool.git
	fetch = +refs/heads/*:refs/remotes/origin/*
[remote "upstream"]
	url = https://github.com/them/tool.git
	fetch = +refs/heads/*:refs/remotes/upstream/*
[branch "main"]
	remote = origin
`

func TestInspectFork(t *testing.T) {
	repo := makeRepo(t, forkConfig, "My copy of tool\n")
	md, err := Inspect(repo)
	require.NoError(t, err)

	assert.Equal(t, display.SourceGitHub, md.Source)
	assert.True(t, md.Fork)
	assert.Equal(t, "My copy of tool", md.Description)
	assert.Equal(t, map[string]string{
		"origin":   "git@github.com:me/tool.git",
		"upstream": "https://github.com/them/tool.git",
	}, md.Remotes)
}

func TestInspectLocalRepository(t *testing.T) {
	repo := makeRepo(t, "[core]\n\tbare = false\n", defaultDescription+"\n")
	md, err := Inspect(repo)
	require.NoError(t, err)

	assert.Equal(t, display.SourceLocal, md.Source)
	assert.False(t, md.Fork)
	assert.Empty(t, md.Description)
}

func TestInspectWithoutFiles(t *testing.T) {
	md, err := Inspect(makeRepo(t, "", ""))
	require.NoError(t, err)
	assert.Equal(t, display.SourceLocal, md.Source)
	assert.Empty(t, md.Remotes)
}

func TestInspectNonOriginRemote(t *testing.T) {
	repo := makeRepo(t, "[remote \"mirror\"]\n\turl = https://gitlab.example.com/x.git\n", "")
	md, err := Inspect(repo)
	require.NoError(t, err)
	assert.Equal(t, display.SourceGitLab, md.Source)
}

func TestInspectWorktree(t *testing.T) {
	primary := makeRepo(t, forkConfig, "")
	wtGitDir := filepath.Join(primary, ".git", "worktrees", "feature")
	require.NoError(t, os.MkdirAll(wtGitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wtGitDir, "commondir"), []byte("../..\n"), 0o644))

	wt := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wt, ".git"), []byte("gitdir: "+wtGitDir+"\n"), 0o644))

	md, err := Inspect(wt)
	require.NoError(t, err)
	assert.Equal(t, display.SourceGitHub, md.Source)
	assert.True(t, md.Fork)
}

func TestInspectSubmoduleRelativeGitdir(t *testing.T) {
	parent := t.TempDir()
	modDir := filepath.Join(parent, ".git", "modules", "lib")
	require.NoError(t, os.MkdirAll(modDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(modDir, "config"),
		[]byte("[remote \"origin\"]\n\turl = https://gitlab.com/x/lib.git\n"), 0o644))

	sub := filepath.Join(parent, "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, ".git"), []byte("gitdir: ../.git/modules/lib\n"), 0o644))

	md, err := Inspect(sub)
	require.NoError(t, err)
	assert.Equal(t, display.SourceGitLab, md.Source)
}

func TestInspectBrokenGitFile(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".git"), []byte("nonsense"), 0o644))

	_, err := Inspect(repo)
	assert.ErrorContains(t, err, "not a gitdir link")
}

func TestSourceOf(t *testing.T) {
	tests := []struct {
		url  string
		want display.Source
	}{
		{"", display.SourceLocal},
		{"git@github.com:a/b.git", display.SourceGitHub},
		{"https://GitHub.com/a/b", display.SourceGitHub},
		{"https://gitlab.com/a/b.git", display.SourceGitLab},
		{"ssh://git@gitlab.internal:2222/a/b.git", display.SourceGitLab},
		{"https://codeberg.org/a/b.git", display.SourceOther},
		{"/srv/git/b.git", display.SourceOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SourceOf(tt.url), tt.url)
	}
}
