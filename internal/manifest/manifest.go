// Package manifest loads a hand-maintained list of repositories, for
// repositories that are not on the local disk or should be shown with
// information git does not have (privacy, hosting service).
//
//	[[repository]]
//	name = "tool"
//	path = "~/src/tool"
//	description = "command line helper"
//	fork = true
//	private = false
//	source = "github"
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"repofind/internal/display"
	"repofind/internal/domain"
)

// Entry is one [[repository]] table
type Entry struct {
	Name        string `toml:"name"`
	Path        string `toml:"path"`
	Description string `toml:"description"`
	Fork        bool   `toml:"fork"`
	Private     bool   `toml:"private"`
	Source      string `toml:"source"`
}

// File is the manifest document
type File struct {
	Repositories []Entry `toml:"repository"`
}

// Load reads the manifest at path and returns its repositories in file order
func Load(path string) ([]domain.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	repos, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return repos, nil
}

// Parse decodes manifest data. Entries without a name use the base name of
// their path; "~/" in paths is expanded.
func Parse(data []byte) ([]domain.Repository, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown field: %s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	repos := make([]domain.Repository, 0, len(f.Repositories))
	var errs []error
	for i, e := range f.Repositories {
		repo, err := e.repository()
		if err != nil {
			errs = append(errs, fmt.Errorf("repository %d: %w", i+1, err))
			continue
		}
		repos = append(repos, repo)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return repos, nil
}

func (e Entry) repository() (domain.Repository, error) {
	source, err := display.ParseSource(e.Source)
	if err != nil {
		return domain.Repository{}, err
	}
	path := expandHome(e.Path)
	name := e.Name
	if name == "" {
		if path == "" {
			return domain.Repository{}, errors.New("needs a name or a path")
		}
		name = filepath.Base(path)
	}
	return domain.Repository{
		Path:        path,
		Name:        name,
		DisplayName: name,
		Description: e.Description,
		Fork:        e.Fork,
		Private:     e.Private,
		Source:      source,
	}, nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
