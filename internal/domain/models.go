package domain

import "repofind/internal/display"

// Repository represents a git repository offered in the finder
type Repository struct {
	Path        string
	Name        string
	DisplayName string // name shown in the finder, relative to the scan root
	Description string
	Fork        bool
	Private     bool
	Source      display.Source
}

// Display returns the decorated line the finder shows for the repository
func (r Repository) Display() string {
	name := r.DisplayName
	if name == "" {
		name = r.Name
	}
	return display.FormatRepository(name, r.Description, r.Fork, r.Private, r.Source)
}

