// Package timeline orders biographical entries of mixed kinds newest first,
// deriving a sortable date from their free-text periods.
package timeline

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind tags the section an entry belongs to.
type Kind string

const (
	Work      Kind = "work"
	Education Kind = "education"
	Award     Kind = "award"
	Volunteer Kind = "volunteer"
)

// Item is one timeline entry as authored in the catalogs.
type Item struct {
	Title string `json:"title" validate:"required"`
	// Organization is filled from the employer or the institution.
	Organization string   `json:"organization,omitempty"`
	Period       string   `json:"period" validate:"required"`
	Kind         Kind     `json:"type" validate:"oneof=work education award volunteer"`
	Description  []string `json:"description"`
	Location     string   `json:"location,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	KeyProjects  []string `json:"keyProjects,omitempty"`

	// Date is an explicitly assigned sort date. It is never derived into.
	Date *time.Time `json:"date,omitempty"`
}

var validate = validator.New()

// Validate reports the first authoring problem in items, naming its index.
// Sorting never requires it; it serves catalog checks.
func Validate(items []Item) error {
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			return fmt.Errorf("timeline item %d (%q): %w", i, item.Title, err)
		}
	}
	return nil
}
