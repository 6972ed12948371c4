// Package catalog holds the read model for recipe rows owned by the
// wellness platform's relational store. The audit engine never creates or
// deletes recipes; the only field it may rewrite is the image reference.
package catalog

import (
	"path"

	"github.com/google/uuid"
)

// Recipe is a read-only projection of a meal row.
type Recipe struct {
	ID            uuid.UUID
	Name          string
	Ingredients   []string
	Category      string
	ImageURL      string
	GlycemicIndex string
	GlycemicValue *int
}

// ImageFilename returns the basename of the currently assigned image,
// or an empty string when no image is assigned.
func (r Recipe) ImageFilename() string {
	if r.ImageURL == "" {
		return ""
	}
	return path.Base(r.ImageURL)
}
