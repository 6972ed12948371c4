// Package outbound defines the interfaces for outbound ports: the external
// systems the audit engine reads from and writes to.
package outbound

import (
	"context"

	"github.com/glycora/imageaudit/internal/domain/catalog"
	"github.com/google/uuid"
)

// RecipeStore is the relational store holding recipe rows. The engine
// performs one bulk read per run and only ever writes the image reference,
// one recipe at a time.
type RecipeStore interface {
	FetchAllRecipes(ctx context.Context) ([]catalog.Recipe, error)

	// UpdateMealImage is an idempotent single-row update of the image
	// reference. Failures must be catchable per call.
	UpdateMealImage(ctx context.Context, id uuid.UUID, newImageURL string) error
}
