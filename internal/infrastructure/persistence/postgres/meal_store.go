// Package postgres implements the recipe store against the production
// meals table.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/glycora/imageaudit/internal/domain/catalog"
	"github.com/glycora/imageaudit/internal/infrastructure/config"
	apperrors "github.com/glycora/imageaudit/pkg/errors"
)

// MealStore reads and mutates recipes through a pgx connection pool.
type MealStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewMealStore connects to the recipe database and verifies the
// connection before returning.
func NewMealStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*MealStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, apperrors.NewConfigError("invalid database connection string").WithCause(err)
	}

	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, apperrors.NewDatabaseError("connect to recipe store", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperrors.NewDatabaseError("ping recipe store", err)
	}

	return &MealStore{
		pool:   pool,
		logger: logger.Named("meal-store"),
	}, nil
}

// FetchAllRecipes returns every recipe in the catalog ordered by id.
func (s *MealStore) FetchAllRecipes(ctx context.Context) ([]catalog.Recipe, error) {
	const query = `
		SELECT id, name, ingredients, category, image_url, glycemic_index, glycemic_value
		FROM meals
		ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewDatabaseError("fetch recipes", err)
	}
	defer rows.Close()

	var recipes []catalog.Recipe
	for rows.Next() {
		var (
			id             uuid.UUID
			name           string
			rawIngredients []byte
			category       *string
			imageURL       *string
			glycemicIndex  *string
			glycemicValue  *int
		)
		if err := rows.Scan(&id, &name, &rawIngredients, &category, &imageURL, &glycemicIndex, &glycemicValue); err != nil {
			return nil, apperrors.NewDatabaseError("scan recipe row", err)
		}

		var ingredients []string
		if len(rawIngredients) > 0 {
			if err := json.Unmarshal(rawIngredients, &ingredients); err != nil {
				// A malformed payload degrades matching for this
				// recipe but must not abort the whole run.
				s.logger.Warn("Unparseable ingredients payload",
					zap.String("recipe_id", id.String()),
					zap.String("recipe_name", name),
					zap.Error(err))
				ingredients = nil
			}
		}

		recipes = append(recipes, catalog.Recipe{
			ID:            id,
			Name:          name,
			Ingredients:   ingredients,
			Category:      stringOr(category, "general"),
			ImageURL:      stringOr(imageURL, ""),
			GlycemicIndex: stringOr(glycemicIndex, "low"),
			GlycemicValue: glycemicValue,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate recipe rows", err)
	}

	s.logger.Info("Fetched recipes", zap.Int("count", len(recipes)))
	return recipes, nil
}

// UpdateMealImage replaces the image URL of a single recipe.
func (s *MealStore) UpdateMealImage(ctx context.Context, id uuid.UUID, newImageURL string) error {
	const query = `UPDATE meals SET image_url = $2 WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id, newImageURL)
	if err != nil {
		return apperrors.NewDatabaseError(fmt.Sprintf("update image for recipe %s", id), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewDatabaseError(fmt.Sprintf("update image for recipe %s", id),
			fmt.Errorf("no row matched"))
	}
	return nil
}

// Close releases the connection pool.
func (s *MealStore) Close() {
	s.pool.Close()
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
