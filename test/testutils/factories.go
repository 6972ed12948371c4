// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/glycora/imageaudit/internal/domain/catalog"
)

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// CreateRecipe creates a recipe with random but plausible data
func (f *RecipeFactory) CreateRecipe() catalog.Recipe {
	name := fmt.Sprintf("%s %s", f.faker.Adjective(), f.faker.Dinner())
	gv := f.faker.Number(20, 60)
	return catalog.Recipe{
		ID:            uuid.New(),
		Name:          name,
		Ingredients:   []string{f.faker.Vegetable(), f.faker.Fruit(), "olive oil"},
		Category:      "dinner",
		ImageURL:      "/attached_assets/generated_images/placeholder_dish.png",
		GlycemicIndex: "low",
		GlycemicValue: &gv,
	}
}

// CreateRecipes creates n recipes
func (f *RecipeFactory) CreateRecipes(n int) []catalog.Recipe {
	recipes := make([]catalog.Recipe, n)
	for i := range recipes {
		recipes[i] = f.CreateRecipe()
	}
	return recipes
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	id          uuid.UUID
	name        string
	ingredients []string
	category    string
	imageURL    string
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder() *RecipeBuilder {
	return &RecipeBuilder{
		id:          uuid.New(),
		name:        "Grilled Chicken Salad",
		ingredients: []string{"chicken breast", "lettuce", "olive oil"},
		category:    "lunch",
		imageURL:    "/attached_assets/generated_images/grilled_chicken_salad.png",
	}
}

// WithID sets the recipe ID
func (rb *RecipeBuilder) WithID(id uuid.UUID) *RecipeBuilder {
	rb.id = id
	return rb
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// WithIngredients sets the recipe ingredients
func (rb *RecipeBuilder) WithIngredients(ingredients ...string) *RecipeBuilder {
	rb.ingredients = ingredients
	return rb
}

// WithCategory sets the recipe category
func (rb *RecipeBuilder) WithCategory(category string) *RecipeBuilder {
	rb.category = category
	return rb
}

// WithImageURL sets the recipe image URL
func (rb *RecipeBuilder) WithImageURL(imageURL string) *RecipeBuilder {
	rb.imageURL = imageURL
	return rb
}

// Build creates the recipe
func (rb *RecipeBuilder) Build() catalog.Recipe {
	return catalog.Recipe{
		ID:            rb.id,
		Name:          rb.name,
		Ingredients:   rb.ingredients,
		Category:      rb.category,
		ImageURL:      rb.imageURL,
		GlycemicIndex: "low",
	}
}
