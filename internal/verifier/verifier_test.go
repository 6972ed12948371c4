package verifier

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/glycora/imageaudit/internal/domain/audit"
	"github.com/glycora/imageaudit/internal/domain/catalog"
	"github.com/glycora/imageaudit/internal/imageindex"
	"github.com/glycora/imageaudit/internal/ontology"
	"github.com/glycora/imageaudit/internal/report"
	"github.com/glycora/imageaudit/test/testutils"
)

// VerifierTestSuite provides a test suite for the verification pass
type VerifierTestSuite struct {
	suite.Suite
	ont   *ontology.Ontology
	index *imageindex.Index
}

// SetupSuite initializes the shared vocabulary and asset index
func (s *VerifierTestSuite) SetupSuite() {
	s.ont = ontology.New(ontology.DefaultConfig())
	s.index = imageindex.New([]imageindex.Entry{
		{Filename: "grilled_chicken_salad_bowl.png", Tokens: s.ont.Tokenize("grilled chicken salad bowl")},
		{Filename: "green_detox_smoothie_glass.png", Tokens: s.ont.Tokenize("green detox smoothie glass")},
		{Filename: "green_salad_plate.png", Tokens: s.ont.Tokenize("green salad plate")},
		{Filename: "callaloo_stew_pot.png", Tokens: s.ont.Tokenize("callaloo stew pot")},
	}, s.ont)
}

func (s *VerifierTestSuite) newVerifier(store *testutils.MockRecipeStore, batchSize int) *Verifier {
	reports := report.NewGenerator(s.T().TempDir(), zap.NewNop())
	return New(store, s.index, s.ont, reports, zap.NewNop(), batchSize)
}

func (s *VerifierTestSuite) TestVerifyAll() {
	s.Run("ForbiddenMismatch_IsCriticalWithSuggestion", func() {
		// Arrange
		recipe := testutils.NewRecipeBuilder().
			WithName("Grilled Chicken Salad").
			WithIngredients("chicken breast", "lettuce", "olive oil").
			WithCategory("lunch").
			WithImageURL("/attached_assets/generated_images/creamy_cheese_pasta_dish.png").
			Build()
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return([]catalog.Recipe{recipe}, nil)

		// Act
		rep, err := s.newVerifier(store, 50).VerifyAll(context.Background())

		// Assert
		require.NoError(s.T(), err)
		require.Len(s.T(), rep.Results, 1)

		result := rep.Results[0]
		assert.Equal(s.T(), audit.ActionCritical, result.ActionRequired)
		assert.True(s.T(), audit.HasForbidden(result.Issues))
		assert.Equal(s.T(), "creamy_cheese_pasta_dish.png", result.CurrentImage)
		assert.Equal(s.T(), "grilled_chicken_salad_bowl.png", result.SuggestedImage)
		assert.Equal(s.T(), 1, rep.CriticalIssues)
	})

	s.Run("WellMatchedImage_IsOKWithoutSuggestion", func() {
		// Arrange
		recipe := testutils.NewRecipeBuilder().
			WithName("Grilled Chicken Salad").
			WithIngredients("chicken breast", "lettuce", "olive oil").
			WithCategory("lunch").
			WithImageURL("/attached_assets/generated_images/grilled_chicken_salad_bowl.png").
			Build()
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return([]catalog.Recipe{recipe}, nil)

		// Act
		rep, err := s.newVerifier(store, 50).VerifyAll(context.Background())

		// Assert
		require.NoError(s.T(), err)
		result := rep.Results[0]
		assert.Equal(s.T(), audit.ActionOK, result.ActionRequired)
		assert.Empty(s.T(), result.SuggestedImage)
		assert.Equal(s.T(), 1, rep.OKRecipes)
	})

	s.Run("UnknownVocabularyWithMatchingImage_IsOK", func() {
		// A recipe whose every word is outside the synonym vocabulary
		// still verifies cleanly when its image names the same dish.
		recipe := testutils.NewRecipeBuilder().
			WithName("Callaloo Stew").
			WithIngredients().
			WithCategory("brunch").
			WithImageURL("/attached_assets/generated_images/callaloo_stew_pot.png").
			Build()
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return([]catalog.Recipe{recipe}, nil)

		rep, err := s.newVerifier(store, 50).VerifyAll(context.Background())

		require.NoError(s.T(), err)
		assert.Equal(s.T(), audit.ActionOK, rep.Results[0].ActionRequired)
	})

	s.Run("BeverageRecipeWithSolidImage_SuggestsOnlyBeverages", func() {
		recipe := testutils.NewRecipeBuilder().
			WithName("Green Detox Smoothie").
			WithIngredients().
			WithCategory("beverage").
			WithImageURL("/attached_assets/generated_images/green_salad_plate.png").
			Build()
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return([]catalog.Recipe{recipe}, nil)

		rep, err := s.newVerifier(store, 50).VerifyAll(context.Background())

		require.NoError(s.T(), err)
		result := rep.Results[0]
		assert.NotEqual(s.T(), audit.ActionOK, result.ActionRequired)
		assert.Equal(s.T(), "green_detox_smoothie_glass.png", result.SuggestedImage)
	})

	s.Run("MissingImage_IsFlaggedNotFatal", func() {
		recipe := testutils.NewRecipeBuilder().
			WithName("Grilled Chicken Salad").
			WithIngredients("chicken breast").
			WithCategory("lunch").
			WithImageURL("").
			Build()
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return([]catalog.Recipe{recipe}, nil)

		rep, err := s.newVerifier(store, 50).VerifyAll(context.Background())

		require.NoError(s.T(), err)
		result := rep.Results[0]
		assert.Equal(s.T(), "", result.CurrentImage)
		assert.NotEqual(s.T(), audit.ActionOK, result.ActionRequired)
	})

	s.Run("ResultsPreserveCatalogOrder", func() {
		// Arrange: more recipes than one batch, names in a fixed order.
		var recipes []catalog.Recipe
		for i := 0; i < 5; i++ {
			recipes = append(recipes, testutils.NewRecipeBuilder().
				WithName(fmt.Sprintf("Recipe %02d", i)).
				WithIngredients("chicken breast").
				WithCategory("lunch").
				WithImageURL("/attached_assets/generated_images/grilled_chicken_salad_bowl.png").
				Build())
		}
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return(recipes, nil)

		// Act: batch size 2 forces three concurrent batches.
		rep, err := s.newVerifier(store, 2).VerifyAll(context.Background())

		// Assert
		require.NoError(s.T(), err)
		require.Len(s.T(), rep.Results, 5)
		for i, result := range rep.Results {
			assert.Equal(s.T(), recipes[i].Name, result.RecipeName)
			assert.Equal(s.T(), recipes[i].ID, result.RecipeID)
		}
	})

	s.Run("CountersCoverEveryTier", func() {
		recipes := []catalog.Recipe{
			// CRITICAL: forbidden ingredients in the image.
			testutils.NewRecipeBuilder().
				WithName("Grilled Chicken Salad").
				WithIngredients("chicken breast", "lettuce").
				WithCategory("lunch").
				WithImageURL("/attached_assets/generated_images/creamy_cheese_pasta_dish.png").
				Build(),
			// RECOMMENDED: unrelated image, no forbidden tokens.
			testutils.NewRecipeBuilder().
				WithName("Callaloo Stew").
				WithIngredients("callaloo", "okra").
				WithCategory("dinner").
				WithImageURL("/attached_assets/generated_images/mango_parfait.png").
				Build(),
			// OK: image names the dish.
			testutils.NewRecipeBuilder().
				WithName("Callaloo Stew").
				WithIngredients().
				WithCategory("brunch").
				WithImageURL("/attached_assets/generated_images/callaloo_stew_pot.png").
				Build(),
		}
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return(recipes, nil)

		rep, err := s.newVerifier(store, 50).VerifyAll(context.Background())

		require.NoError(s.T(), err)
		assert.Equal(s.T(), 3, rep.TotalRecipes)
		assert.Equal(s.T(), 1, rep.CriticalIssues)
		assert.Equal(s.T(), 1, rep.RecommendedFixes)
		assert.Equal(s.T(), 1, rep.OKRecipes)
		total := rep.CriticalIssues + rep.RecommendedFixes + rep.OptionalIssues + rep.OKRecipes
		assert.Equal(s.T(), rep.TotalRecipes, total)
	})

	s.Run("StoreFailure_AbortsRun", func() {
		store := testutils.NewMockRecipeStore()
		store.On("FetchAllRecipes", mock.Anything).Return(nil, assert.AnError)

		_, err := s.newVerifier(store, 50).VerifyAll(context.Background())

		assert.Error(s.T(), err)
	})
}

func (s *VerifierTestSuite) TestClassify() {
	s.Run("ForbiddenAlwaysCritical", func() {
		match := audit.MatchResult{
			Score:  95,
			Issues: []audit.Issue{{Kind: audit.IssueForbiddenIngredient, Detail: "pork"}},
		}
		assert.Equal(s.T(), audit.ActionCritical, classify(match))
	})

	s.Run("ScoreBands", func() {
		assert.Equal(s.T(), audit.ActionRecommended, classify(audit.MatchResult{Score: 49}))
		assert.Equal(s.T(), audit.ActionOptional, classify(audit.MatchResult{Score: 50}))
		assert.Equal(s.T(), audit.ActionOptional, classify(audit.MatchResult{Score: 69}))
		assert.Equal(s.T(), audit.ActionOK, classify(audit.MatchResult{Score: 70}))
	})
}

func TestVerifierTestSuite(t *testing.T) {
	suite.Run(t, new(VerifierTestSuite))
}
