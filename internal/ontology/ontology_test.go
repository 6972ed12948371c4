package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	ont := New(DefaultConfig())

	t.Run("NormalizesCaseAndPunctuation", func(t *testing.T) {
		tokens := ont.Tokenize("Grilled-Chicken_Salad.png")
		assert.Equal(t, []string{"grilled", "chicken", "salad", "png"}, tokens)
	})

	t.Run("DropsStopWordsAndShortTokens", func(t *testing.T) {
		tokens := ont.Tokenize("Fresh Strawberries and Cream, 2 cups")
		// "fresh" and "and" are stop words, "cups" singularizes into the
		// stop word "cup", and "2" is not alphabetic.
		assert.Equal(t, []string{"strawberry", "cream"}, tokens)
	})

	t.Run("SingularizesPlurals", func(t *testing.T) {
		tokens := ont.Tokenize("tomatoes berries carrots glass")
		assert.Equal(t, []string{"tomato", "berry", "carrot", "glass"}, tokens)
	})

	t.Run("EmptyInput_YieldsNoTokens", func(t *testing.T) {
		assert.Empty(t, ont.Tokenize(""))
		assert.Empty(t, ont.Tokenize("  12 & 34  "))
	})
}

func TestExpandTokens(t *testing.T) {
	ont := New(DefaultConfig())

	t.Run("SynonymMapsToCanonical", func(t *testing.T) {
		expanded := ont.ExpandTokens([]string{"garbanzo"})
		assert.Contains(t, expanded, "garbanzo")
		assert.Contains(t, expanded, "chickpea")
	})

	t.Run("CanonicalPullsInSpaceStrippedSynonyms", func(t *testing.T) {
		expanded := ont.ExpandTokens([]string{"chicken"})
		assert.Contains(t, expanded, "chicken")
		assert.Contains(t, expanded, "chickenbreast")
		assert.Contains(t, expanded, "chickenthigh")
	})

	t.Run("UnknownTokenSurvivesUnchanged", func(t *testing.T) {
		expanded := ont.ExpandTokens([]string{"callaloo"})
		require.Len(t, expanded, 1)
		assert.Contains(t, expanded, "callaloo")
	})
}

func TestFormFactor(t *testing.T) {
	ont := New(DefaultConfig())

	t.Run("BeverageNameDetection", func(t *testing.T) {
		assert.True(t, ont.IsBeverageName("Green Detox Smoothie"))
		assert.True(t, ont.IsBeverageName("Iced Matcha Latte"))
		assert.False(t, ont.IsBeverageName("Grilled Chicken Salad"))
	})

	t.Run("BeverageFilenameDetection", func(t *testing.T) {
		assert.True(t, ont.IsBeverageFilename("berry_smoothie_glass.png"))
		assert.True(t, ont.IsBeverageFilename("cold-pressed-juice.jpg"))
		assert.False(t, ont.IsBeverageFilename("chicken_stir_fry.png"))
	})

	t.Run("MismatchDisqualifiesInBothDirections", func(t *testing.T) {
		// Beverage recipe, solid-food image.
		assert.False(t, ont.FormFactorCompatible("Green Smoothie", "green_salad_plate.png"))
		// Solid-food recipe, beverage image.
		assert.False(t, ont.FormFactorCompatible("Chicken Salad", "green_juice_glass.png"))
	})

	t.Run("AgreementOnEitherFormFactorIsCompatible", func(t *testing.T) {
		assert.True(t, ont.FormFactorCompatible("Green Smoothie", "green_smoothie_glass.png"))
		assert.True(t, ont.FormFactorCompatible("Chicken Salad", "chicken_salad_bowl.png"))
	})
}

func TestVocabularyIsInjected(t *testing.T) {
	// A minimal fixture vocabulary exercises the engine without the
	// production word lists.
	ont := New(Config{
		Forbidden: []string{"gravel"},
		StopWords: []string{"very"},
		Beverage:  []string{"potion"},
	})

	assert.Equal(t, []string{"gravel", "rock"}, ont.Tokenize("very gravel rock"))
	assert.True(t, ont.IsBeverageName("Mana Potion"))
	assert.False(t, ont.IsBeverageName("Green Smoothie"))
}
