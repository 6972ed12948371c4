package imageindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuilder(t *testing.T) {
	ont := newTestOntology()

	t.Run("IndexesOnlyImageFiles", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"grilled_chicken_salad_bowl.png",
			"berry_smoothie_glass.jpg",
			"notes.txt",
			"index.json",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		}

		entries, err := NewBuilder(dir, ont, zap.NewNop()).Build()

		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("StripsGeneratedSuffixes", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "lentil_soup_bowl_a1b2c3d4e5.png"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "mango_parfait_1755468512345.png"), []byte("x"), 0o644))

		entries, err := NewBuilder(dir, ont, zap.NewNop()).Build()

		require.NoError(t, err)
		require.Len(t, entries, 2)
		byName := map[string][]string{}
		for _, e := range entries {
			byName[e.Filename] = e.Tokens
		}
		assert.Equal(t, []string{"lentil", "soup", "bowl"}, byName["lentil_soup_bowl_a1b2c3d4e5.png"])
		assert.Equal(t, []string{"mango", "parfait"}, byName["mango_parfait_1755468512345.png"])
	})

	t.Run("DetectsCategoriesFromFilename", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "green_smoothie_breakfast.png"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "herb_crusted_fish.png"), []byte("x"), 0o644))

		entries, err := NewBuilder(dir, ont, zap.NewNop()).Build()

		require.NoError(t, err)
		byName := map[string][]string{}
		for _, e := range entries {
			byName[e.Filename] = e.Categories
		}
		assert.Contains(t, byName["green_smoothie_breakfast.png"], "breakfast")
		assert.Contains(t, byName["green_smoothie_breakfast.png"], "beverage")
		// Nothing recognizable falls back to the general bucket.
		assert.Equal(t, []string{"general"}, byName["herb_crusted_fish.png"])
	})

	t.Run("MissingDirectory_ReturnsError", func(t *testing.T) {
		_, err := NewBuilder(filepath.Join(t.TempDir(), "nope"), ont, zap.NewNop()).Build()
		assert.Error(t, err)
	})

	t.Run("RoundTripsThroughSave", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "grilled_chicken_salad_bowl.png"), []byte("x"), 0o644))

		builder := NewBuilder(dir, ont, zap.NewNop())
		entries, err := builder.Build()
		require.NoError(t, err)

		out := filepath.Join(t.TempDir(), "image-index.json")
		require.NoError(t, builder.Save(entries, out))

		index, err := Load(out, ont)
		require.NoError(t, err)
		assert.Equal(t, len(entries), index.Len())
	})
}
