package imageindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/glycora/imageaudit/internal/ontology"
	"go.uber.org/zap"
)

var (
	extensionPattern = regexp.MustCompile(`\.[^.]+$`)
	hashSuffix       = regexp.MustCompile(`_[a-f0-9]{8,}$`)
	timestampSuffix  = regexp.MustCompile(`_\d{13,}$`)
)

// Builder scans a directory of generated image assets and produces the
// index snapshot consumed by verification runs.
type Builder struct {
	imageDir string
	ont      *ontology.Ontology
	logger   *zap.Logger
}

// NewBuilder creates an index builder over the given asset directory.
func NewBuilder(imageDir string, ont *ontology.Ontology, logger *zap.Logger) *Builder {
	return &Builder{
		imageDir: imageDir,
		ont:      ont,
		logger:   logger.Named("index-builder"),
	}
}

// Build scans the asset directory and returns index entries for every
// image file found.
func (b *Builder) Build() ([]Entry, error) {
	files, err := os.ReadDir(b.imageDir)
	if err != nil {
		return nil, fmt.Errorf("scan image directory %s: %w", b.imageDir, err)
	}

	var entries []Entry
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		filename := file.Name()
		if !isImageFile(filename) {
			continue
		}

		tokens := b.extractTokens(filename)
		entries = append(entries, Entry{
			Filename:   filename,
			FullPath:   path.Join("/", b.imageDir, filename),
			Tokens:     tokens,
			Categories: detectCategories(filename, tokens),
		})
	}

	b.logger.Info("Indexed image assets",
		zap.Int("total_files", len(files)),
		zap.Int("indexed", len(entries)),
		zap.String("dir", b.imageDir),
	)

	return entries, nil
}

// Save writes the index snapshot to disk.
func (b *Builder) Save(entries []Entry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode image index: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write image index %s: %w", outputPath, err)
	}
	b.logger.Info("Image index saved", zap.String("path", outputPath))
	return nil
}

func isImageFile(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".png") ||
		strings.HasSuffix(lower, ".jpg") ||
		strings.HasSuffix(lower, ".jpeg")
}

// extractTokens tokenizes a filename after stripping the extension and any
// generated hash or timestamp suffix.
func (b *Builder) extractTokens(filename string) []string {
	clean := extensionPattern.ReplaceAllString(filename, "")
	clean = hashSuffix.ReplaceAllString(clean, "")
	clean = timestampSuffix.ReplaceAllString(clean, "")
	return b.ont.Tokenize(clean)
}

// detectCategories infers meal and dish categories from filename patterns.
func detectCategories(filename string, tokens []string) []string {
	var categories []string
	lower := strings.ToLower(filename)

	addIf := func(category string, match bool) {
		if match {
			categories = append(categories, category)
		}
	}

	addIf("breakfast", strings.Contains(lower, "breakfast") || strings.Contains(lower, "morning"))
	addIf("lunch", strings.Contains(lower, "lunch") || strings.Contains(lower, "salad") || strings.Contains(lower, "wrap"))
	addIf("dinner", strings.Contains(lower, "dinner") || strings.Contains(lower, "stir") || strings.Contains(lower, "curry"))
	addIf("snack", strings.Contains(lower, "snack") || strings.Contains(lower, "bites") || strings.Contains(lower, "energy"))
	addIf("dessert", strings.Contains(lower, "dessert") || strings.Contains(lower, "ice_cream") || strings.Contains(lower, "mousse"))
	addIf("beverage", strings.Contains(lower, "smoothie") || strings.Contains(lower, "juice") || strings.Contains(lower, "drink"))

	addIf("pizza", hasAny(tokens, "pizza", "flatbread"))
	addIf("bowl", hasAny(tokens, "bowl", "buddha", "grain"))
	addIf("soup", hasAny(tokens, "soup", "broth", "stew"))
	addIf("salad", hasAny(tokens, "salad", "green", "lettuce"))

	if len(categories) == 0 {
		return []string{"general"}
	}
	return categories
}

func hasAny(tokens []string, wanted ...string) bool {
	for _, token := range tokens {
		for _, w := range wanted {
			if token == w {
				return true
			}
		}
	}
	return false
}
