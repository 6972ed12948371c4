// Package ontology is the single source of truth for food vocabulary: it
// normalizes recipe text and image filenames into comparable token sets,
// expands ingredient synonyms, and defines the forbidden-ingredient and
// form-factor rules the scorer enforces.
package ontology

import (
	"strings"
)

// Config is the immutable vocabulary the ontology is built from. Tests
// substitute fixture configs; production uses DefaultConfig.
type Config struct {
	// Synonyms maps a canonical ingredient to its aliases.
	Synonyms map[string][]string

	// MealCategories maps a meal category to the presentation keywords
	// expected in a matching image filename.
	MealCategories map[string][]string

	// Forbidden lists high-risk ingredients that must not appear in an
	// image unless the recipe itself calls for them.
	Forbidden []string

	// StopWords are dropped during tokenization.
	StopWords []string

	// Beverage is the closed vocabulary used for form-factor checks.
	Beverage []string

	// CategoryPatterns drive the fallback suggestion search per category.
	CategoryPatterns map[string][]string

	// Proteins are scanned for during fallback matching.
	Proteins []string
}

// DefaultConfig returns the production vocabulary for the recipe catalog.
func DefaultConfig() Config {
	return Config{
		Synonyms: map[string][]string{
			"dragonfruit": {"pitaya", "dragon fruit"},
			"chickpea":    {"garbanzo", "chick pea", "chickpeas", "garbanzos"},
			"quinoa":      {"keen-wah", "quinoa grain"},
			"acai":        {"acai berry", "açaí", "acai puree"},
			"goji":        {"goji berry", "wolfberry", "goji berries"},
			"chia":        {"chia seed", "chia seeds"},
			"cacao":       {"cocoa", "chocolate", "dark chocolate"},
			"coconut":     {"coconut milk", "coconut flakes", "coconut oil"},
			"almond":      {"almonds", "almond butter", "chopped almonds"},
			"avocado":     {"avocados", "avo"},
			"broccoli":    {"broccoli florets"},
			"cauliflower": {"cauliflower rice", "cauliflower florets"},
			"spinach":     {"baby spinach", "spinach leaves"},
			"kale":        {"kale leaves", "baby kale"},
			"salmon":      {"atlantic salmon", "wild salmon"},
			"chicken":     {"chicken breast", "chicken thigh"},
			"beef":        {"ground beef", "beef strips"},
			"tofu":        {"firm tofu", "silken tofu"},
			"mushroom":    {"mushrooms", "shiitake", "portobello"},
			"bell pepper": {"red pepper", "yellow pepper", "green pepper", "peppers"},
			"tomato":      {"tomatoes", "cherry tomatoes", "roma tomatoes"},
			"onion":       {"onions", "red onion", "white onion", "yellow onion"},
			"garlic":      {"garlic clove", "garlic cloves"},
			"lemon":       {"lemon juice", "lemon zest"},
			"lime":        {"lime juice", "lime zest"},
			"ginger":      {"fresh ginger", "ginger root"},
			"turmeric":    {"turmeric powder", "fresh turmeric"},
			"basil":       {"fresh basil", "basil leaves"},
			"cilantro":    {"fresh cilantro", "coriander"},
			"parsley":     {"fresh parsley", "parsley leaves"},
		},
		MealCategories: map[string][]string{
			"breakfast": {"bowl", "smoothie", "parfait", "toast", "eggs", "pancakes", "oatmeal"},
			"lunch":     {"salad", "wrap", "sandwich", "soup", "bowl"},
			"dinner":    {"stir fry", "pasta", "curry", "roast", "casserole", "pizza"},
			"snack":     {"bites", "chips", "crackers", "bars"},
			"dessert":   {"ice cream", "cake", "cookies", "pudding", "mousse"},
			"beverage":  {"smoothie", "juice", "tea", "latte", "water"},
		},
		Forbidden: []string{
			"dragonfruit", "pitaya",
			"quinoa", "buckwheat",
			"pork", "bacon", "ham",
			"shellfish", "shrimp", "crab", "lobster",
			"alcohol", "wine", "beer",
			"dairy", "milk", "cheese", "yogurt",
			"wheat", "bread", "pasta",
			"rice",
			"sweet potato", "potato",
		},
		StopWords: []string{"the", "and", "with", "for", "cup", "tbsp", "tsp", "fresh", "raw", "organic"},
		Beverage:  []string{"smoothie", "juice", "latte", "tea", "coffee", "drink"},
		CategoryPatterns: map[string][]string{
			"breakfast": {"breakfast", "morning", "bowl", "smoothie", "parfait", "eggs", "oatmeal"},
			"lunch":     {"lunch", "salad", "bowl", "wrap", "sandwich", "soup"},
			"dinner":    {"dinner", "plate", "stir", "curry", "pasta", "roast", "grill"},
			"snack":     {"snack", "bite", "ball", "chip", "bar", "energy"},
			"dessert":   {"dessert", "sweet", "cake", "ice", "cream", "mousse"},
			"beverage":  {"drink", "smoothie", "juice", "tea", "coffee", "latte"},
		},
		Proteins: []string{"chicken", "beef", "fish", "salmon", "turkey", "tofu", "egg"},
	}
}

// Ontology exposes tokenization and vocabulary lookups over an immutable
// Config. Safe for concurrent use.
type Ontology struct {
	cfg       Config
	stopWords map[string]struct{}
	beverage  map[string]struct{}
}

// New builds an Ontology from the given vocabulary.
func New(cfg Config) *Ontology {
	o := &Ontology{
		cfg:       cfg,
		stopWords: make(map[string]struct{}, len(cfg.StopWords)),
		beverage:  make(map[string]struct{}, len(cfg.Beverage)),
	}
	for _, w := range cfg.StopWords {
		o.stopWords[w] = struct{}{}
	}
	for _, w := range cfg.Beverage {
		o.beverage[w] = struct{}{}
	}
	return o
}

// Tokenize normalizes free text or a filename into comparable tokens:
// lowercased, punctuation and digits stripped, short tokens and stop
// words dropped, plurals reduced. The rest of the engine only ever
// compares token sets, so order carries no meaning.
func (o *Ontology) Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, raw := range strings.Fields(b.String()) {
		if len(raw) <= 2 {
			continue
		}
		token := singularize(raw)
		if _, stop := o.stopWords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// singularize reduces common plural endings.
func singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "es"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	default:
		return word
	}
}

// ExpandTokens returns the synonym closure of the given tokens as a set.
func (o *Ontology) ExpandTokens(tokens []string) map[string]struct{} {
	expanded := make(map[string]struct{}, len(tokens)*2)
	for _, token := range tokens {
		expanded[token] = struct{}{}
	}
	for _, token := range tokens {
		for canonical, synonyms := range o.cfg.Synonyms {
			if token != canonical && !contains(synonyms, token) {
				continue
			}
			expanded[canonical] = struct{}{}
			for _, syn := range synonyms {
				expanded[strings.ToLower(strings.ReplaceAll(syn, " ", ""))] = struct{}{}
			}
		}
	}
	return expanded
}

// CategoryKeywords returns the presentation keywords for a meal category,
// or nil for an unknown category.
func (o *Ontology) CategoryKeywords(category string) []string {
	return o.cfg.MealCategories[category]
}

// CategoryPatterns returns the fallback filename patterns for a category.
func (o *Ontology) CategoryPatterns(category string) []string {
	return o.cfg.CategoryPatterns[category]
}

// Proteins returns the protein vocabulary used by fallback matching.
func (o *Ontology) Proteins() []string {
	return o.cfg.Proteins
}

// IsBeverageName reports whether a recipe name names a beverage. The name
// is split on whitespace only, so multi-word names keep their exact words.
func (o *Ontology) IsBeverageName(recipeName string) bool {
	for _, tok := range strings.Fields(strings.ToLower(recipeName)) {
		if _, ok := o.beverage[tok]; ok {
			return true
		}
	}
	return false
}

// IsBeverageFilename reports whether an image filename tokenizes into the
// beverage vocabulary. Filenames use underscore/dash/dot separators.
func (o *Ontology) IsBeverageFilename(filename string) bool {
	for _, tok := range strings.FieldsFunc(strings.ToLower(filename), func(r rune) bool {
		return r == '_' || r == '.' || r == '-'
	}) {
		if _, ok := o.beverage[tok]; ok {
			return true
		}
	}
	return false
}

// FormFactorCompatible reports whether a recipe and an image filename agree
// on the beverage/solid-food form factor. Exactly one side being a beverage
// disqualifies the pairing in either direction.
func (o *Ontology) FormFactorCompatible(recipeName, imageFilename string) bool {
	return o.IsBeverageName(recipeName) == o.IsBeverageFilename(imageFilename)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
