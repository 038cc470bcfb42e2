package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackKnownCuisine(t *testing.T) {
	text := Fallback(RecipeInfo{Name: "Carbonara", Cuisine: "Italian"})
	assert.Contains(t, text, "Carbonara")
	assert.Contains(t, text, "Italian")
}

func TestFallbackIsCaseInsensitive(t *testing.T) {
	upper := Fallback(RecipeInfo{Name: "Pad Thai", Cuisine: "THAI"})
	lower := Fallback(RecipeInfo{Name: "Pad Thai", Cuisine: "thai"})
	assert.Equal(t, lower, upper)
}

func TestFallbackUnknownCuisine(t *testing.T) {
	text := Fallback(RecipeInfo{Name: "Borscht", Cuisine: "Ukrainian"})
	assert.Contains(t, text, "Borscht")
	assert.Contains(t, text, "Ukrainian")
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(RecipeInfo{
		Name:        "Ramen",
		Cuisine:     "Japanese",
		Ingredients: []string{"noodles", "broth"},
	})
	assert.Contains(t, prompt, "Ramen")
	assert.Contains(t, prompt, "Japanese")
	assert.Contains(t, prompt, "noodles, broth")

	bare := buildPrompt(RecipeInfo{Name: "Ramen", Cuisine: "Japanese"})
	assert.Contains(t, bare, "Not specified")
}
