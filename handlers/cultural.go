package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/database"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/insight"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/models"
)

// insightTimeout is longer than requestTimeout because the model call
// can take a while.
const insightTimeout = 30 * time.Second

// GetRecipeInsight returns a cultural insight for a stored recipe.
func GetRecipeInsight(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), insightTimeout)
	defer cancel()

	var recipe models.Recipe
	err := database.Recipes.FindOne(ctx, recipeIDQuery(c.Param("recipeId"))).Decode(&recipe)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	text := insight.Generate(ctx, insight.RecipeInfo{
		Name:        recipe.DisplayName(),
		Cuisine:     recipe.Cuisine,
		Ingredients: recipe.Ingredients,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"insight": text,
		"recipe": gin.H{
			"id":      recipe.ID,
			"name":    recipe.DisplayName(),
			"cuisine": recipe.Cuisine,
		},
	})
}

// CustomInsightRequest is the body for POST /api/cultural/insight.
type CustomInsightRequest struct {
	RecipeName  string   `json:"recipeName"`
	Cuisine     string   `json:"cuisine"`
	Ingredients []string `json:"ingredients"`
}

// GenerateCustomInsight returns an insight for a recipe the client
// describes directly, without requiring it to exist in the catalog.
func GenerateCustomInsight(c *gin.Context) {
	var req CustomInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.RecipeName == "" || req.Cuisine == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe name and cuisine are required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), insightTimeout)
	defer cancel()

	text := insight.Generate(ctx, insight.RecipeInfo{
		Name:        req.RecipeName,
		Cuisine:     req.Cuisine,
		Ingredients: req.Ingredients,
	})

	log.Printf("[GenerateCustomInsight] generated insight for %q (%s)", req.RecipeName, req.Cuisine)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"insight": text,
	})
}

// CulturalHealth reports whether the insight service has a live model
// behind it or is running on fallback content.
func CulturalHealth(c *gin.Context) {
	status := "fallback"
	if insight.Configured() {
		status = "configured"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"openai": status,
	})
}
