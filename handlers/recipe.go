package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/database"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Broad cuisine groups expand to the specific cuisines they cover.
var cuisineGroups = map[string]struct {
	region  string
	members []string
}{
	"asian":         {"Asian", []string{"Japanese", "Chinese", "Korean", "Thai", "Vietnamese", "Indian"}},
	"mediterranean": {"Mediterranean", []string{"Greek", "Spanish", "Italian"}},
	"latin":         {"Latin", []string{"Mexican"}},
}

// BuildCuisineFilter maps a cuisine query to the recipe filter. Broad
// categories match member cuisines, the region field, or related tags;
// specific cuisines match the cuisine field or tags by substring.
func BuildCuisineFilter(cuisine string) bson.M {
	lower := strings.ToLower(cuisine)

	if group, ok := cuisineGroups[lower]; ok {
		tagPatterns := make([]primitive.Regex, len(group.members)+1)
		tagPatterns[0] = SearchRegex(lower)
		for i, m := range group.members {
			tagPatterns[i+1] = SearchRegex(m)
		}
		return bson.M{"$or": []bson.M{
			{"cuisine": bson.M{"$in": group.members}},
			{"region": group.region},
			{"tags": bson.M{"$in": tagPatterns}},
		}}
	}

	if lower == "american" {
		return bson.M{"$or": []bson.M{
			{"cuisine": "American"},
			{"region": "American"},
			{"tags": bson.M{"$in": []primitive.Regex{SearchRegex("american"), SearchRegex("comfort")}}},
		}}
	}

	re := SearchRegex(cuisine)
	return bson.M{"$or": []bson.M{
		{"cuisine": re},
		{"tags": bson.M{"$in": []primitive.Regex{re}}},
	}}
}

// recipeIDQuery matches by ObjectID when the id parses, otherwise by the
// raw string. Legacy recipe documents carry string ids.
func recipeIDQuery(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// GetCuisines returns the distinct cuisines of the catalog, sorted.
func GetCuisines(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	values, err := database.Recipes.Distinct(ctx, "cuisine", bson.M{})
	if err != nil {
		log.Printf("[GetCuisines] Distinct error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	cuisines := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			cuisines = append(cuisines, s)
		}
	}
	sort.Strings(cuisines)

	c.JSON(http.StatusOK, cuisines)
}

// GetRecipes lists the catalog with an optional cuisine filter. Without
// page/limit parameters the whole matching set is returned.
func GetRecipes(c *gin.Context) {
	filter := bson.M{}
	if cuisine := c.Query("cuisine"); cuisine != "" && cuisine != "all" {
		filter = BuildCuisineFilter(cuisine)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if c.Query("page") == "" && c.Query("limit") == "" {
		cursor, err := database.Recipes.Find(ctx, filter)
		if err != nil {
			log.Printf("[GetRecipes] Find error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		defer cursor.Close(ctx)

		recipes := []models.Recipe{}
		if err := cursor.All(ctx, &recipes); err != nil {
			log.Printf("[GetRecipes] Decode error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, recipes)
		return
	}

	page, limit, skip := pageParams(c, 12)

	total, err := database.Recipes.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("[GetRecipes] Count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	cursor, err := database.Recipes.Find(ctx, filter,
		options.Find().SetSkip(int64(skip)).SetLimit(int64(limit)))
	if err != nil {
		log.Printf("[GetRecipes] Find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		log.Printf("[GetRecipes] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"pagination": gin.H{
			"current": page,
			"total":   (total + int64(limit) - 1) / int64(limit),
			"hasMore": int64(skip+len(recipes)) < total,
		},
	})
}

// GetRecipe returns a single recipe by id.
func GetRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var recipe models.Recipe
	err := database.Recipes.FindOne(ctx, recipeIDQuery(c.Param("id"))).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if err != nil {
		log.Printf("[GetRecipe] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// SearchRecipes matches the query against title, subtitle, tags and
// cuisine by case-insensitive substring.
func SearchRecipes(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	re := SearchRegex(req.Query)
	cursor, err := database.Recipes.Find(ctx, bson.M{"$or": []bson.M{
		{"title": re},
		{"subtitle": re},
		{"tags": bson.M{"$in": []primitive.Regex{re}}},
		{"cuisine": re},
	}})
	if err != nil {
		log.Printf("[SearchRecipes] Find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		log.Printf("[SearchRecipes] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// UpdateRecipeVideos sets the shortform/longform video URLs of a recipe.
func UpdateRecipeVideos(c *gin.Context) {
	var req struct {
		ShortformVideoURL string `json:"shortform_video_url"`
		LongformVideoURL  string `json:"longform_video_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{}
	if req.ShortformVideoURL != "" {
		update["shortform_video_url"] = req.ShortformVideoURL
	}
	if req.LongformVideoURL != "" {
		update["longform_video_url"] = req.LongformVideoURL
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video URLs provided"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var recipe models.Recipe
	err := database.Recipes.FindOneAndUpdate(
		ctx,
		recipeIDQuery(c.Param("id")),
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if err != nil {
		log.Printf("[UpdateRecipeVideos] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// FavoriteRecipe acknowledges a favorite action after checking the
// recipe exists.
func FavoriteRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err := database.Recipes.FindOne(ctx, recipeIDQuery(c.Param("id"))).Err()
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if err != nil {
		log.Printf("[FavoriteRecipe] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe favorited successfully"})
}
