package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/database"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// feedEntry is a post joined with its author document.
type feedEntry struct {
	models.Post `bson:",inline"`
	User        *models.User `bson:"user"`
}

func feedJSON(entries []feedEntry) []gin.H {
	result := make([]gin.H, len(entries))
	for i, e := range entries {
		author := placeholderAuthor(e.AuthorID)
		if e.User != nil {
			author = authorInfo{ID: e.User.ID.Hex(), Name: e.User.Name, Avatar: e.User.Avatar}
			if author.Name == "" {
				author.Name = "Unknown User"
			}
			if author.Avatar == "" {
				author.Avatar = fallbackAvatar
			}
		}

		result[i] = gin.H{
			"id":           e.ID.Hex(),
			"title":        e.Title,
			"content":      e.Content,
			"image":        e.Image,
			"cuisine":      e.Cuisine,
			"type":         e.Type,
			"category":     e.Category,
			"author":       author,
			"likeCount":    e.LikeCount(),
			"commentCount": e.CommentCount(),
			"createdAt":    e.CreatedAt,
		}
	}
	return result
}

// GetCommunityFeed returns the newest visible posts with their authors
// joined in a single aggregation.
func GetCommunityFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "isPublished", Value: true},
			{Key: "isDeleted", Value: false},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: 50}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("[GetCommunityFeed] Aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community feed"})
		return
	}
	defer cursor.Close(ctx)

	var entries []feedEntry
	if err := cursor.All(ctx, &entries); err != nil {
		log.Printf("[GetCommunityFeed] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": feedJSON(entries)})
}

// GetCommunityTrending ranks the last week's posts by raw like count.
// This is the lightweight community ranking; the posts endpoint carries
// the engagement-weighted one.
func GetCommunityTrending(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	weekAgo := time.Now().Add(-7 * 24 * time.Hour)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: weekAgo}}},
			{Key: "isPublished", Value: true},
			{Key: "isDeleted", Value: false},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "likeCount", Value: bson.D{{Key: "$size", Value: "$likes"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "likeCount", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: 20}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("[GetCommunityTrending] Aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trending posts"})
		return
	}
	defer cursor.Close(ctx)

	var entries []feedEntry
	if err := cursor.All(ctx, &entries); err != nil {
		log.Printf("[GetCommunityTrending] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trending posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": feedJSON(entries)})
}

// SearchUsers finds members by name or email substring.
func SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if len(q) == 0 {
		c.JSON(http.StatusOK, gin.H{"users": []gin.H{}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	re := SearchRegex(q)
	cursor, err := database.Users.Find(ctx, bson.M{"$or": []bson.M{
		{"name": re},
		{"email": re},
	}}, options.Find().SetLimit(10))
	if err != nil {
		log.Printf("[SearchUsers] Find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Printf("[SearchUsers] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": usersJSON(users)})
}

// GetCommunityStats reports membership and engagement totals.
func GetCommunityStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	totalUsers, err := database.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("[GetCommunityStats] Count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community stats"})
		return
	}

	totalPosts, err := database.Posts.CountDocuments(ctx, bson.M{"isDeleted": false})
	if err != nil {
		log.Printf("[GetCommunityStats] Count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community stats"})
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "isDeleted", Value: false}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalLikes", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$size", Value: "$likes"}}}}},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("[GetCommunityStats] Aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community stats"})
		return
	}
	defer cursor.Close(ctx)

	var totals []struct {
		TotalLikes int64 `bson:"totalLikes"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		log.Printf("[GetCommunityStats] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community stats"})
		return
	}

	var totalLikes int64
	if len(totals) > 0 {
		totalLikes = totals[0].TotalLikes
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers": totalUsers,
		"totalPosts": totalPosts,
		"totalLikes": totalLikes,
	})
}
