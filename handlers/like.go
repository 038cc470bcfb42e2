package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/database"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ToggleLike flips the caller's membership in the post's like set.
//
// The flip must not be a read-then-save pair: two concurrent toggles from
// the same user would both see "not liked" and double-add. Instead each
// branch is a single conditional FindOneAndUpdate whose filter asserts
// the membership state it is about to change, so exactly one of two
// racing requests wins each branch.
func ToggleLike(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	addFilter := VisibleFilter()
	addFilter["_id"] = postID
	addFilter["likes"] = bson.M{"$ne": userID}

	removeFilter := VisibleFilter()
	removeFilter["_id"] = postID
	removeFilter["likes"] = userID

	// Both branches can miss when a concurrent toggle from the same user
	// changes membership between them. That is a lost race, not a missing
	// post, so retry before concluding anything.
	for attempt := 0; attempt < 5; attempt++ {
		// Branch 1: not liked yet -> add
		var post models.Post
		err = database.Posts.FindOneAndUpdate(ctx, addFilter,
			bson.M{"$addToSet": bson.M{"likes": userID}}, after).Decode(&post)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"message":   "Post liked",
				"liked":     true,
				"likeCount": post.LikeCount(),
			})
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Printf("[ToggleLike] Like error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// Branch 2: already liked -> remove
		err = database.Posts.FindOneAndUpdate(ctx, removeFilter,
			bson.M{"$pull": bson.M{"likes": userID}}, after).Decode(&post)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"message":   "Post unliked",
				"liked":     false,
				"likeCount": post.LikeCount(),
			})
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Printf("[ToggleLike] Unlike error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// Only a post that fails the visibility filter outright is a 404
		visible := VisibleFilter()
		visible["_id"] = postID
		if err := database.Posts.FindOne(ctx, visible).Err(); err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		} else if err != nil {
			log.Printf("[ToggleLike] Database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	log.Printf("[ToggleLike] Gave up after repeated contention on post %s", postID.Hex())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// UnlikePost removes the caller's like if present. Unlike the toggle it
// never adds, so repeating it is harmless.
func UnlikePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	filter := VisibleFilter()
	filter["_id"] = postID

	var post models.Post
	err = database.Posts.FindOneAndUpdate(ctx, filter,
		bson.M{"$pull": bson.M{"likes": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[UnlikePost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Post unliked",
		"liked":     false,
		"likeCount": post.LikeCount(),
	})
}
