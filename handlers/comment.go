package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/database"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CommentRequest struct {
	Content string `json:"content"`
}

// ValidateCommentInput trims the content and returns the violated
// constraints, if any.
func ValidateCommentInput(req *CommentRequest) []gin.H {
	req.Content = strings.TrimSpace(req.Content)
	if n := utf8.RuneCountInString(req.Content); n < 1 || n > 1000 {
		return []gin.H{{"field": "content", "message": "Comment must be between 1 and 1000 characters"}}
	}
	return nil
}

// AddComment appends a comment to a visible post. The append is a single
// $push, so concurrent comments never clobber each other.
func AddComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	authorID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if details := ValidateCommentInput(&req); len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Validation failed",
			"details": details,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	authorName := c.GetString("userName")
	if authorName == "" {
		var user models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": authorID}).Decode(&user); err == nil {
			authorName = user.Name
		}
	}
	if authorName == "" {
		authorName = "Unknown User"
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   req.Content,
		Author:    authorName,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}

	filter := VisibleFilter()
	filter["_id"] = postID

	result, err := database.Posts.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		log.Printf("[AddComment] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": gin.H{
			"id":        comment.ID.Hex(),
			"content":   comment.Content,
			"author":    comment.Author,
			"authorId":  comment.AuthorID.Hex(),
			"createdAt": comment.CreatedAt,
		},
	})
}

// GetComments returns the comment sequence of a visible post in append
// order.
func GetComments(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	filter := VisibleFilter()
	filter["_id"] = postID

	var post models.Post
	err = database.Posts.FindOne(ctx, filter).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[GetComments] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	comments := make([]gin.H, len(post.Comments))
	for i, cm := range post.Comments {
		comments[i] = gin.H{
			"id":        cm.ID.Hex(),
			"content":   cm.Content,
			"author":    cm.Author,
			"authorId":  cm.AuthorID.Hex(),
			"createdAt": cm.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DeleteComment hard-removes a comment. Two principals may do it: the
// comment's author and the post's author.
func DeleteComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID format"})
		return
	}

	callerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	filter := VisibleFilter()
	filter["_id"] = postID

	var post models.Post
	err = database.Posts.FindOne(ctx, filter).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[DeleteComment] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	comment := post.CommentByID(commentID)
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != callerID && post.AuthorID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this comment"})
		return
	}

	_, err = database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		log.Printf("[DeleteComment] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
