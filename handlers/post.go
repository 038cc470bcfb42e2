package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/database"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Cuisine  string   `json:"cuisine"`
}

// ValidatePostInput trims the free-text fields and returns every violated
// constraint, not just the first. An empty slice means the input is valid.
func ValidatePostInput(req *PostRequest) []gin.H {
	var details []gin.H

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.Cuisine = strings.TrimSpace(req.Cuisine)
	for i := range req.Tags {
		req.Tags[i] = strings.TrimSpace(req.Tags[i])
	}

	// Bounds are in characters, not bytes, so multibyte input measures
	// the way users count it.
	if n := utf8.RuneCountInString(req.Title); n < 3 || n > 200 {
		details = append(details, gin.H{"field": "title", "message": "Title must be between 3 and 200 characters"})
	}
	if n := utf8.RuneCountInString(req.Content); n < 10 || n > 10000 {
		details = append(details, gin.H{"field": "content", "message": "Content must be between 10 and 10000 characters"})
	}
	if !models.ValidCategory(req.Category) {
		details = append(details, gin.H{"field": "category", "message": "Invalid category"})
	}
	if req.Type != "" && req.Type != models.TypeRecipe && req.Type != models.TypeStory {
		details = append(details, gin.H{"field": "type", "message": "Type must be either \"recipe\" or \"story\""})
	}
	if req.Cuisine != "" && utf8.RuneCountInString(req.Cuisine) > 50 {
		details = append(details, gin.H{"field": "cuisine", "message": "Cuisine must be between 1 and 50 characters"})
	}
	if len(req.Tags) > 10 {
		details = append(details, gin.H{"field": "tags", "message": "Tags must be an array with maximum 10 items"})
	}
	for i, tag := range req.Tags {
		if n := utf8.RuneCountInString(tag); n < 1 || n > 50 {
			details = append(details, gin.H{"field": fmt.Sprintf("tags[%d]", i), "message": "Each tag must be between 1 and 50 characters"})
		}
	}

	return details
}

// VisibleFilter constrains a query to posts readers are allowed to see.
// Soft-deleted and unpublished posts fail this filter everywhere.
func VisibleFilter() bson.M {
	return bson.M{"isPublished": true, "isDeleted": false}
}

// SearchRegex matches a literal case-insensitive substring. The query is
// regex-quoted on purpose: search is a substring test, not a pattern.
func SearchRegex(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
}

// BuildListFilter assembles the visibility, category, author and
// free-text constraints of the posts listing.
func BuildListFilter(category, author, search string) bson.M {
	filter := VisibleFilter()

	if category != "" {
		filter["category"] = category
	}
	if author != "" {
		filter["author"] = SearchRegex(author)
	}
	if search != "" {
		re := SearchRegex(search)
		filter["$or"] = []bson.M{
			{"title": re},
			{"content": re},
			{"tags": bson.M{"$in": []primitive.Regex{re}}},
		}
	}

	return filter
}

// TrendingStart returns the hard cutoff for a trending window. Posts
// created before it are excluded outright, not down-ranked.
func TrendingStart(timeframe string, now time.Time) time.Time {
	switch timeframe {
	case "day":
		return now.Add(-24 * time.Hour)
	case "week":
		return now.Add(-7 * 24 * time.Hour)
	case "month":
		return now.Add(-30 * 24 * time.Hour)
	default:
		return now.Add(-7 * 24 * time.Hour)
	}
}

// BuildTrendingPipeline ranks posts inside the window by
// likes + 2*comments, newest first on ties.
func BuildTrendingPipeline(start time.Time, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: start}}},
			{Key: "isPublished", Value: true},
			{Key: "isDeleted", Value: false},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$size", Value: "$likes"}},
				bson.D{{Key: "$multiply", Value: bson.A{bson.D{{Key: "$size", Value: "$comments"}}, 2}}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "score", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func pageParams(c *gin.Context, defaultLimit int) (page, limit, skip int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	skip = (page - 1) * limit
	return
}

func postJSON(p models.Post, authors map[primitive.ObjectID]authorInfo) gin.H {
	author, ok := authors[p.AuthorID]
	if !ok {
		author = placeholderAuthor(p.AuthorID)
	}

	likes := make([]string, len(p.Likes))
	for i, id := range p.Likes {
		likes[i] = id.Hex()
	}

	comments := make([]gin.H, len(p.Comments))
	for i, cm := range p.Comments {
		comments[i] = gin.H{
			"id":        cm.ID.Hex(),
			"content":   cm.Content,
			"author":    cm.Author,
			"authorId":  cm.AuthorID.Hex(),
			"createdAt": cm.CreatedAt,
		}
	}

	return gin.H{
		"id":           p.ID.Hex(),
		"title":        p.Title,
		"content":      p.Content,
		"image":        p.Image,
		"tags":         p.Tags,
		"category":     p.Category,
		"type":         p.Type,
		"cuisine":      p.Cuisine,
		"author":       p.Author,
		"authorId":     author,
		"likes":        likes,
		"likeCount":    p.LikeCount(),
		"comments":     comments,
		"commentCount": p.CommentCount(),
		"isPublished":  p.IsPublished,
		"createdAt":    p.CreatedAt,
		"updatedAt":    p.UpdatedAt,
	}
}

func postsJSON(ctx context.Context, posts []models.Post) ([]gin.H, error) {
	authors, err := fetchAuthors(ctx, postAuthorIDs(posts))
	if err != nil {
		return nil, err
	}
	result := make([]gin.H, len(posts))
	for i, p := range posts {
		result[i] = postJSON(p, authors)
	}
	return result, nil
}

// GetPosts lists visible posts, newest first, with pagination and
// optional category/author/search filters.
func GetPosts(c *gin.Context) {
	page, limit, skip := pageParams(c, 10)
	filter := BuildListFilter(c.Query("category"), c.Query("author"), c.Query("search"))

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := database.Posts.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("[GetPosts] Find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("[GetPosts] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	total, err := database.Posts.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("[GetPosts] Count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	shaped, err := postsJSON(ctx, posts)
	if err != nil {
		log.Printf("[GetPosts] Author lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": shaped,
		"pagination": gin.H{
			"current":    page,
			"total":      (total + int64(limit) - 1) / int64(limit),
			"hasMore":    int64(skip+len(posts)) < total,
			"totalPosts": total,
		},
	})
}

// GetPost returns a single visible post. Deleted and never-existing ids
// are both 404, so deletion history does not leak.
func GetPost(c *gin.Context) {
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
		log.Printf("[GetPost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	authors, err := fetchAuthors(ctx, []primitive.ObjectID{post.AuthorID})
	if err != nil {
		log.Printf("[GetPost] Author lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postJSON(post, authors)})
}

// CreatePost validates the draft, settles the image, and persists the
// post with the caller as author. Callers cannot impersonate anyone:
// author fields come from the token, never the body.
func CreatePost(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if details := ValidatePostInput(&req); len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Validation failed",
			"details": details,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	postType := req.Type
	if postType == "" {
		postType = models.DefaultPostType(req.Category)
	}

	var cuisine *string
	if req.Cuisine != "" {
		cuisine = &req.Cuisine
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	post := models.Post{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Content:     req.Content,
		Image:       resolveImage(ctx, req.Image),
		Tags:        tags,
		Category:    req.Category,
		Type:        postType,
		Cuisine:     cuisine,
		Author:      authorName,
		AuthorID:    authorID,
		Likes:       []primitive.ObjectID{},
		Comments:    []models.Comment{},
		IsPublished: true,
		IsDeleted:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("[CreatePost] Insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	authors, _ := fetchAuthors(ctx, []primitive.ObjectID{authorID})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    postJSON(post, authors),
	})
}

// UpdatePost re-validates the full draft and applies it to the caller's
// own post. Omitted image/type/cuisine keep their prior values.
func UpdatePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	callerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if details := ValidatePostInput(&req); len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Validation failed",
			"details": details,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID, "isDeleted": false}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[UpdatePost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if post.AuthorID != callerID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden: You can only update your own posts",
			"message": "You do not have permission to update this post",
		})
		return
	}

	// Soft merge: fields the patch omits keep their stored values
	image := post.Image
	if req.Image != "" {
		if resolved := resolveImage(ctx, req.Image); resolved != nil {
			image = resolved
		}
	}

	postType := post.Type
	if req.Type != "" {
		postType = req.Type
	}

	cuisine := post.Cuisine
	if req.Cuisine != "" {
		cuisine = &req.Cuisine
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	update := bson.M{"$set": bson.M{
		"title":     req.Title,
		"content":   req.Content,
		"image":     image,
		"tags":      tags,
		"category":  req.Category,
		"type":      postType,
		"cuisine":   cuisine,
		"updatedAt": time.Now(),
	}}

	var updated models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID, "isDeleted": false},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("[UpdatePost] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	authors, _ := fetchAuthors(ctx, []primitive.ObjectID{updated.AuthorID})
	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    postJSON(updated, authors),
	})
}

// DeletePost soft-deletes the caller's own post. The record stays in the
// collection but disappears from every read path.
func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	callerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID, "isDeleted": false}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		log.Printf("[DeletePost] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if post.AuthorID != callerID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden: You can only delete your own posts",
			"message": "You do not have permission to delete this post",
		})
		return
	}

	_, err = database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": bson.M{
		"isDeleted": true,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Printf("[DeletePost] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
		"postId":  postID.Hex(),
	})
}

// SearchPosts runs the literal substring search over title, content and
// tags. The query parameter is mandatory.
func SearchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	_, limit, skip := pageParams(c, 10)

	filter := BuildListFilter(c.Query("category"), c.Query("author"), query)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := database.Posts.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("[SearchPosts] Find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("[SearchPosts] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	shaped, err := postsJSON(ctx, posts)
	if err != nil {
		log.Printf("[SearchPosts] Author lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": shaped})
}

// GetTrendingPosts ranks posts created inside the timeframe window.
// A post just outside the window is excluded no matter its engagement.
func GetTrendingPosts(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	timeframe := c.Query("timeframe")
	if timeframe == "" {
		timeframe = "week"
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	start := TrendingStart(timeframe, time.Now())
	cursor, err := database.Posts.Aggregate(ctx, BuildTrendingPipeline(start, limit))
	if err != nil {
		log.Printf("[GetTrendingPosts] Aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer cursor.Close(ctx)

	var scored []struct {
		models.Post `bson:",inline"`
		Score       int `bson:"score"`
	}
	if err := cursor.All(ctx, &scored); err != nil {
		log.Printf("[GetTrendingPosts] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	posts := make([]models.Post, len(scored))
	for i, s := range scored {
		posts[i] = s.Post
	}

	authors, err := fetchAuthors(ctx, postAuthorIDs(posts))
	if err != nil {
		log.Printf("[GetTrendingPosts] Author lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	shaped := make([]gin.H, len(scored))
	for i, s := range scored {
		entry := postJSON(s.Post, authors)
		entry["score"] = s.Score
		shaped[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{"posts": shaped})
}

// GetUserPosts lists a user's visible posts, newest first. It serves
// both /posts/user/:userId and /users/:id/posts.
func GetUserPosts(c *gin.Context) {
	param := c.Param("userId")
	if param == "" {
		param = c.Param("id")
	}
	userID, err := primitive.ObjectIDFromHex(param)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	page, limit, skip := pageParams(c, 10)

	filter := VisibleFilter()
	filter["authorId"] = userID

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := database.Posts.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("[GetUserPosts] Find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("[GetUserPosts] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	total, err := database.Posts.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("[GetUserPosts] Count error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	shaped, err := postsJSON(ctx, posts)
	if err != nil {
		log.Printf("[GetUserPosts] Author lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": shaped,
		"pagination": gin.H{
			"current":    page,
			"total":      (total + int64(limit) - 1) / int64(limit),
			"hasMore":    int64(skip+len(posts)) < total,
			"totalPosts": total,
		},
	})
}
