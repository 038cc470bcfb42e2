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
)

func userProfile(u models.User) gin.H {
	avatar := u.Avatar
	if avatar == "" {
		avatar = fallbackAvatar
	}
	followers := make([]string, len(u.Followers))
	for i, id := range u.Followers {
		followers[i] = id.Hex()
	}
	following := make([]string, len(u.Following))
	for i, id := range u.Following {
		following[i] = id.Hex()
	}
	return gin.H{
		"id":        u.ID.Hex(),
		"name":      u.Name,
		"email":     u.Email,
		"avatar":    avatar,
		"bio":       u.Bio,
		"followers": followers,
		"following": following,
		"createdAt": u.CreatedAt,
		"lastSeen":  u.LastSeen,
	}
}

func usersJSON(users []models.User) []gin.H {
	result := make([]gin.H, len(users))
	for i, u := range users {
		result[i] = userProfile(u)
	}
	return result
}

func findUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserProfile returns a public profile. The password hash never
// leaves the model layer.
func GetUserProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := findUserByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[GetUserProfile] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userProfile(*user)})
}

// ToggleFollow follows the target if not yet followed, otherwise
// unfollows. Both sides of the relationship are updated with
// $addToSet/$pull so the arrays stay duplicate-free.
func ToggleFollow(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	callerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	if callerID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err = database.Users.FindOne(ctx, bson.M{"_id": targetID}).Err()
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[ToggleFollow] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
		return
	}

	caller, err := findUserByID(ctx, callerID)
	if err != nil {
		log.Printf("[ToggleFollow] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
		return
	}

	isFollowing := caller.IsFollowing(targetID)

	if isFollowing {
		// Unfollow
		_, err = database.Users.UpdateOne(ctx, bson.M{"_id": callerID},
			bson.M{"$pull": bson.M{"following": targetID}})
		if err == nil {
			_, err = database.Users.UpdateOne(ctx, bson.M{"_id": targetID},
				bson.M{"$pull": bson.M{"followers": callerID}})
		}
	} else {
		// Follow
		_, err = database.Users.UpdateOne(ctx, bson.M{"_id": callerID},
			bson.M{"$addToSet": bson.M{"following": targetID}})
		if err == nil {
			_, err = database.Users.UpdateOne(ctx, bson.M{"_id": targetID},
				bson.M{"$addToSet": bson.M{"followers": callerID}})
		}
	}
	if err != nil {
		log.Printf("[ToggleFollow] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
		return
	}

	updated, err := findUserByID(ctx, callerID)
	if err != nil {
		log.Printf("[ToggleFollow] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        userProfile(*updated),
		"isFollowing": !isFollowing,
	})
}

func listUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetFollowers lists the accounts following a user.
func GetFollowers(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := findUserByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[GetFollowers] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followers"})
		return
	}

	users, err := listUsersByIDs(ctx, user.Followers)
	if err != nil {
		log.Printf("[GetFollowers] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": usersJSON(users)})
}

// GetFollowing lists the accounts a user follows.
func GetFollowing(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := findUserByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[GetFollowing] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following"})
		return
	}

	users, err := listUsersByIDs(ctx, user.Following)
	if err != nil {
		log.Printf("[GetFollowing] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": usersJSON(users)})
}

// GetFriends lists mutual follows.
func GetFriends(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := findUserByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[GetFriends] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	users, err := listUsersByIDs(ctx, user.Friends())
	if err != nil {
		log.Printf("[GetFriends] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": usersJSON(users)})
}

// UpdateProfile sets the caller's name, avatar and bio. Empty fields are
// left untouched.
func UpdateProfile(c *gin.Context) {
	callerID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
		Bio    string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Avatar != "" {
		update["avatar"] = req.Avatar
	}
	if req.Bio != "" {
		update["bio"] = req.Bio
	}
	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": callerID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("[UpdateProfile] Update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updated, err := findUserByID(ctx, callerID)
	if err != nil {
		log.Printf("[UpdateProfile] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userProfile(*updated)})
}
