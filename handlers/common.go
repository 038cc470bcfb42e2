package handlers

import (
	"context"
	"time"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/database"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared constants and helpers used across handler files
const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

const requestTimeout = 10 * time.Second

// authorInfo is the denormalized author shape attached to posts and
// comments on the wire. Unresolvable authors (deleted accounts) render
// as a placeholder instead of failing the request.
type authorInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func placeholderAuthor(id primitive.ObjectID) authorInfo {
	return authorInfo{
		ID:     id.Hex(),
		Name:   "Unknown User",
		Avatar: fallbackAvatar,
	}
}

// fetchAuthors batch-loads the users referenced by the given ids and
// returns them keyed by id. Missing users are simply absent from the map.
func fetchAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]authorInfo, error) {
	result := make(map[primitive.ObjectID]authorInfo)
	if len(ids) == 0 {
		return result, nil
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

	for _, u := range users {
		info := authorInfo{ID: u.ID.Hex(), Name: u.Name, Avatar: u.Avatar}
		if info.Name == "" {
			info.Name = "Unknown User"
		}
		if info.Avatar == "" {
			info.Avatar = fallbackAvatar
		}
		result[u.ID] = info
	}
	return result, nil
}

// postAuthorIDs collects the distinct author ids of a post slice.
func postAuthorIDs(posts []models.Post) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	return ids
}
