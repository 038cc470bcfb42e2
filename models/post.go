package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post categories accepted by the API.
const (
	CategoryRecipe           = "recipe"
	CategoryCookingTip       = "cooking-tip"
	CategoryRestaurantReview = "restaurant-review"
	CategoryFoodStory        = "food-story"
	CategoryTechnique        = "technique"
)

// Post types. Recipe-like categories default to TypeRecipe, the rest to TypeStory.
const (
	TypeRecipe = "recipe"
	TypeStory  = "story"
)

var PostCategories = []string{
	CategoryRecipe,
	CategoryCookingTip,
	CategoryRestaurantReview,
	CategoryFoodStory,
	CategoryTechnique,
}

// Comment is embedded in its parent post. Comments never exist on their own.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Content   string             `bson:"content" json:"content"`
	Author    string             `bson:"author" json:"author"`
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Content  string             `bson:"content" json:"content"`
	Image    *string            `bson:"image" json:"image"`
	Tags     []string           `bson:"tags" json:"tags"`
	Category string             `bson:"category" json:"category"`
	Type     string             `bson:"type" json:"type"`
	Cuisine  *string            `bson:"cuisine,omitempty" json:"cuisine,omitempty"`

	// Author is the display name captured at creation time; AuthorID is
	// the only field ownership checks look at.
	Author   string             `bson:"author" json:"author"`
	AuthorID primitive.ObjectID `bson:"authorId" json:"authorId"`

	Likes    []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments []Comment            `bson:"comments" json:"comments"`

	IsPublished bool `bson:"isPublished" json:"isPublished"`
	IsDeleted   bool `bson:"isDeleted" json:"isDeleted"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidCategory reports whether category is one of the accepted post categories.
func ValidCategory(category string) bool {
	for _, c := range PostCategories {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultPostType returns the type a post takes when the client omits it.
func DefaultPostType(category string) string {
	if category == CategoryRecipe || category == CategoryTechnique {
		return TypeRecipe
	}
	return TypeStory
}

// IsLikedBy reports whether userID is in the post's like set.
func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the embedded comment with the given id, or nil.
func (p *Post) CommentByID(commentID primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

func (p *Post) LikeCount() int    { return len(p.Likes) }
func (p *Post) CommentCount() int { return len(p.Comments) }
