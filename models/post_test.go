package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidCategory(t *testing.T) {
	for _, c := range PostCategories {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("dessert"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("Recipe")) // case sensitive
}

func TestDefaultPostType(t *testing.T) {
	assert.Equal(t, TypeRecipe, DefaultPostType(CategoryRecipe))
	assert.Equal(t, TypeRecipe, DefaultPostType(CategoryTechnique))
	assert.Equal(t, TypeStory, DefaultPostType(CategoryCookingTip))
	assert.Equal(t, TypeStory, DefaultPostType(CategoryRestaurantReview))
	assert.Equal(t, TypeStory, DefaultPostType(CategoryFoodStory))
}

func TestIsLikedBy(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	post := Post{Likes: []primitive.ObjectID{alice}}
	assert.True(t, post.IsLikedBy(alice))
	assert.False(t, post.IsLikedBy(bob))

	empty := Post{}
	assert.False(t, empty.IsLikedBy(alice))
}

func TestCommentByID(t *testing.T) {
	first := Comment{ID: primitive.NewObjectID(), Content: "first"}
	second := Comment{ID: primitive.NewObjectID(), Content: "second"}
	post := Post{Comments: []Comment{first, second}}

	found := post.CommentByID(second.ID)
	assert.NotNil(t, found)
	assert.Equal(t, "second", found.Content)

	assert.Nil(t, post.CommentByID(primitive.NewObjectID()))
}

func TestCounts(t *testing.T) {
	post := Post{
		Likes:    []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
		Comments: []Comment{{ID: primitive.NewObjectID()}},
	}
	assert.Equal(t, 2, post.LikeCount())
	assert.Equal(t, 1, post.CommentCount())
}
