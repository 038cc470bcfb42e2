package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsFollowing(t *testing.T) {
	target := primitive.NewObjectID()
	user := User{Following: []primitive.ObjectID{target}}

	assert.True(t, user.IsFollowing(target))
	assert.False(t, user.IsFollowing(primitive.NewObjectID()))
}

func TestFriends(t *testing.T) {
	mutual := primitive.NewObjectID()
	onlyFollower := primitive.NewObjectID()
	onlyFollowing := primitive.NewObjectID()

	user := User{
		Followers: []primitive.ObjectID{mutual, onlyFollower},
		Following: []primitive.ObjectID{mutual, onlyFollowing},
	}

	friends := user.Friends()
	assert.Len(t, friends, 1)
	assert.Equal(t, mutual, friends[0])

	assert.Empty(t, (&User{}).Friends())
}
