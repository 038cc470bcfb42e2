package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`

	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar" json:"avatar"`
	Bio    string `bson:"bio" json:"bio"`

	// Follow graph, stored as id arrays on the user document. Membership
	// is maintained with $addToSet/$pull so entries never duplicate.
	Followers []primitive.ObjectID `bson:"followers" json:"followers"`
	Following []primitive.ObjectID `bson:"following" json:"following"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	LastSeen  int64 `bson:"lastSeen" json:"lastSeen"`
}

// IsFollowing reports whether the user follows targetID.
func (u *User) IsFollowing(targetID primitive.ObjectID) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}

// Friends returns the ids that appear in both Followers and Following.
func (u *User) Friends() []primitive.ObjectID {
	followers := make(map[primitive.ObjectID]bool, len(u.Followers))
	for _, id := range u.Followers {
		followers[id] = true
	}
	var friends []primitive.ObjectID
	for _, id := range u.Following {
		if followers[id] {
			friends = append(friends, id)
		}
	}
	return friends
}
