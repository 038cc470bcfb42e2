package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe documents come from the curated recipe database. Older entries
// use recipe_name instead of title, so both fields are kept.
type Recipe struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title,omitempty" json:"title,omitempty"`
	RecipeName string             `bson:"recipe_name,omitempty" json:"recipe_name,omitempty"`
	Subtitle   string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Cuisine    string             `bson:"cuisine" json:"cuisine"`
	Region     string             `bson:"region,omitempty" json:"region,omitempty"`

	PrepTime   string `bson:"prep_time,omitempty" json:"prep_time,omitempty"`
	CookTime   string `bson:"cook_time,omitempty" json:"cook_time,omitempty"`
	Servings   int    `bson:"servings,omitempty" json:"servings,omitempty"`
	Difficulty string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`

	Image             string `bson:"image,omitempty" json:"image,omitempty"`
	ImageURL          string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ShortformVideoURL string `bson:"shortform_video_url,omitempty" json:"shortform_video_url,omitempty"`
	LongformVideoURL  string `bson:"longform_video_url,omitempty" json:"longform_video_url,omitempty"`

	Ingredients  []string `bson:"ingredients" json:"ingredients"`
	Instructions []string `bson:"instructions" json:"instructions"`
	Tags         []string `bson:"tags" json:"tags"`
	FunFacts     []string `bson:"fun_facts,omitempty" json:"fun_facts,omitempty"`

	CulturalBackground string `bson:"culturalBackground,omitempty" json:"culturalBackground,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// DisplayName prefers the modern title field and falls back to recipe_name.
func (r *Recipe) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.RecipeName
}
