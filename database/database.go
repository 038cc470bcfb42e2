package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var RecipeClient *mongo.Client

var Users *mongo.Collection
var Posts *mongo.Collection
var Recipes *mongo.Collection

// ConnectMongo opens the user database and the recipe database. The two
// can live on different clusters; when RECIPE_MONGODB_URI is unset the
// recipe collections share the user connection.
func ConnectMongo() error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Println("MONGODB_URI not set, using default localhost")
		uri = "mongodb://127.0.0.1:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	recipeURI := os.Getenv("RECIPE_MONGODB_URI")
	if recipeURI == "" || recipeURI == uri {
		RecipeClient = Client
	} else {
		RecipeClient, err = mongo.Connect(ctx, options.Client().ApplyURI(recipeURI))
		if err != nil {
			return err
		}
		if err := RecipeClient.Ping(ctx, nil); err != nil {
			return err
		}
	}

	db := Client.Database("savorsync")
	Users = db.Collection("users")
	Posts = db.Collection("posts")
	Recipes = RecipeClient.Database("savorsync_db").Collection("recipes")

	if err := ensureIndexes(ctx); err != nil {
		log.Printf("Index creation failed: %v", err)
	}

	log.Println("Connected to MongoDB successfully")
	return nil
}

// Indexes backing the chronological, category and author queries.
func ensureIndexes(ctx context.Context) error {
	_, err := Posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "likes", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func DisconnectMongo() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if RecipeClient != nil && RecipeClient != Client {
		if err := RecipeClient.Disconnect(ctx); err != nil {
			log.Printf("Recipe DB disconnect error: %v", err)
		}
	}

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
