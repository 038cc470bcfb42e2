package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/XinjieShen121/SavorSync-MyFirstProject/handlers"
	"github.com/XinjieShen121/SavorSync-MyFirstProject/middleware"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "SavorSync API is running",
			"time":    time.Now().Unix(),
		})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "SavorSync API is running",
			"time":    time.Now().Unix(),
		})
	})

	// CORS configuration for the Vite dev frontends
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:5174", "http://127.0.0.1:5173", "http://127.0.0.1:5174"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimitMiddleware())

	// Public routes (no auth required)
	router.POST("/api/auth/signup", handlers.Signup)
	router.POST("/api/auth/login", handlers.Login)

	// Posts - public reads
	router.GET("/api/posts", handlers.GetPosts)
	router.GET("/api/posts/trending", handlers.GetTrendingPosts)
	router.GET("/api/posts/search", handlers.SearchPosts)
	router.GET("/api/posts/user/:userId", handlers.GetUserPosts)
	router.GET("/api/posts/:id", handlers.GetPost)
	router.GET("/api/posts/:id/comments", handlers.GetComments)

	// Recipes catalog
	router.GET("/api/recipes/cuisines", handlers.GetCuisines)
	router.GET("/api/recipes", handlers.GetRecipes)
	router.GET("/api/recipes/:id", handlers.GetRecipe)
	router.POST("/api/recipes/search", handlers.SearchRecipes)

	// Community
	router.GET("/api/community/feed", handlers.GetCommunityFeed)
	router.GET("/api/community/trending", handlers.GetCommunityTrending)
	router.GET("/api/community/search", handlers.SearchUsers)
	router.GET("/api/community/stats", handlers.GetCommunityStats)

	// Users - public reads
	router.GET("/api/users/:id", handlers.GetUserProfile)
	router.GET("/api/users/:id/followers", handlers.GetFollowers)
	router.GET("/api/users/:id/following", handlers.GetFollowing)
	router.GET("/api/users/:id/friends", handlers.GetFriends)
	router.GET("/api/users/:id/posts", handlers.GetUserPosts)

	// Cultural insights
	router.GET("/api/cultural/health", handlers.CulturalHealth)
	router.GET("/api/cultural/insight/:recipeId", handlers.GetRecipeInsight)
	router.POST("/api/cultural/insight", handlers.GenerateCustomInsight)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Posts - authoring
	protected.POST("/posts", handlers.CreatePost)
	protected.PUT("/posts/:id", handlers.UpdatePost)
	protected.DELETE("/posts/:id", handlers.DeletePost)

	// Likes
	protected.POST("/posts/:id/like", handlers.ToggleLike)
	protected.DELETE("/posts/:id/like", handlers.UnlikePost)

	// Comments
	protected.POST("/posts/:id/comments", handlers.AddComment)
	protected.DELETE("/posts/:id/comments/:commentId", handlers.DeleteComment)

	// Follow graph and profile
	protected.PUT("/users/:id/follow", handlers.ToggleFollow)
	protected.PUT("/users/profile", handlers.UpdateProfile)

	// Uploads
	protected.POST("/upload/image", handlers.UploadImage)
	protected.POST("/upload/profile", handlers.UploadProfileImage)
	protected.DELETE("/upload/image/*publicId", handlers.DeleteImage)

	// Recipe extras
	protected.PUT("/recipes/:id/videos", handlers.UpdateRecipeVideos)
	protected.POST("/recipes/:id/favorite", handlers.FavoriteRecipe)

	// Catch-all for undefined API routes
	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error":   "Endpoint not found",
				"path":    c.Request.URL.Path,
				"message": "Check the API documentation for available endpoints",
			})
			return
		}
		c.Next()
	})

	return router
}
