package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
)

// resolveImage settles a post's image field. Inline data URIs are
// uploaded to Cloudinary; plain URLs pass through; anything else (or a
// failed upload) voids the image without failing the request.
func resolveImage(ctx context.Context, image string) *string {
	switch {
	case image == "":
		return nil
	case strings.HasPrefix(image, "data:image"):
		cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
		if err != nil {
			log.Printf("[resolveImage] Cloudinary configuration error: %v", err)
			return nil
		}
		result, err := cld.Upload.Upload(ctx, image, uploader.UploadParams{
			Folder:         "savorsync/posts",
			Transformation: "c_limit,w_800,h_600,q_auto",
		})
		if err != nil {
			log.Printf("[resolveImage] Upload failed, creating post without image: %v", err)
			return nil
		}
		return &result.SecureURL
	case strings.HasPrefix(image, "http"):
		return &image
	default:
		return nil
	}
}

// UploadImage accepts a multipart image and proxies it to Cloudinary.
func UploadImage(c *gin.Context) {
	imageFile, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer imageFile.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary configuration error"})
		return
	}

	result, err := cld.Upload.Upload(ctx, imageFile, uploader.UploadParams{
		Folder:         "savorsync/recipes",
		Transformation: "c_fill,w_800,h_600,q_auto",
	})
	if err != nil {
		log.Printf("[UploadImage] Upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": result.SecureURL,
		"publicId": result.PublicID,
		"message":  "Image uploaded successfully",
	})
}

// UploadProfileImage uploads the caller's avatar with a face-crop
// transformation. Type and size are checked before leaving the process.
func UploadProfileImage(c *gin.Context) {
	userID := c.GetString("userId")

	imageFile, header, err := c.Request.FormFile("profileImage")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer imageFile.Close()

	contentType := header.Header.Get("Content-Type")
	allowed := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	if !allowed[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed."})
		return
	}

	const maxSize = 5 * 1024 * 1024
	if header.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size too large. Maximum size is 5MB."})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary configuration error"})
		return
	}

	result, err := cld.Upload.Upload(ctx, imageFile, uploader.UploadParams{
		Folder:         "savorsync-profiles",
		PublicID:       "profile_" + userID + "_" + time.Now().Format("20060102150405"),
		Transformation: "c_fill,g_face,w_400,h_400,q_auto,f_auto",
	})
	if err != nil {
		log.Printf("[UploadProfileImage] Upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload profile image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": result.SecureURL,
		"publicId": result.PublicID,
		"message":  "Profile image uploaded successfully",
	})
}

// DeleteImage removes an uploaded image from Cloudinary by public id.
// The id is a wildcard path segment because Cloudinary ids contain
// folder slashes.
func DeleteImage(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No public ID provided"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary configuration error"})
		return
	}

	result, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		log.Printf("[DeleteImage] Destroy error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	if result.Result != "ok" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete image from Cloudinary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted successfully",
	})
}
