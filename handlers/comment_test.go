package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateCommentInput(t *testing.T) {
	req := CommentRequest{Content: "Looks delicious!"}
	assert.Empty(t, ValidateCommentInput(&req))

	req = CommentRequest{Content: ""}
	assert.Len(t, ValidateCommentInput(&req), 1)

	req = CommentRequest{Content: "   "}
	assert.Len(t, ValidateCommentInput(&req), 1)

	req = CommentRequest{Content: strings.Repeat("a", 1001)}
	assert.Len(t, ValidateCommentInput(&req), 1)

	req = CommentRequest{Content: strings.Repeat("a", 1000)}
	assert.Empty(t, ValidateCommentInput(&req))

	// Bounds count characters, not bytes
	req = CommentRequest{Content: strings.Repeat("好", 1000)}
	assert.Empty(t, ValidateCommentInput(&req))

	req = CommentRequest{Content: strings.Repeat("好", 1001)}
	assert.Len(t, ValidateCommentInput(&req), 1)

	// A single character is enough
	req = CommentRequest{Content: "+"}
	assert.Empty(t, ValidateCommentInput(&req))
}

func TestValidateCommentInputTrims(t *testing.T) {
	req := CommentRequest{Content: "  nice recipe  "}
	assert.Empty(t, ValidateCommentInput(&req))
	assert.Equal(t, "nice recipe", req.Content)
}

func TestAddCommentRejectsMalformedPostID(t *testing.T) {
	c, w := testContext(http.MethodPost, "/api/posts/bad/comments", []byte(`{"content":"hello"}`))
	c.Params = gin.Params{{Key: "id", Value: "bad"}}
	c.Set("userId", primitive.NewObjectID().Hex())

	AddComment(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddCommentRejectsInvalidContent(t *testing.T) {
	c, w := testContext(http.MethodPost, "/api/posts/x/comments", []byte(`{"content":"   "}`))
	c.Params = gin.Params{{Key: "id", Value: primitive.NewObjectID().Hex()}}
	c.Set("userId", primitive.NewObjectID().Hex())

	AddComment(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteCommentRejectsMalformedCommentID(t *testing.T) {
	c, w := testContext(http.MethodDelete, "/api/posts/x/comments/y", nil)
	c.Params = gin.Params{
		{Key: "id", Value: primitive.NewObjectID().Hex()},
		{Key: "commentId", Value: "not-hex"},
	}
	c.Set("userId", primitive.NewObjectID().Hex())

	DeleteComment(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
