package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthEndpoint(t *testing.T) {
	router := SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestUnknownAPIRouteReturnsJSON404(t *testing.T) {
	router := SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Endpoint not found")
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	router := SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowUsesPut(t *testing.T) {
	router := SetupRouter()
	target := "/api/users/507f1f77bcf86cd799439011/follow"

	// PUT is the follow verb; it reaches the auth middleware
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, target, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// POST is not registered
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, target, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommunitySearchPath(t *testing.T) {
	router := SetupRouter()

	// An empty query short-circuits to an empty result set
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/community/search", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "users")
}

func TestUserReadsArePublic(t *testing.T) {
	router := SetupRouter()

	// A malformed id is rejected by the handler itself, proving the
	// request was not stopped by the auth middleware
	for _, path := range []string{
		"/api/users/not-an-id",
		"/api/users/not-an-id/followers",
		"/api/users/not-an-id/following",
		"/api/users/not-an-id/friends",
		"/api/users/not-an-id/posts",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
