package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// endpoints is served by GET /api/ so clients can discover the surface.
var endpoints = []gin.H{
	{"path": "/api/register/", "methods": "POST", "description": "Create an account"},
	{"path": "/api/token/", "methods": "POST", "description": "Obtain access and refresh tokens"},
	{"path": "/api/login/", "methods": "POST", "description": "Alias of /api/token/"},
	{"path": "/api/token/refresh/", "methods": "POST", "description": "Exchange a refresh token for an access token"},
	{"path": "/api/deactivate/", "methods": "POST", "description": "Deactivate the current account"},
	{"path": "/api/me/", "methods": "GET", "description": "Current user with groups and profile"},
	{"path": "/api/profile/", "methods": "GET, PUT, PATCH", "description": "Own profile"},
	{"path": "/api/profile/{id}/", "methods": "GET, PUT, PATCH", "description": "Profile of a user"},
	{"path": "/api/articles/", "methods": "GET, POST", "description": "List or create articles"},
	{"path": "/api/articles/popular/", "methods": "GET", "description": "Articles by comment count"},
	{"path": "/api/articles/{id}/", "methods": "GET, PUT, PATCH, DELETE", "description": "Article detail"},
	{"path": "/api/articles/{id}/comments/", "methods": "GET, POST", "description": "Comments of an article"},
	{"path": "/api/comments/{id}/", "methods": "GET, PUT, PATCH, DELETE", "description": "Comment detail"},
	{"path": "/api/comments/{id}/reply/", "methods": "POST", "description": "Reply to a comment"},
	{"path": "/api/tags/", "methods": "GET, POST", "description": "List or create tags"},
	{"path": "/api/tags/{id}/", "methods": "GET", "description": "Tag detail"},
	{"path": "/api/users/", "methods": "GET", "description": "List accounts"},
	{"path": "/api/users/{id}/groups/", "methods": "POST", "description": "Add an account to a group"},
}

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":      "blog-api",
		"version":   "v1",
		"endpoints": endpoints,
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
