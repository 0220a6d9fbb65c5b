package middleware

import (
	"strings"

	"blog-api/helper"
	"blog-api/models"
	"blog-api/policy"
	"blog-api/services"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxRole     = "role"
	ctxActor    = "actor"
	ctxUser     = "user"
)

// Auth resolves bearer tokens to the stored user on every request, so group
// changes and deactivation take effect immediately.
type Auth struct {
	tokens services.TokenService
	users  services.AuthService
	http   *helper.HTTPHelper
}

func NewAuth(tokens services.TokenService, users services.AuthService, h *helper.HTTPHelper) *Auth {
	return &Auth{tokens: tokens, users: users, http: h}
}

// Required rejects requests without a valid access token.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			a.http.SendUnauthorizedError(c, "Authentication credentials were not provided.")
			return
		}
		if !a.authenticate(c, header) {
			return
		}
		c.Next()
	}
}

// Optional authenticates when a token is present and lets anonymous
// requests through. A bad token is still rejected.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" && !a.authenticate(c, header) {
			return
		}
		c.Next()
	}
}

func (a *Auth) authenticate(c *gin.Context, header string) bool {
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header || tokenString == "" {
		a.http.SendUnauthorizedError(c, "Bearer token required")
		return false
	}

	claims, err := a.tokens.Parse(tokenString, services.TokenAccess)
	if err != nil {
		a.http.SendAppError(c, err)
		return false
	}

	user, err := a.users.GetUserByID(claims.UserID)
	if err != nil {
		if _, ok := err.(models.ErrorNotFound); ok {
			a.http.SendUnauthorizedError(c, "User not found")
			return false
		}
		a.http.SendAppError(c, err)
		return false
	}
	if !user.IsActive {
		a.http.SendUnauthorizedError(c, "User is inactive")
		return false
	}

	c.Set(ctxUserID, user.ID)
	c.Set(ctxUsername, user.Username)
	c.Set(ctxRole, user.PrimaryGroup())
	c.Set(ctxUser, user)
	c.Set(ctxActor, policy.ActorFromUser(user))
	return true
}

// CurrentActor returns the authenticated actor or nil for anonymous requests.
func CurrentActor(c *gin.Context) *policy.Actor {
	if v, ok := c.Get(ctxActor); ok {
		if actor, ok := v.(*policy.Actor); ok {
			return actor
		}
	}
	return nil
}

func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
