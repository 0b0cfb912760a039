package auth

import (
	"log"
	"net/http"

	"sipsafe/internal/database"
	"sipsafe/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetAuthCookies issues access and refresh token cookies for the user
func SetAuthCookies(c *gin.Context, user *models.User) error {
	accessToken, _, err := GenerateToken(user.ID, AccessToken, user.TokenVersion)
	if err != nil {
		return err
	}

	refreshToken, _, err := GenerateToken(user.ID, RefreshToken, user.TokenVersion)
	if err != nil {
		return err
	}

	secure := gin.Mode() != gin.DebugMode
	c.SetSameSite(http.SameSiteStrictMode)

	c.SetCookie(
		AccessTokenCookieName,
		accessToken,
		int(AccessTokenExpiry.Seconds()),
		"/api",
		"",
		secure,
		true, // HttpOnly
	)

	c.SetCookie(
		RefreshTokenCookieName,
		refreshToken,
		int(RefreshTokenExpiry.Seconds()),
		"/auth/refresh",
		"",
		secure,
		true, // HttpOnly
	)

	return nil
}

// ClearAuthCookies removes both token cookies
func ClearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookieName, "", -1, "/api", "", false, true)
	c.SetCookie(RefreshTokenCookieName, "", -1, "/auth/refresh", "", false, true)
}

// GetUserIDFromContext returns the authenticated user's ID, or "" when
// the request is unauthenticated
func GetUserIDFromContext(c *gin.Context) string {
	return c.GetString("user_id")
}

// AuthMiddleware validates the access token cookie and loads the account.
// The token's version must match the account's current version so that
// logout invalidates every previously issued token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(AccessTokenCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session, please log in again"})
			c.Abort()
			return
		}

		if claims.TokenType != AccessToken {
			log.Printf("Error: Token type mismatch: expected access, got %s", claims.TokenType)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token type"})
			c.Abort()
			return
		}

		db := database.GetDB()
		var user models.User
		if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			} else {
				log.Printf("Error: Failed to load account for token: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify session"})
			}
			c.Abort()
			return
		}

		if claims.TokenVersion != user.TokenVersion {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			c.Abort()
			return
		}

		// Store user info in context for handlers to use
		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("display_name", user.DisplayName)

		c.Next()
	}
}
