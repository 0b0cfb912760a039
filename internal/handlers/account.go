package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"sipsafe/internal/auth"
	"sipsafe/internal/database"
	"sipsafe/internal/metrics"
	"sipsafe/internal/models"
	"sipsafe/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Signup handles new user registration
func Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	// Validate password strength
	if err := auth.ValidatePassword(req.Password); err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	hashedPass, err := auth.HashPassword(req.Password)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	user := models.User{
		Email:         normalizeEmail(req.Email),
		DisplayName:   req.DisplayName,
		HashedPass:    hashedPass,
		NotifyByEmail: true,
	}

	db := database.GetDB()
	if err := db.Create(&user).Error; err != nil {
		// The unique index on email is what makes add-participant-by-email
		// lookups unambiguous, so duplicates are rejected here.
		if strings.Contains(err.Error(), "duplicate key") {
			handleError(c, http.StatusConflict, "Email already in use", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	metrics.AccountsCreated.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	})
}

// Login handles user authentication and issues token cookies
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid login request", err)
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			handleError(c, http.StatusUnauthorized, "Invalid credentials", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Login attempt failed", err)
		return
	}

	if !auth.CheckPassword(user.HashedPass, req.Password) {
		handleError(c, http.StatusUnauthorized, "Invalid credentials",
			fmt.Errorf("password verification failed for user %s", user.ID))
		return
	}

	if err := auth.SetAuthCookies(c, &user); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to generate tokens", err)
		return
	}

	// Update last login time; failures are logged but don't fail the login
	if err := db.Model(&user).Update("last_login", time.Now()).Error; err != nil {
		log.Printf("Warning: Failed to update last login for %s: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
		},
	})
}

// RefreshToken issues a new access token from the refresh token cookie
func RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(auth.RefreshTokenCookieName)
	if err != nil {
		handleError(c, http.StatusUnauthorized, "Refresh token required", err)
		return
	}

	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		handleError(c, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}

	if claims.TokenType != auth.RefreshToken {
		handleError(c, http.StatusUnauthorized, "Invalid token type",
			fmt.Errorf("token type mismatch: expected refresh, got %s", claims.TokenType))
		return
	}

	// The refresh token must still match the account's token version,
	// otherwise a logout would not revoke it.
	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		handleError(c, http.StatusUnauthorized, "Account no longer exists", err)
		return
	}
	if claims.TokenVersion != user.TokenVersion {
		handleError(c, http.StatusUnauthorized, "Session expired, please log in again",
			fmt.Errorf("stale token version for user %s", user.ID))
		return
	}

	accessToken, accessExpiry, err := auth.GenerateToken(user.ID, auth.AccessToken, user.TokenVersion)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	secure := gin.Mode() != gin.DebugMode
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		auth.AccessTokenCookieName,
		accessToken,
		int(auth.AccessTokenExpiry.Seconds()),
		"/api",
		"",
		secure,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"user_id":              user.ID,
		"access_token_expires": accessExpiry,
	})
}

// Logout invalidates all of the user's tokens and clears cookies
func Logout(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)

	if userID != "" {
		db := database.GetDB()
		// Increment the token version to invalidate all existing tokens
		result := db.Model(&models.User{}).
			Where("id = ?", userID).
			Update("token_version", gorm.Expr("token_version + 1"))
		if result.Error != nil {
			log.Printf("Warning: Failed to bump token version for %s: %v", userID, result.Error)
		}
	}

	auth.ClearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// GetCurrentUser returns the currently authenticated user
func GetCurrentUser(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			handleError(c, http.StatusNotFound, "User not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"display_name":    user.DisplayName,
		"avatar_url":      user.AvatarURL,
		"notify_by_email": user.NotifyByEmail,
		"last_login":      user.LastLogin,
	})
}

// UpdateNotificationPrefs toggles reminder delivery for the account
func UpdateNotificationPrefs(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)

	var req models.NotificationPrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("notify_by_email", *req.NotifyByEmail).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update preferences", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notify_by_email": *req.NotifyByEmail})
}

// UploadAvatar stores a new profile picture for the authenticated user
func UploadAvatar(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		handleError(c, http.StatusBadRequest, "Avatar file required", err)
		return
	}
	defer file.Close()

	imageService, err := services.NewImageService()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Image uploads are not configured", err)
		return
	}

	url, err := imageService.UploadAvatar(c.Request.Context(), file, header.Filename, userID)
	if err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", url).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save avatar", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

// DeleteAvatar removes the authenticated user's profile picture
func DeleteAvatar(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)

	imageService, err := services.NewImageService()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Image uploads are not configured", err)
		return
	}

	if err := imageService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		log.Printf("Warning: Failed to delete avatar image for %s: %v", userID, err)
	}

	db := database.GetDB()
	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", "").Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to clear avatar", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "avatar removed"})
}
