package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"webchat/backend/internal/config"
	"webchat/backend/internal/models"
	"webchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Topics          []string `json:"topics"`
	PreferredTopics []string `json:"preferred_topics"`
}

// Register creates an account and immediately issues a token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username, email, and password are required"})
		return
	}
	if len(req.Username) < 3 || len(req.Username) > 20 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username must be between 3 and 20 characters"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters long"})
		return
	}

	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
		return
	}
	if _, err := h.Storage.GetUserByUsername(req.Username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User with this username already exists"})
		return
	}

	user := &models.User{
		Username:        req.Username,
		Email:           req.Email,
		Topics:          req.Topics,
		PreferredTopics: req.PreferredTopics,
		LastSeen:        time.Now(),
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}
	if err := h.Storage.CreateUser(user); err != nil {
		log.Printf("ERROR: Failed to create user %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	go func() {
		if err := h.Mailer.SendWelcome(user.Email, user.Username); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}()

	token, err := h.generateJWT(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	go h.Storage.SetUserPresence(user.ID, "online", time.Now())

	token, err := h.generateJWT(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Profile returns the authenticated user's account record.
func (h *Handler) Profile(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a short-lived reset token. The response never reveals
// whether the account exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	const genericReply = "If an account with that email exists, a password reset link has been sent."

	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": genericReply})
		return
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	resetToken := hex.EncodeToString(buf)
	expiry := time.Now().Add(config.ResetTokenTTL)

	user.ResetPasswordToken = resetToken
	user.ResetPasswordExpiry = &expiry
	if err := h.Storage.SaveUser(user); err != nil {
		log.Printf("ERROR: Failed to store reset token for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	go func() {
		if err := h.Mailer.SendPasswordReset(user.Email, resetToken); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", user.Email, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": genericReply})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword consumes a reset token and stores the new password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token and new password are required"})
		return
	}
	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters"})
		return
	}

	user, err := h.Storage.GetUserByResetToken(req.Token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	user.ResetPasswordToken = ""
	user.ResetPasswordExpiry = nil
	if err := h.Storage.SaveUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

// DeleteAccount removes the authenticated user's account.
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := h.Storage.DeleteUser(userID); err != nil {
		log.Printf("ERROR: Failed to delete user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during account deletion"})
		return
	}

	log.Printf("User account deleted: %s (%s)", user.Username, user.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted successfully",
		"deleted_user": gin.H{
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
