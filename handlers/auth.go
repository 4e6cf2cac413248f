package handlers

import (
	"net/http"
	"strings"
	"time"

	userRepo "deskhub/database/repository/user"
	"deskhub/models"
	"deskhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// AuthHandler serves registration and login.
type AuthHandler struct {
	Users userRepo.UserRepository
}

func NewAuthHandler(users userRepo.UserRepository) *AuthHandler {
	return &AuthHandler{Users: users}
}

// RegisterHandler creates a user account and returns a fresh token.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to check existing account", err.Error())
		return
	}
	if existing != nil {
		utils.JSONError(c, http.StatusConflict, "an account with this email already exists", "")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password", err.Error())
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create account", err.Error())
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenLifetime)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}
	utils.GetLogger().Info("user registered", zap.String("userID", user.ID))
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// LoginHandler authenticates email/password credentials.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to look up account", err.Error())
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid email or password", "")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenLifetime)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}
