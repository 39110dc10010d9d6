package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quaverlabs/quaver/backend/internal/users"
)

type registerPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Timezone string `json:"timezone"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *httpHandler) handleRegister(c *gin.Context) {
	var request registerPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password required"})
		return
	}

	user, err := h.users.Register(request.Username, request.Password, request.Timezone)
	if errors.Is(err, users.ErrMissingFields) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password required"})
		return
	}
	if errors.Is(err, users.ErrUsernameTaken) {
		c.JSON(http.StatusConflict, gin.H{"message": "username already taken"})
		return
	}
	if err != nil {
		h.logger.Error("registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully", "redirect": "/dashboard"})
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request loginPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	user, err := h.users.Authenticate(request.Username, request.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		// Deliberately the same response for unknown user and wrong
		// password so usernames cannot be enumerated.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "redirect": "/dashboard"})
}

func (h *httpHandler) handleLogout(c *gin.Context) {
	c.SetCookie(h.sessions.CookieName(), "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *httpHandler) startSession(c *gin.Context, userID uint) error {
	token, err := h.sessions.IssueSessionToken(userID)
	if err != nil {
		return err
	}
	maxAge := int(h.sessions.SessionTTL().Seconds())
	c.SetCookie(h.sessions.CookieName(), token, maxAge, "/", "", false, true)
	return nil
}
