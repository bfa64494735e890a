package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"taskvault/internal/middleware"
	"taskvault/internal/services"
	"taskvault/internal/session"
	"taskvault/internal/storage"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	storage   storage.Storage
	sessions  *session.Store
	passwords *services.PasswordService

	cookieName   string
	cookieTTL    time.Duration
	secureCookie bool
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1"`
	Password string `json:"password" binding:"required,min=1"`
}

func NewAuthHandler(st storage.Storage, sessions *session.Store, passwords *services.PasswordService, cookieName string, cookieTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		storage:      st,
		sessions:     sessions,
		passwords:    passwords,
		cookieName:   cookieName,
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sid string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, sid, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
}

// Register creates a user, opens a session for it and returns the user
// without its password digest.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": formatValidationError(err)})
		return
	}

	existing, err := h.storage.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		log.Printf("failed to look up username: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		return
	}

	digest, err := h.passwords.Hash(req.Password)
	if err != nil {
		log.Printf("failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	user, err := h.storage.CreateUser(c.Request.Context(), req.Username, digest)
	if err != nil {
		// Losing the race to a concurrent registration lands here.
		if errors.Is(err, storage.ErrDuplicateUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
			return
		}
		log.Printf("failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	sid, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	h.setSessionCookie(c, sid)
	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and opens a session. Unknown usernames and
// wrong passwords are deliberately indistinguishable.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": formatValidationError(err)})
		return
	}

	user, err := h.storage.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		log.Printf("failed to look up username: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to login"})
		return
	}
	if user == nil || !h.passwords.Verify(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	sid, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to login"})
		return
	}

	h.setSessionCookie(c, sid)
	c.JSON(http.StatusOK, user)
}

// Logout destroys the session server-side and expires the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := c.GetString(middleware.ContextSessionID)
	if err := h.sessions.Destroy(c.Request.Context(), sid); err != nil {
		log.Printf("failed to destroy session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to logout"})
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// CurrentUser returns the authenticated user, without its password digest.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	user, err := h.storage.GetUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("failed to fetch user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
