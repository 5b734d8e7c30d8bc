package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/omniscribe/internal/domains/user"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

// AuthHandler serves account registration, login and token introspection.
type AuthHandler struct {
	users  user.UserService
	logger *Logger.Logger
}

func NewAuthHandler(users user.UserService, logger *Logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

// Register creates an account and signs the caller in
// @Summary Register an account
// @Description Create an account from email and password and return a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body user.Credentials true "Email and password"
// @Success 201 {object} user.Session
// @Failure 400 {object} ErrorResponse "Invalid JSON, email or password"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body.", Details: err.Error()})
		return
	}

	session, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "registration", err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Login exchanges credentials for a bearer token
// @Summary Log in
// @Description Authenticate with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body user.Credentials true "Email and password"
// @Success 200 {object} user.Session
// @Failure 400 {object} ErrorResponse "Missing email or password"
// @Failure 401 {object} ErrorResponse "Invalid email or password"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body.", Details: err.Error()})
		return
	}

	session, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me returns the account named by the bearer token
// @Summary Current account
// @Description Identity carried by the bearer token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	info, ok := ExtractUserInfo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MeResponse{User: user.Account{ID: info.UserID, Email: info.Email}})
}

func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Valid email is required."})
	case errors.Is(err, user.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password must be at least 8 characters."})
	case errors.Is(err, user.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email and password are required."})
	case errors.Is(err, user.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "An account with this email already exists."})
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password."})
	default:
		h.logger.Errorf("%s error: %v", op, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// RegisterAuthRoutes mounts the account endpoints under /auth.
func (h *AuthHandler) RegisterAuthRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", AuthMiddleware(h.users, h.logger), h.Me)
	}
}
