package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapi/internal/app"
	"todoapi/internal/transport/http/middleware"
	"todoapi/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	production  bool
}

// Presence only: credential policy beyond "all fields supplied" lives in
// the service, and login must answer any bad credential with the same 401.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=128"`
}

func NewAuthHandler(authService *app.AuthService, production bool) *AuthHandler {
	return &AuthHandler{authService: authService, production: production}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "please provide username, email, and password")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrUsernameExists), errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusBadRequest, "user already exists with this email or username")
		default:
			response.Internal(c, "register failed", err, h.production)
		}
		return
	}

	response.Created(c, gin.H{
		"id":       result.User.ID,
		"username": result.User.Username,
		"email":    result.User.Email,
		"token":    result.Token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "please provide email and password")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, "invalid credentials")
		default:
			response.Internal(c, "login failed", err, h.production)
		}
		return
	}

	response.OK(c, gin.H{
		"id":       result.User.ID,
		"username": result.User.Username,
		"email":    result.User.Email,
		"token":    result.Token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusNotFound, "user not found")
		return
	}
	response.OK(c, user)
}
