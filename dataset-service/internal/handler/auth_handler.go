package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/eaglebank/dataseed/dataset-service/internal/query"
	"github.com/eaglebank/dataseed/dataset-service/internal/repository"
	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/middleware"
	"github.com/eaglebank/dataseed/shared/models"
	"github.com/gin-gonic/gin"
)

// ProfileCommander defines the write-side operations used by AuthHandler.
type ProfileCommander interface {
	Register(context.Context, cqrs.RegisterProfileCommand) (*models.Profile, error)
}

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(context.Context, cqrs.LoginCommand) (string, error)
	RefreshToken(context.Context, cqrs.RefreshTokenCommand) (string, error)
}

// AuthHandler serves registration, login and token refresh.
type AuthHandler struct {
	commands ProfileCommander
	queries  AuthQuerier
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required,max=200"`
	Telephone string `json:"telephone" validate:"required,au_phone"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewAuthHandler(commands ProfileCommander, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	_, err := h.commands.Register(c.Request.Context(), cqrs.RegisterProfileCommand{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address:   req.Address,
		Telephone: req.Telephone,
	})
	if errors.Is(err, repository.ErrUsernameTaken) {
		middleware.RespondWithError(c, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "Registration successful"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.Login(c.Request.Context(), cqrs.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if errors.Is(err, query.ErrInvalidCredentials) {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.RefreshToken(c.Request.Context(), cqrs.RefreshTokenCommand{
		Token: req.Token,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}
