package handlers

import (
	"net/http"

	"lifora/internal/middleware"
	"lifora/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	ProfilePicture string `json:"profilePicture"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	res, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Username:       req.Username,
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	h.startSession(c, res.User.ID)
	c.JSON(http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RenderError(c, err)
		return
	}
	h.startSession(c, res.User.ID)
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logrus.WithError(err).Warn("failed to clear session")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.auth.Me(c.Request.Context(), middleware.RequesterFrom(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profilePicture"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	profile, err := h.auth.UpdateProfile(c.Request.Context(), middleware.RequesterFrom(c), services.ProfileInput{
		Name:           req.Name,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) startSession(c *gin.Context, userID string) {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserID, userID)
	if err := session.Save(); err != nil {
		logrus.WithError(err).Warn("failed to save session")
	}
}
