package handlers

import (
	"net/http"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/middleware"
	"skillswap_backend/internal/services"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService  services.AuthService
	secureCookie bool
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes mounts /user/register, /user/login, /user/logout and /verifytoken.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	{
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.POST("/logout", h.Logout)
	}

	rg.GET("/verifytoken", h.RequireAuth, h.VerifyToken)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    profile,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, resp.AccessToken, int(resp.ExpiresIn), "/", "", h.secureCookie, true)

	logger.CtxInfo(c.Request.Context(), "User logged in", "user_id", resp.User.ID)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// VerifyToken runs behind the auth middleware, so reaching it means the token is valid.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"userId":   userID,
		"username": c.GetString(string(contextkeys.UsernameKey)),
	})
}
