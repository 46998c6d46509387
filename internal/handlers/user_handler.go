package handlers

import (
	"net/http"

	"skillswap_backend/internal/services"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the /user group: profile, skill videos, tokens, ratings and notifications.
type UserHandler struct {
	*BaseHandler
	userService         services.UserService
	tokenService        services.TokenService
	ratingService       services.RatingService
	notificationService services.NotificationService
}

func NewUserHandler(
	base *BaseHandler,
	userService services.UserService,
	tokenService services.TokenService,
	ratingService services.RatingService,
	notificationService services.NotificationService,
) *UserHandler {
	return &UserHandler{
		BaseHandler:         base,
		userService:         userService,
		tokenService:        tokenService,
		ratingService:       ratingService,
		notificationService: notificationService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public
	rg.GET("/user/video-ratings/:username/:skill", h.GetVideoRatings)

	user := rg.Group("/user")
	user.Use(h.RequireAuth)
	{
		user.GET("/profile", h.GetProfile)
		user.PUT("/profile-update", h.UpdateProfile)
		user.PUT("/skills-update", h.UpdateSkills)
		user.PUT("/interests-update", h.UpdateInterests)
		user.GET("/matches", h.GetMatches)

		user.GET("/notifications", h.GetNotifications)
		user.PUT("/notifications/read", h.MarkNotificationsRead)

		user.POST("/save-skill-video-url", h.SaveSkillVideo)
		user.DELETE("/delete-skill-video", h.DeleteSkillVideo)
		user.POST("/upload-skill-video", h.UploadSkillVideo)

		user.GET("/tokens", h.GetTokens)
		user.POST("/watch-video", h.WatchVideo)

		user.POST("/rate-video", h.RateVideo)
		user.GET("/all-video-ratings", h.GetAllVideoRatings)
	}
}

// --- Profile ---

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateSkills(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSkillsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateSkills(c.Request.Context(), h.GetDB(c), userID, req.Skills)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateInterests(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateInterestsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateInterests(c.Request.Context(), h.GetDB(c), userID, req.Interests)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetMatches(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	matches, err := h.userService.GetMatches(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// --- Notifications ---

func (h *UserHandler) GetNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	list, err := h.notificationService.GetUserNotifications(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) MarkNotificationsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// --- Skill videos ---

func (h *UserHandler) SaveSkillVideo(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SaveVideoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	videos, err := h.userService.SaveSkillVideo(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Video URL saved successfully",
		"skillVideos": videos,
	})
}

func (h *UserHandler) DeleteSkillVideo(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteVideoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	videos, err := h.userService.DeleteSkillVideo(c.Request.Context(), h.GetDB(c), userID, req.Skill)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Video deleted successfully",
		"skillVideos": videos,
	})
}

// UploadSkillVideo is kept for client compatibility; videos are external URLs.
func (h *UserHandler) UploadSkillVideo(c *gin.Context) {
	apperrors.HandleError(c, apperrors.ErrUploadNotImplemented)
}

// --- Tokens ---

func (h *UserHandler) GetTokens(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	balance, err := h.tokenService.GetBalance(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *UserHandler) WatchVideo(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.WatchVideoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.tokenService.RecordVideoView(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Ratings ---

func (h *UserHandler) RateVideo(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RateVideoRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.ratingService.Rate(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetVideoRatings(c *gin.Context) {
	resp, err := h.ratingService.GetRatings(c.Request.Context(), h.GetDB(c), c.Param("username"), c.Param("skill"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetAllVideoRatings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	summary, err := h.ratingService.GetAllRatingsForOwner(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
