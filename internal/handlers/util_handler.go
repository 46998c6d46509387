package handlers

import (
	"net/http"

	"skillswap_backend/internal/services"
	"skillswap_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UtilHandler serves the skill catalog, public profiles and the help assistant.
type UtilHandler struct {
	*BaseHandler
	userService      services.UserService
	assistantService services.AssistantService
}

func NewUtilHandler(base *BaseHandler, userService services.UserService, assistantService services.AssistantService) *UtilHandler {
	return &UtilHandler{
		BaseHandler:      base,
		userService:      userService,
		assistantService: assistantService,
	}
}

func (h *UtilHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/skills", h.ListSkills)
	rg.GET("/users/:username", h.RequireAuth, h.GetPublicProfile)

	ai := rg.Group("/ai-chat")
	{
		ai.POST("", h.AssistantReply)
		ai.POST("/clear", h.AssistantClear)
	}
}

func (h *UtilHandler) ListSkills(c *gin.Context) {
	skills, err := h.userService.ListSkills(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (h *UtilHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), h.GetDB(c), c.Param("username"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UtilHandler) AssistantReply(c *gin.Context) {
	var req dto.AssistantRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, dto.AssistantResponse{
		Reply: h.assistantService.Reply(c.Request.Context(), req.Message),
	})
}

// AssistantClear exists for client compatibility; replies are stateless.
func (h *UtilHandler) AssistantClear(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Conversation cleared"})
}
