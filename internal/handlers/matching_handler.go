package handlers

import (
	"net/http"

	"skillswap_backend/internal/services"
	"skillswap_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MatchingHandler struct {
	*BaseHandler
	matchingService services.MatchingService
}

func NewMatchingHandler(base *BaseHandler, matchingService services.MatchingService) *MatchingHandler {
	return &MatchingHandler{
		BaseHandler:     base,
		matchingService: matchingService,
	}
}

func (h *MatchingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	swipe := rg.Group("/swipe")
	swipe.Use(h.RequireAuth)
	{
		swipe.GET("/candidates", h.GetCandidates)
		swipe.POST("/like", h.Like)
		swipe.POST("/reject", h.Reject)
	}
}

func (h *MatchingHandler) GetCandidates(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var q dto.CandidatesQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	candidates, err := h.matchingService.GetCandidates(c.Request.Context(), h.GetDB(c), userID, q.Limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

func (h *MatchingHandler) Like(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SwipeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.matchingService.Like(c.Request.Context(), h.GetDB(c), userID, req.Username)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MatchingHandler) Reject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SwipeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.matchingService.Reject(c.Request.Context(), h.GetDB(c), userID, req.Username); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User rejected"})
}
