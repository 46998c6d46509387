package handlers

import (
	"net/http"

	"skillswap_backend/internal/services"
	"skillswap_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SkillTestHandler struct {
	*BaseHandler
	testService services.SkillTestService
}

func NewSkillTestHandler(base *BaseHandler, testService services.SkillTestService) *SkillTestHandler {
	return &SkillTestHandler{
		BaseHandler: base,
		testService: testService,
	}
}

func (h *SkillTestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tests := rg.Group("/tests")
	tests.Use(h.RequireAuth)
	{
		tests.GET("/available", h.ListAvailable)
		tests.GET("/start/:skill", h.Start)
		tests.POST("/submit", h.Submit)
		tests.GET("/history", h.History)
		tests.GET("/certificate/:certificateId", h.Certificate)
	}
}

func (h *SkillTestHandler) ListAvailable(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.testService.ListAvailable(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkillTestHandler) Start(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	resp, err := h.testService.Start(c.Request.Context(), c.Param("skill"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkillTestHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitTestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.testService.Submit(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkillTestHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.testService.History(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkillTestHandler) Certificate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	certificateID, ok := h.PathParam(c, "certificateId")
	if !ok {
		return
	}

	resp, err := h.testService.Certificate(c.Request.Context(), h.GetDB(c), userID, certificateID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
