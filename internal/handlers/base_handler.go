package handlers

import (
	"strings"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/validator"
	"skillswap_backend/pkg/apperrors"
	"skillswap_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BaseHandler holds what every handler shares: request validation and the
// auth middleware protected groups are mounted behind.
type BaseHandler struct {
	validator   *validator.Validator
	RequireAuth gin.HandlerFunc
}

func NewBaseHandler(v *validator.Validator, requireAuth gin.HandlerFunc) *BaseHandler {
	return &BaseHandler{
		validator:   v,
		RequireAuth: requireAuth,
	}
}

// GetDB returns the handle placed by DBMiddleware. A missing handle is a wiring bug.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	if val, ok := c.Get(string(contextkeys.DBContextKey)); ok {
		if db, ok := val.(*gorm.DB); ok {
			return db
		}
	}
	logger.CtxError(c.Request.Context(), "db handle missing from gin context", "path", c.FullPath())
	panic("handlers: DBMiddleware is not installed")
}

// BindAndValidate_JSON decodes the body into obj and runs the validator.
// On failure the error response is already written.
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	return h.bind(c, obj, c.ShouldBindJSON, "Invalid request body")
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	return h.bind(c, obj, c.ShouldBindQuery, "Invalid query parameters")
}

func (h *BaseHandler) bind(c *gin.Context, obj interface{}, decode func(interface{}) error, what string) bool {
	ctx := c.Request.Context()

	if err := decode(obj); err != nil {
		logger.CtxWarn(ctx, what, "path", c.FullPath(), "error", err.Error())
		apperrors.HandleError(c, apperrors.NewBadRequestError(what+": "+err.Error()))
		return false
	}

	err := h.validator.Validate(obj)
	if err == nil {
		return true
	}
	if vErr, ok := err.(*validator.ValidationError); ok {
		logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.FullPath())
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
	} else {
		logger.CtxWithError(ctx, "Validator failure", err, "path", c.FullPath())
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
	return false
}

// PathParam returns the trimmed route parameter, rejecting blanks like
// "/chat/%20" that gin would otherwise pass through.
func (h *BaseHandler) PathParam(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{name: "This field is required"}))
		return "", false
	}
	return v, true
}

// HandleServiceError renders err; anything that is not an AppError becomes a 500.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		logger.CtxWithError(ctx, "Unhandled service error", err, "path", c.FullPath())
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(ctx, "Service failure", err, "path", c.FullPath())
	} else {
		logger.CtxWarn(ctx, "Request rejected",
			"code", appErr.Code,
			"domain", appErr.Domain,
			"path", c.FullPath(),
		)
	}
	apperrors.HandleError(c, appErr)
}

// GetAndAuthorizeUserID reads the id set by the auth middleware.
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(string(contextkeys.UserIDKey))
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "Protected route reached without a user", "path", c.FullPath())
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	return userID, true
}
