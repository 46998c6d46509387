package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler renders errors for gin. With Debug off, internal causes never leave the server.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}
	if appErr.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "server error", "error", appErr.Unwrap())
		switch {
		case !h.Debug:
			appErr = appErr.WithDetails(nil)
		case appErr.Err != nil && appErr.Details == nil:
			appErr = appErr.WithDetails(appErr.Err.Error())
		}
	}
	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

var defaultHandler = &GinErrorHandler{}

// SetDebug toggles detail rendering for 5xx responses; called once from app wiring.
func SetDebug(debug bool) {
	defaultHandler.Debug = debug
}

func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}
