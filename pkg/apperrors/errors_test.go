package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsKeepsSentinelIntact(t *testing.T) {
	detailed := ErrInsufficientTokens.WithDetails(map[string]int{"balance": 4, "required": 5})

	assert.Nil(t, ErrInsufficientTokens.Details)
	assert.True(t, errors.Is(detailed, ErrInsufficientTokens))
	assert.False(t, errors.Is(detailed, ErrSelfViewRejected))

	wrapped := fmt.Errorf("watch: %w", detailed)
	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientTokens, appErr.Code)
}

func TestJSONHidesCause(t *testing.T) {
	raw, err := json.Marshal(InternalError(errors.New("db down")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"INTERNAL_ERROR","domain":"system","message":"Internal server error"}`, string(raw))
}

func render(t *testing.T, debug bool, err error) (int, map[string]map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	h := &GinErrorHandler{Debug: debug}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleGinError(c, err)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleGinError(t *testing.T) {
	code, body := render(t, false, ErrChatNotFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["error"]["code"])
	assert.Equal(t, "chat", body["error"]["domain"])

	code, body = render(t, false, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, body["error"], "details")

	_, body = render(t, true, errors.New("boom"))
	assert.Equal(t, "boom", body["error"]["details"])
}
