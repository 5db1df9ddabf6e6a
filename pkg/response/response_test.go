package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yoga-nditya/ALO-MONTIR-API/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestOK(t *testing.T) {
	c, w := setupContext(t)

	OK(c, map[string]string{"order_id": "TOPUP-1-1-aa"})

	assert.Equal(t, http.StatusOK, w.Code)

	var body SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RequestID)
	assert.NotEmpty(t, body.Timestamp)
	assert.Empty(t, body.Message)
}

func TestOKMessage(t *testing.T) {
	c, w := setupContext(t)

	OKMessage(c, "Already processed", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Already processed", body.Message)
}

func TestCreated(t *testing.T) {
	c, w := setupContext(t)

	Created(c, map[string]int{"amount": 50000})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestError_AppError(t *testing.T) {
	c, w := setupContext(t)

	Error(c, apperror.ErrInvalidSignature())

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SEC_001", body.ErrorCode)
	assert.NotEmpty(t, body.RequestID)
}

func TestError_WrappedAppError(t *testing.T) {
	c, w := setupContext(t)

	wrapped := apperror.ErrNotFound("Top up")
	Error(c, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "TOP_001", body.ErrorCode)
}

func TestError_UnknownError(t *testing.T) {
	c, w := setupContext(t)

	Error(c, errors.New("database exploded"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SYS_001", body.ErrorCode)
	// Internal details must never leak to the client
	assert.NotContains(t, body.Message, "exploded")
}

func TestGetRequestID_FromContext(t *testing.T) {
	c, w := setupContext(t)
	c.Set("request_id", "req-123")

	OK(c, nil)

	var body SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-123", body.RequestID)
}
