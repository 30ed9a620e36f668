package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailCarriesCodeMessageAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.DELETE("/classes/:id", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrClassNotFound)
	})

	req := httptest.NewRequest(http.MethodDelete, "/classes/9", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrClassNotFound, body.Error.Code)
	assert.Equal(t, "Class not found.", body.Error.Message)
	assert.Equal(t, "req-123", body.Metadata.RequestID)
	assert.Nil(t, body.Data)
}

func TestSuccessGeneratesRequestIDWithoutMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) {
		OK(c, gin.H{"count": 3})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	var body struct {
		Data     map[string]int `json:"data"`
		Error    *ErrorBody     `json:"error"`
		Metadata Metadata       `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data["count"])
	assert.Nil(t, body.Error)
	assert.NotEmpty(t, body.Metadata.RequestID)
}

func TestGetMessageUnknownCode(t *testing.T) {
	assert.Equal(t, "Unexpected error.", GetMessage(ErrCode("NOPE")))
	assert.Equal(t, "Failed to save attendance.", GetMessage(ErrAttendanceSaveFailed))
}

func TestCreatedAnswers201WithData(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.POST("/classes", func(c *gin.Context) {
		Created(c, gin.H{"id": 4})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/classes", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data     map[string]int `json:"data"`
		Error    *ErrorBody     `json:"error"`
		Metadata Metadata       `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Data["id"])
	assert.Nil(t, body.Error)
	assert.NotEmpty(t, body.Metadata.Timestamp)
}
