package response_test

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

	"github.com/aishumaj/express-messagely/internal/pkg/apperror"
	"github.com/aishumaj/express-messagely/internal/pkg/response"
)

func setupTestRouter(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", func(c *gin.Context) {
		c.Set(response.RequestIDKey, "req-42")
		c.Next()
	}, handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestError_SetsCorrectContentType(t *testing.T) {
	w := setupTestRouter(func(c *gin.Context) {
		response.Error(c, apperror.UnauthorizedError("Invalid credentials", ""))
	})

	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestError_FillsRequestIDAndInstance(t *testing.T) {
	w := setupTestRouter(func(c *gin.Context) {
		response.Error(c, apperror.NotFoundError("user"))
	})

	body := decodeProblem(t, w)
	assert.Equal(t, "req-42", body["request_id"])
	assert.Equal(t, "/test", body["instance"])
}

func TestErrorFromErr_AppErrorWrapped(t *testing.T) {
	w := setupTestRouter(func(c *gin.Context) {
		response.ErrorFromErr(c, fmt.Errorf("register: %w", apperror.ConflictError("Username already exists", "")))
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already exists", decodeProblem(t, w)["detail"])
}

func TestErrorFromErr_PlainErrorBecomesInternal(t *testing.T) {
	w := setupTestRouter(func(c *gin.Context) {
		response.ErrorFromErr(c, errors.New("connection reset"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, "Internal server error", body["title"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestNoContent_Returns204(t *testing.T) {
	w := setupTestRouter(func(c *gin.Context) {
		response.NoContent(c)
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSuccess_Returns200(t *testing.T) {
	w := setupTestRouter(func(c *gin.Context) {
		response.Success(c, map[string]string{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestCreated_Returns201(t *testing.T) {
	w := setupTestRouter(func(c *gin.Context) {
		response.Created(c, map[string]string{"token": "abc"})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "abc")
}
