package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/onlinebookstore/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	w := perform(func(c *gin.Context) { Success(c, gin.H{"id": 1}) })

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, resp.Data)
}

func TestErrorMapsStatus(t *testing.T) {
	w := perform(func(c *gin.Context) {
		Error(c, apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在"))
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeOrderNotFound, resp.Code)
	assert.Equal(t, "订单不存在", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestErrorHidesInternalCause(t *testing.T) {
	w := perform(func(c *gin.Context) {
		Error(c, errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
	assert.NotContains(t, resp.Message, "10.0.0.3")
}

func TestNewPageData(t *testing.T) {
	page := NewPageData([]int{1, 2}, 41, 3, 20)
	assert.Equal(t, 3, page.TotalPages)

	empty := NewPageData([]int{}, 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
}
