package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/roamstay/server/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestHandleError(t *testing.T) {
	errTeapot := errors.New("teapot")
	mappings := []ErrorMapping{
		{Err: errTeapot, Status: http.StatusTeapot, Code: "teapot", Message: "I'm a teapot"},
	}

	t.Run("mapped error uses its mapping", func(t *testing.T) {
		c, w := testContext()
		handled := HandleError(c, fmt.Errorf("wrapped: %w", errTeapot), mappings)

		assert.True(t, handled)
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Contains(t, w.Body.String(), "teapot")
	})

	t.Run("unmapped error is not handled", func(t *testing.T) {
		c, w := testContext()
		handled := HandleError(c, errors.New("other"), mappings)

		assert.False(t, handled)
		assert.Empty(t, w.Body.String())
	})
}

func TestHandleErrorWithDefault(t *testing.T) {
	t.Run("app error keeps its status and code", func(t *testing.T) {
		c, w := testContext()
		HandleErrorWithDefault(c, apperrors.Conflict("booking already confirmed"), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
		assert.Contains(t, w.Body.String(), "booking already confirmed")
	})

	t.Run("wrapped sentinel maps to its status", func(t *testing.T) {
		c, w := testContext()
		HandleErrorWithDefault(c, fmt.Errorf("lookup: %w", apperrors.ErrNotFound), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown error falls back to 500", func(t *testing.T) {
		c, w := testContext()
		HandleErrorWithDefault(c, errors.New("connection reset"), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}
