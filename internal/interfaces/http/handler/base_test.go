package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/vereinhub/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, userID uuid.UUID, roles ...string) {
	c.Set("jwt_user_id", userID.String())
	c.Set("jwt_username", "testuser")
	c.Set("jwt_roles", roles)
}

// respond runs fn against a fresh test context and decodes the body
func respond(t *testing.T, fn func(*BaseHandler, *gin.Context)) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fn(&BaseHandler{}, c)
	// The engine normally flushes a pending status after handlers return;
	// CreateTestContext bypasses the engine, so flush it here.
	c.Writer.WriteHeaderNow()

	var resp dto.Response
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestGetRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, getRequestID(c), "no source set")

	c.Request.Header.Set(RequestIDKey, "from-header")
	assert.Equal(t, "from-header", getRequestID(c))

	// A value stored by the middleware wins over the raw header
	c.Set(RequestIDKey, "from-context")
	assert.Equal(t, "from-context", getRequestID(c))
}

func TestBaseHandler_SuccessResponses(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.Success(c, map[string]string{"status": "ok"})
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("SuccessWithMeta carries pagination", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.SuccessWithMeta(c, []string{"a", "b"}, 100, 1, 10)
		})
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(100), resp.Meta.Total)
	})

	t.Run("Created", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.Created(c, map[string]string{"id": "123"})
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("NoContent writes an empty body", func(t *testing.T) {
		w, _ := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.NoContent(c)
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})
}

func TestBaseHandler_ErrorResponses(t *testing.T) {
	cases := []struct {
		fn       func(*BaseHandler, *gin.Context)
		status   int
		code     string
	}{
		{func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "gone") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{func(h *BaseHandler, c *gin.Context) { h.Unauthorized(c, "who") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{func(h *BaseHandler, c *gin.Context) { h.Forbidden(c, "no") }, http.StatusForbidden, dto.ErrCodeForbidden},
		{func(h *BaseHandler, c *gin.Context) { h.Conflict(c, "clash") }, http.StatusConflict, dto.ErrCodeConflict},
		{func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
		{func(h *BaseHandler, c *gin.Context) { h.TooManyRequests(c, "slow down") }, http.StatusTooManyRequests, dto.ErrCodeRateLimited},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w, resp := respond(t, tc.fn)
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestBaseHandler_ErrorCarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(RequestIDKey, "req-123")

	(&BaseHandler{}).BadRequest(c, "bad")

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestBaseHandler_ErrorWithCode(t *testing.T) {
	// Workflow violations map to 422
	w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
		h.ErrorWithCode(c, dto.CodeInvalidTransition, "Transition not allowed")
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.CodeInvalidTransition, resp.Error.Code)
}

func TestBaseHandler_UnprocessableEntity(t *testing.T) {
	w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
		h.UnprocessableEntity(c, dto.CodeInvalidTargetUser, "Reassignment target must be an active user")
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.CodeInvalidTargetUser, resp.Error.Code)
}

func TestBaseHandler_ValidationError(t *testing.T) {
	w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
		h.ValidationError(c, []dto.ValidationDetail{
			{Field: "email", Message: "Invalid format"},
			{Field: "applicant_name", Message: "Required"},
		})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
}

func TestBaseHandler_HandleError_DomainCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{shared.ErrInvalidState, http.StatusConflict, dto.ErrCodeConflict},
		{shared.ErrConcurrencyConflict, http.StatusConflict, dto.CodeConcurrentModification},
		{shared.ErrInvalidTransition, http.StatusUnprocessableEntity, dto.CodeInvalidTransition},
		{shared.ErrRequestClosed, http.StatusConflict, dto.CodeRequestClosed},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
				h.HandleError(c, tc.err)
			})
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}

	t.Run("unknown errors do not leak details", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.HandleError(c, assert.AnError)
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})

	t.Run("structured details pass through", func(t *testing.T) {
		blockers := map[string]any{"posts": 2, "tasks": 1}
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.HandleError(c, shared.NewDomainErrorWithDetails("HAS_OWNED_CONTENT", "User still owns content", blockers))
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.CodeHasOwnedContent, resp.Error.Code)
		assert.NotNil(t, resp.Error.Details)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	t.Run("nil error writes nothing", func(t *testing.T) {
		w, _ := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.HandleError(c, nil)
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("domain error maps to its status", func(t *testing.T) {
		w, _ := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.HandleError(c, shared.ErrNotFound)
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("plain error becomes 500", func(t *testing.T) {
		w, _ := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.HandleError(c, assert.AnError)
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("wrapped domain error is unwrapped", func(t *testing.T) {
		w, resp := respond(t, func(h *BaseHandler, c *gin.Context) {
			h.HandleError(c, fmt.Errorf("loading request: %w", shared.ErrNotFound))
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}
