package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/models/dto"
	"github.com/yigit/timetable/internal/pkg/apperrors"
	"github.com/yigit/timetable/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "timetable"})
}

func protectedRouter(jwt *auth.JWTService, roles ...models.RoleType) *gin.Engine {
	m := NewAuthMiddleware(jwt)
	r := gin.New()
	g := r.Group("", m.JWTAuth())
	if len(roles) > 0 {
		g.Use(m.RoleRequired(roles...))
	}
	g.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetInt64(ContextUserID), "role": c.GetString(ContextRoleType)})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt := newJWT()
	token, err := jwt.GenerateToken(&models.User{ID: 5, Email: "t@school.test", RoleType: models.RoleTeacher})
	require.NoError(t, err)
	r := protectedRouter(jwt)

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK},
		{"query token", "", "?token=" + token, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"bad signature", "Bearer " + token + "x", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				assert.False(t, decode(t, w).Success)
			}
		})
	}
}

func TestRoleRequired(t *testing.T) {
	jwt := newJWT()
	r := protectedRouter(jwt, models.RoleAdmin)

	for role, status := range map[models.RoleType]int{
		models.RoleAdmin:   http.StatusOK,
		models.RoleTeacher: http.StatusForbidden,
		models.RoleStudent: http.StatusForbidden,
	} {
		token, err := jwt.GenerateToken(&models.User{ID: 1, RoleType: role})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, role)
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError(nil, "bad"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid slot", apperrors.NewValidationError(apperrors.ErrInvalidSlot, "bad slot"), http.StatusBadRequest, dto.ErrorCodeInvalidSlot},
		{"no term", apperrors.NewValidationError(apperrors.ErrNoActiveTerm, "no term"), http.StatusBadRequest, dto.ErrorCodeNoActiveTerm},
		{"schedule conflict", apperrors.NewScheduleConflictError("clash", nil), http.StatusConflict, dto.ErrorCodeScheduleConflict},
		{"conflict", apperrors.NewConflictError("taken"), http.StatusConflict, dto.ErrorCodeConflict},
		{"not found", apperrors.NewNotFoundError(apperrors.ErrCourseNotFound, "no course"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"internal", apperrors.NewInternalError("Failed to save", errors.New("db down")), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
		{"raw", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorHidesCauseAndKeepsDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleAPIError(c, errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
	assert.Equal(t, "Internal server error", decode(t, w).Error.Message)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleAPIError(c, apperrors.NewScheduleConflictError("clash", map[string]interface{}{"messages": []string{"clash"}}))
	resp := decode(t, w)
	assert.Equal(t, "clash", resp.Error.Message)
	assert.Equal(t, map[string]interface{}{"messages": []interface{}{"clash"}}, resp.Error.Details)
}

func TestBindJSON(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var b body
		if !BindJSON(c, &b) {
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(b, ""))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", jsonBody(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "Name", resp.Error.Field)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"name":"x"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://school.test"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://school.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://school.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
