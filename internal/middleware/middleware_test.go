package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/auth"
	"github.com/gpai/backend/internal/pkg/gpa"
)

const (
	testSecret = "middleware-secret"
	testIssuer = "gpai.test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       testSecret,
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     testIssuer,
	})
}

func accessToken(t *testing.T, svc *auth.JWTService, role models.RoleType) (string, uuid.UUID) {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: "ada@example.com", RoleType: role}
	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	return pair.AccessToken, user.ID
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func protectedRouter(svc *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	m := NewAuthMiddleware(svc)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{m.JWTAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.GET("/private", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	svc := newJWT()
	token, userID := accessToken(t, svc, models.RoleStudent)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		UserID:   userID,
		Email:    "ada@example.com",
		RoleType: string(models.RoleStudent),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantErr  dto.ErrorCode
	}{
		{name: "bearer token", header: "Bearer " + token, wantCode: http.StatusOK},
		{name: "raw token", header: token, wantCode: http.StatusOK},
		{name: "query token", query: "?token=" + token, wantCode: http.StatusOK},
		{name: "missing header", wantCode: http.StatusUnauthorized, wantErr: dto.ErrorCodeUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantCode: http.StatusUnauthorized, wantErr: dto.ErrorCodeUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", wantCode: http.StatusUnauthorized, wantErr: dto.ErrorCodeInvalidToken},
		{name: "expired", header: "Bearer " + expired, wantCode: http.StatusUnauthorized, wantErr: dto.ErrorCodeExpiredToken},
	}

	r := protectedRouter(svc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr == "" {
				assert.Equal(t, userID.String(), w.Body.String())
				return
			}
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestRoleRequired(t *testing.T) {
	svc := newJWT()
	m := NewAuthMiddleware(svc)
	r := protectedRouter(svc, m.RoleRequired(models.RoleAdmin))

	studentToken, _ := accessToken(t, svc, models.RoleStudent)
	adminToken, adminID := accessToken(t, svc, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adminID.String(), w.Body.String())
}

func TestRoleRequiredWithoutAuth(t *testing.T) {
	m := NewAuthMiddleware(newJWT())
	r := gin.New()
	r.GET("/admin", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorDetailFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
		wantField  string
	}{
		{
			name:       "gpa out of range",
			err:        &gpa.Error{Kind: gpa.ErrOutOfRange, Message: "Invalid current GPA", Field: "current_gpa", Index: -1},
			wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeOutOfRange,
			wantMsg: "Invalid current GPA", wantField: "current_gpa",
		},
		{
			name:       "gpa invalid grade wrapped",
			err:        fmt.Errorf("forecast: %w", &gpa.Error{Kind: gpa.ErrInvalidGrade, Field: "planned_courses[0].expected_grade", Index: 0}),
			wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeInvalidGrade,
			wantMsg: "invalid grade", wantField: "planned_courses[0].expected_grade",
		},
		{
			name:       "gpa empty courses",
			err:        &gpa.Error{Kind: gpa.ErrEmptyCourses, Message: "At least one course is required", Index: -1},
			wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeEmptyCourses,
			wantMsg: "At least one course is required",
		},
		{
			name:       "validation message kept",
			err:        apperrors.NewValidationError("Token required"),
			wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidationFailed, wantMsg: "Token required",
		},
		{
			name:       "invalid email",
			err:        apperrors.NewCustomError(apperrors.ErrInvalidEmail, "Invalid email format"),
			wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeInvalidEmail,
			wantMsg: "Invalid email format", wantField: "email",
		},
		{
			name:       "result not found",
			err:        apperrors.ErrResultNotFound,
			wantStatus: http.StatusNotFound, wantCode: dto.ErrorCodeResourceNotFound, wantMsg: "Result not found",
		},
		{
			name:       "subscription not found",
			err:        apperrors.ErrSubscriptionNotFound,
			wantStatus: http.StatusNotFound, wantCode: dto.ErrorCodeResourceNotFound,
			wantMsg: "Email not found or already unsubscribed",
		},
		{
			name:       "already subscribed",
			err:        apperrors.ErrAlreadySubscribed,
			wantStatus: http.StatusConflict, wantCode: dto.ErrorCodeResourceAlreadyExists,
			wantMsg: "Email is already subscribed to newsletter",
		},
		{
			name:       "google token rejected",
			err:        apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid or expired Google token"),
			wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeInvalidCredentials,
			wantMsg: "Invalid or expired Google token",
		},
		{
			name:       "refresh token revoked",
			err:        apperrors.ErrTokenRevoked,
			wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeInvalidToken, wantMsg: "Token revoked",
		},
		{
			name:       "forbidden",
			err:        apperrors.NewForbiddenError("Admins only"),
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden, wantMsg: "Admins only",
		},
		{
			name:       "unavailable",
			err:        apperrors.NewCustomError(apperrors.ErrUnavailable, "Academic advisor is not configured"),
			wantStatus: http.StatusServiceUnavailable, wantCode: dto.ErrorCodeServiceUnavailable,
			wantMsg: "Academic advisor is not configured",
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError, wantCode: dto.ErrorCodeInternalServer,
			wantMsg: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := ErrorDetailFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.Equal(t, tt.wantMsg, detail.Message)
			assert.Equal(t, tt.wantField, detail.Field)
		})
	}
}

func TestHandleAPIErrorWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleAPIError(c, apperrors.ErrResultNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Result not found", resp.Message)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, resp.Error.Code)
	assert.False(t, resp.Timestamp.IsZero())
}

type bindTarget struct {
	Question string `json:"question" binding:"required,max=5"`
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if !BindJSON(c, &req) {
			return
		}
		c.String(http.StatusOK, req.Question)
	})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "ok", body: `{"question":"why"}`, wantCode: http.StatusOK},
		{name: "malformed", body: `{"question":`, wantCode: http.StatusBadRequest, wantMsg: "Invalid request format"},
		{name: "missing", body: `{}`, wantCode: http.StatusBadRequest, wantMsg: "question is required"},
		{name: "too long", body: `{"question":"toolong"}`, wantCode: http.StatusBadRequest, wantMsg: "question must be at most 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(tt.body)))
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantMsg != "" {
				resp := decodeError(t, w)
				assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
		})
	}
}

func TestRecoveryAndRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeInternalServer, decodeError(t, w).Error.Code)
	assert.Contains(t, buf.String(), `"panic":"kaboom"`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
