package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/services"
	"github.com/gpai/backend/internal/middleware"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/gpa"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLogger = zerolog.Nop()

// withUser stands in for JWTAuth
func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// --- fakes ---

type fakeAuthService struct {
	loginErr  error
	gotToken  string
	loggedOut []uuid.UUID
}

func (f *fakeAuthService) LoginWithGoogle(_ context.Context, idToken string) (*dto.AuthResponse, error) {
	f.gotToken = idToken
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{AccessToken: "access", TokenType: "Bearer", ExpiresIn: 3600, RefreshToken: "refresh"},
		User:  &dto.UserResponse{ID: uuid.NewString(), Email: "ada@example.com", Name: "Ada"},
	}, nil
}

func (f *fakeAuthService) RefreshToken(_ context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken != "refresh" {
		return nil, apperrors.ErrTokenNotFound
	}
	return &dto.TokenResponse{AccessToken: "access-2", TokenType: "Bearer"}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, refreshToken string) error {
	if refreshToken != "refresh" {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

func (f *fakeAuthService) LogoutAll(_ context.Context, userID uuid.UUID) error {
	f.loggedOut = append(f.loggedOut, userID)
	return nil
}

func (f *fakeAuthService) CleanupExpiredTokens(context.Context) (int64, error) { return 0, nil }

type fakeResultService struct {
	results map[uuid.UUID]*models.Result
}

func newFakeResultService() *fakeResultService {
	return &fakeResultService{results: map[uuid.UUID]*models.Result{}}
}

func (f *fakeResultService) CreateResult(_ context.Context, userID uuid.UUID, req *dto.CreateResultRequest) (*models.Result, error) {
	r, err := services.BuildResult(userID, req)
	if err != nil {
		return nil, err
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	f.results[r.ID] = r
	return r, nil
}

func (f *fakeResultService) GetResult(_ context.Context, userID, resultID uuid.UUID) (*models.Result, error) {
	r, ok := f.results[resultID]
	if !ok || r.UserID != userID {
		return nil, apperrors.ErrResultNotFound
	}
	return r, nil
}

func (f *fakeResultService) ListResults(_ context.Context, userID uuid.UUID, _, _ int) ([]*models.Result, int64, error) {
	var out []*models.Result
	for _, r := range f.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeResultService) DeleteResult(ctx context.Context, userID, resultID uuid.UUID) error {
	if _, err := f.GetResult(ctx, userID, resultID); err != nil {
		return err
	}
	delete(f.results, resultID)
	return nil
}

func (f *fakeResultService) GetSummary(ctx context.Context, userID uuid.UUID) (gpa.AcademicSummary, error) {
	results, _, _ := f.ListResults(ctx, userID, 1, 10)
	return gpa.Summarize(models.HistoricalResults(results)), nil
}

func (f *fakeResultService) ExportResults(_ context.Context, _ uuid.UUID, w io.Writer) error {
	_, err := w.Write([]byte("PK-fake-workbook"))
	return err
}

type fakeNewsletterService struct {
	subscribed map[string]bool
}

func (f *fakeNewsletterService) Subscribe(_ context.Context, email, source string) (*models.NewsletterSubscriber, error) {
	if email == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidEmail, "Email is required")
	}
	if f.subscribed[email] {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadySubscribed, "Email is already subscribed to newsletter")
	}
	f.subscribed[email] = true
	if source == "" {
		source = models.DefaultSubscriberSource
	}
	return &models.NewsletterSubscriber{ID: uuid.New(), Email: email, Source: source, IsActive: true, SubscribedAt: time.Now()}, nil
}

func (f *fakeNewsletterService) Unsubscribe(_ context.Context, email string) error {
	if !f.subscribed[email] {
		return apperrors.NewCustomError(apperrors.ErrSubscriptionNotFound, "Email not found or already unsubscribed")
	}
	delete(f.subscribed, email)
	return nil
}

func (f *fakeNewsletterService) GetActiveSubscribers(_ context.Context, page, limit int) (*dto.SubscriberListResponse, error) {
	return &dto.SubscriberListResponse{Subscribers: []*models.NewsletterSubscriber{}, Total: int64(len(f.subscribed)), Page: page, TotalPages: limit}, nil
}

func (f *fakeNewsletterService) GetStats(context.Context) (*models.SubscriptionStats, error) {
	n := int64(len(f.subscribed))
	return &models.SubscriptionStats{Total: n, Active: n}, nil
}

func (f *fakeNewsletterService) Wait() {}

type fakeAdvisorService struct {
	err error
}

func (f *fakeAdvisorService) Ask(_ context.Context, _ uuid.UUID, question string) (*dto.AdvisorResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AdvisorResponse{Answer: "Keep going: " + question, Model: "fake"}, nil
}

// --- auth ---

func authRouter(svc services.AuthService) *gin.Engine {
	c := NewAuthController(svc, testLogger)
	r := gin.New()
	r.POST("/auth/google", c.GoogleLogin)
	r.POST("/auth/refresh", c.RefreshToken)
	r.POST("/auth/logout", c.Logout)
	return r
}

func TestGoogleLogin(t *testing.T) {
	svc := &fakeAuthService{}
	r := authRouter(svc)

	w := doJSON(r, http.MethodPost, "/auth/google", `{"token":"google-id-token"}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "User authenticated successfully", env.Message)
	assert.Equal(t, "google-id-token", svc.gotToken)

	var data dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "access", data.Token.AccessToken)
	assert.Equal(t, "ada@example.com", data.User.Email)
}

func TestGoogleLoginErrors(t *testing.T) {
	svc := &fakeAuthService{loginErr: apperrors.NewValidationError("Token required")}
	w := doJSON(authRouter(svc), http.MethodPost, "/auth/google", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Token required", decode(t, w).Message)

	svc = &fakeAuthService{loginErr: apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid or expired Google token")}
	w = doJSON(authRouter(svc), http.MethodPost, "/auth/google", `{"token":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid or expired Google token", env.Message)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, env.Error.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	r := authRouter(&fakeAuthService{})

	w := doJSON(r, http.MethodPost, "/auth/refresh", `{"refreshToken":"refresh"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/refresh", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/refresh", `{"refreshToken":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeTokenNotFound, decode(t, w).Error.Code)

	w = doJSON(r, http.MethodPost, "/auth/logout", `{"refreshToken":"refresh"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode(t, w).Message)
}

func TestLogoutAll(t *testing.T) {
	svc := &fakeAuthService{}
	c := NewAuthController(svc, testLogger)
	userID := uuid.New()

	r := gin.New()
	r.POST("/auth/logout-all", withUser(userID), c.LogoutAll)
	w := doJSON(r, http.MethodPost, "/auth/logout-all", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{userID}, svc.loggedOut)

	r = gin.New()
	r.POST("/auth/logout-all", c.LogoutAll)
	w = doJSON(r, http.MethodPost, "/auth/logout-all", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.loggedOut[1:])
}

// --- forecast ---

func forecastRouter() *gin.Engine {
	c := NewForecastController(services.NewForecastService(testLogger), testLogger)
	r := gin.New()
	r.POST("/forecast", c.Forecast)
	r.GET("/forecast/grades", c.GetGradeScale)
	return r
}

func TestForecast(t *testing.T) {
	w := doJSON(forecastRouter(), http.MethodPost, "/forecast",
		`{"current_gpa":3.5,"total_credit_units":72,"planned_courses":[{"credit_unit":3,"expected_grade":"A"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var data dto.ForecastResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.InDelta(t, 3.56, data.ProjectedGPA, 1e-12)
	assert.Equal(t, "3.56", data.ProjectedGPADisplay)
	assert.Equal(t, 75.0, data.TotalCreditUnits)
	assert.Equal(t, 267.0, data.TotalGradePoints)
	assert.Equal(t, 252.0, data.ExistingGradePoints)
	assert.Equal(t, 15.0, data.PlannedGradePoints)
}

func TestForecastRejections(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  dto.ErrorCode
		wantMsg   string
		wantField string
	}{
		{
			name:     "missing courses",
			body:     `{"current_gpa":3.5,"total_credit_units":72}`,
			wantCode: dto.ErrorCodeMissingField, wantMsg: "All fields are required",
		},
		{
			name:     "zero gpa is missing",
			body:     `{"current_gpa":0,"total_credit_units":72,"planned_courses":[{"credit_unit":3,"expected_grade":"A"}]}`,
			wantCode: dto.ErrorCodeMissingField, wantMsg: "All fields are required",
		},
		{
			name:     "gpa out of range",
			body:     `{"current_gpa":5.5,"total_credit_units":72,"planned_courses":[{"credit_unit":3,"expected_grade":"A"}]}`,
			wantCode: dto.ErrorCodeOutOfRange, wantMsg: "Invalid current GPA", wantField: "current_gpa",
		},
		{
			name:     "empty courses",
			body:     `{"current_gpa":3.5,"total_credit_units":72,"planned_courses":[]}`,
			wantCode: dto.ErrorCodeEmptyCourses, wantMsg: "Planned courses array is required and cannot be empty", wantField: "planned_courses",
		},
		{
			name:     "negative credit unit",
			body:     `{"current_gpa":3.5,"total_credit_units":72,"planned_courses":[{"credit_unit":-3,"expected_grade":"A"}]}`,
			wantCode: dto.ErrorCodeInvalidCreditUnit, wantMsg: "Credit unit must be greater than 0", wantField: "planned_courses[0].credit_unit",
		},
		{
			name:     "invalid grade",
			body:     `{"current_gpa":3.5,"total_credit_units":72,"planned_courses":[{"credit_unit":3,"expected_grade":"Z"}]}`,
			wantCode: dto.ErrorCodeInvalidGrade, wantMsg: "Invalid grade. Must be A, B, C, D, E, or F", wantField: "planned_courses[0].expected_grade",
		},
	}

	r := forecastRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/forecast", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantField, env.Error.Field)
		})
	}
}

func TestForecastMalformedBody(t *testing.T) {
	w := doJSON(forecastRouter(), http.MethodPost, "/forecast", `{"current_gpa":"high"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decode(t, w).Error.Code)
}

func TestGradeScale(t *testing.T) {
	w := doJSON(forecastRouter(), http.MethodGet, "/forecast/grades", "")
	require.Equal(t, http.StatusOK, w.Code)

	var data dto.GradeScaleResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Len(t, data.Grades, 6)
	assert.Equal(t, 5.0, data.MaxGPA)
}

// --- results ---

func resultRouter(svc services.ResultService, userID uuid.UUID) *gin.Engine {
	c := NewResultController(svc, testLogger)
	r := gin.New()
	g := r.Group("/results", withUser(userID))
	g.POST("", c.CreateResult)
	g.GET("", c.ListResults)
	g.GET("/summary", c.GetSummary)
	g.GET("/export", c.ExportResults)
	g.GET("/:id", c.GetResult)
	g.DELETE("/:id", c.DeleteResult)
	return r
}

const firstSemester = `{"semester":"First","academic_session":"2023/2024","courses":[
	{"course_code":"CSC301","course_title":"Data Structures","credit_unit":3,"grade":"A"},
	{"course_code":"MTH301","course_title":"Linear Algebra","credit_unit":2,"grade":"c"}]}`

func TestResultLifecycle(t *testing.T) {
	userID := uuid.New()
	svc := newFakeResultService()
	r := resultRouter(svc, userID)

	w := doJSON(r, http.MethodPost, "/results", firstSemester)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.ResultResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.InDelta(t, 21.0/5.0, created.GPA, 1e-12)
	assert.Equal(t, "4.20", created.GPADisplay)
	assert.Equal(t, "C", created.Courses[1].Grade)

	w = doJSON(r, http.MethodGet, "/results/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/results", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ResultListResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	assert.Len(t, list.Results, 1)
	assert.Equal(t, int64(1), list.Pagination.TotalItems)

	w = doJSON(r, http.MethodGet, "/results/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.AcademicSummaryResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &summary))
	assert.Equal(t, 1, summary.TotalResults)
	assert.Equal(t, "4.20", summary.CumulativeGPADisplay)

	w = doJSON(r, http.MethodDelete, "/results/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/results/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Result not found", decode(t, w).Message)
}

func TestResultOwnership(t *testing.T) {
	svc := newFakeResultService()
	owner := resultRouter(svc, uuid.New())
	other := resultRouter(svc, uuid.New())

	w := doJSON(owner, http.MethodPost, "/results", firstSemester)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.ResultResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	assert.Equal(t, http.StatusNotFound, doJSON(other, http.MethodGet, "/results/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(other, http.MethodDelete, "/results/"+created.ID, "").Code)
}

func TestCreateResultRejections(t *testing.T) {
	r := resultRouter(newFakeResultService(), uuid.New())

	w := doJSON(r, http.MethodPost, "/results", `{"semester":"First","academic_session":"2023/2024","courses":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decode(t, w).Error.Code)

	w = doJSON(r, http.MethodPost, "/results", `{"semester":"First","academic_session":"2023/2024","courses":[
		{"course_code":"CSC301","course_title":"Data Structures","credit_unit":3,"grade":"Q"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, dto.ErrorCodeInvalidGrade, env.Error.Code)
	assert.Equal(t, "courses[0].grade", env.Error.Field)

	w = doJSON(r, http.MethodGet, "/results/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decode(t, w).Error.Field)
}

func TestExportResults(t *testing.T) {
	w := doJSON(resultRouter(newFakeResultService(), uuid.New()), http.MethodGet, "/results/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"results-")
	assert.Equal(t, "PK-fake-workbook", w.Body.String())
}

func TestResultsRequireUser(t *testing.T) {
	c := NewResultController(newFakeResultService(), testLogger)
	r := gin.New()
	r.GET("/results", c.ListResults)

	w := doJSON(r, http.MethodGet, "/results", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decode(t, w).Error.Code)
}

// --- newsletter ---

func newsletterRouter() *gin.Engine {
	c := NewNewsletterController(&fakeNewsletterService{subscribed: map[string]bool{}}, testLogger)
	r := gin.New()
	r.POST("/newsletter/subscribe", c.Subscribe)
	r.POST("/newsletter/unsubscribe", c.Unsubscribe)
	r.GET("/newsletter/subscribers", c.GetSubscribers)
	r.GET("/newsletter/stats", c.GetStats)
	return r
}

func TestNewsletterFlow(t *testing.T) {
	r := newsletterRouter()

	w := doJSON(r, http.MethodPost, "/newsletter/subscribe", `{"email":"ada@example.com","source":"landing_page"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Successfully subscribed to newsletter", env.Message)
	var sub dto.SubscriberResponse
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, "landing_page", sub.Source)

	w = doJSON(r, http.MethodPost, "/newsletter/subscribe", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email is already subscribed to newsletter", decode(t, w).Message)

	w = doJSON(r, http.MethodPost, "/newsletter/subscribe", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is required", decode(t, w).Message)

	w = doJSON(r, http.MethodGet, "/newsletter/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.SubscriptionStats
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	assert.Equal(t, int64(1), stats.Active)

	w = doJSON(r, http.MethodPost, "/newsletter/unsubscribe", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/newsletter/unsubscribe", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Email not found or already unsubscribed", decode(t, w).Message)
}

func TestNewsletterSubscribersPaging(t *testing.T) {
	w := doJSON(newsletterRouter(), http.MethodGet, "/newsletter/subscribers?page=abc&limit=0", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.SubscriberListResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	assert.Equal(t, 1, list.Page)
	// the fake echoes the limit it received
	assert.Equal(t, 50, list.TotalPages)
}

// --- advisor ---

func TestAdvisor(t *testing.T) {
	userID := uuid.New()

	c := NewAdvisorController(&fakeAdvisorService{}, testLogger)
	r := gin.New()
	r.POST("/advisor", withUser(userID), c.Ask)

	w := doJSON(r, http.MethodPost, "/advisor", `{"question":"How do I reach a 4.5?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var answer dto.AdvisorResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &answer))
	assert.Equal(t, "Keep going: How do I reach a 4.5?", answer.Answer)

	w = doJSON(r, http.MethodPost, "/advisor", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c = NewAdvisorController(&fakeAdvisorService{
		err: apperrors.NewCustomError(apperrors.ErrUnavailable, "Academic advisor is not configured"),
	}, testLogger)
	r = gin.New()
	r.POST("/advisor", withUser(userID), c.Ask)

	w = doJSON(r, http.MethodPost, "/advisor", `{"question":"Hello?"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Academic advisor is not configured", decode(t, w).Message)
}
