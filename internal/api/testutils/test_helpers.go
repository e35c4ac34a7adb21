package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/api"
	"github.com/onestoptutor/tutor-server/internal/assistant"
	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/repository"
	"github.com/onestoptutor/tutor-server/internal/service"
	"github.com/onestoptutor/tutor-server/internal/youtube"
)

const (
	TestJWTSecret  = "test-secret-key"
	TestUserEmail  = "testuser@example.com"
	TestPassword   = "testpassword"
	TestVideoTitle = "Fetched Video Title"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Service     service.Service
	JWTSecret   []byte
	TestUserID  string
	TestUserJWT string
}

// staticMetadata answers every lookup with the same title, keeping tests offline
type staticMetadata struct{}

func (staticMetadata) Fetch(ctx context.Context, videoID string) youtube.Metadata {
	return youtube.Metadata{Title: TestVideoTitle}
}

// SetupTestContext creates a new test context on an in-memory store. The
// assistant has no API key, so every answer is the not-configured message.
func SetupTestContext(t *testing.T) *TestContext {
	return SetupTestContextWithGenerator(t, assistant.NewClaudeClient(assistant.ClaudeConfig{}, zap.NewNop()))
}

// SetupTestContextWithGenerator is SetupTestContext with a custom text generator
func SetupTestContextWithGenerator(t *testing.T, gen assistant.Generator) *TestContext {
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	repo := repository.NewMemoryRepository()

	svc := service.NewDefaultService(repo, service.Options{
		JWTSecret: TestJWTSecret,
		Metadata:  staticMetadata{},
		Assistant: assistant.New(gen, logger),
		Logger:    logger,
	})

	handler := api.NewHandler(svc, TestJWTSecret, logger)
	router := api.NewRouter(handler, api.RouterOptions{ServiceName: "tutor-server-test"})

	tc := &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		JWTSecret:  []byte(TestJWTSecret),
	}
	tc.TestUserID, tc.TestUserJWT = tc.CreateUser(t, TestUserEmail)
	return tc
}

// CreateUser registers a user through the service and returns its id and token
func (tc *TestContext) CreateUser(t *testing.T, email string) (string, string) {
	ctx := context.Background()

	user, err := tc.Service.Register(ctx, models.RegisterRequest{Email: email, Password: TestPassword})
	require.NoError(t, err, "Failed to create test user")

	token, err := tc.Service.Login(ctx, models.LoginRequest{Email: email, Password: TestPassword})
	require.NoError(t, err, "Failed to log in test user")

	return user.ID, token.AccessToken
}

// CreateCourse creates a course owned by the holder of token
func (tc *TestContext) CreateCourse(t *testing.T, token, title string, public bool) models.Course {
	w := PerformRequest(tc.Router, http.MethodPost, "/api/courses/",
		models.CreateCourseRequest{Title: title, IsPublic: public}, AuthHeaders(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var course models.Course
	DecodeJSON(t, w, &course)
	return course
}

// AddVideo appends a video titled title to the course
func (tc *TestContext) AddVideo(t *testing.T, token, courseID, title string) models.Video {
	w := PerformRequest(tc.Router, http.MethodPost, "/api/videos/"+courseID+"/add",
		models.CreateVideoRequest{YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Title: &title},
		AuthHeaders(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var video models.Video
	DecodeJSON(t, w, &video)
	return video
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DecodeJSON unmarshals the response body into v
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
