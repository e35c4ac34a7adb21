package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onestoptutor/tutor-server/internal/api/testutils"
	"github.com/onestoptutor/tutor-server/internal/models"
)

func TestCourseLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)

	course := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Concurrency in Go", false)
	assert.Equal(t, testCtx.TestUserID, course.UserID)
	assert.Nil(t, course.ShareToken)

	t.Run("list", func(t *testing.T) {
		w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/", nil, auth)
		require.Equal(t, http.StatusOK, w.Code)

		var courses []models.Course
		testutils.DecodeJSON(t, w, &courses)
		require.Len(t, courses, 1)
		assert.Equal(t, course.ID, courses[0].ID)
	})

	t.Run("partial update", func(t *testing.T) {
		w := testutils.PerformRequest(testCtx.Router, http.MethodPatch, "/api/courses/"+course.ID,
			map[string]interface{}{"description": "channels and select"}, auth)
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.Course
		testutils.DecodeJSON(t, w, &updated)
		assert.Equal(t, "Concurrency in Go", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "channels and select", *updated.Description)
	})

	t.Run("detail includes videos in order", func(t *testing.T) {
		first := testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "first")
		second := testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "second")

		w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/"+course.ID, nil, auth)
		require.Equal(t, http.StatusOK, w.Code)

		var detail models.CourseDetailResponse
		testutils.DecodeJSON(t, w, &detail)
		require.Len(t, detail.Videos, 2)
		assert.Equal(t, first.ID, detail.Videos[0].ID)
		assert.Equal(t, second.ID, detail.Videos[1].ID)
	})

	t.Run("delete cascades", func(t *testing.T) {
		w := testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/courses/"+course.ID, nil, auth)
		require.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/"+course.ID, nil, auth)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/videos/course/"+course.ID+"/list", nil, auth)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCourseOwnership(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	_, otherJWT := testCtx.CreateUser(t, "other@example.com")
	other := testutils.AuthHeaders(otherJWT)

	private := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Private", false)
	public := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Public", true)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/"+private.ID, nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "FORBIDDEN", errResp.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/"+public.ID, nil, other)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodPatch, "/api/courses/"+public.ID,
		map[string]interface{}{"title": "hijacked"}, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/courses/"+public.ID, nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/does-not-exist", nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// listing only shows the caller's own courses
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/", nil, other)
	require.Equal(t, http.StatusOK, w.Code)
	var courses []models.Course
	testutils.DecodeJSON(t, w, &courses)
	assert.Empty(t, courses)
}

func TestCourseProgressStats(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)

	course := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Stats", false)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/"+course.ID+"/progress", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.CourseProgressResponse
	testutils.DecodeJSON(t, w, &stats)
	assert.Equal(t, 0, stats.TotalVideos)
	assert.Equal(t, 0.0, stats.ProgressPercentage)

	videos := []models.Video{
		testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "a"),
		testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "b"),
		testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "c"),
	}

	for _, v := range videos[:2] {
		w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/progress/video/"+v.ID,
			map[string]interface{}{"completed": true}, auth)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/courses/"+course.ID+"/progress", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	testutils.DecodeJSON(t, w, &stats)
	assert.Equal(t, 3, stats.TotalVideos)
	assert.Equal(t, 2, stats.CompletedVideos)
	assert.Equal(t, 1, stats.RemainingVideos)
	assert.Equal(t, 66.67, stats.ProgressPercentage)
}
