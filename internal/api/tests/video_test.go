package api_test

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onestoptutor/tutor-server/internal/api/testutils"
	"github.com/onestoptutor/tutor-server/internal/models"
)

func listVideos(t *testing.T, testCtx *testutils.TestContext, courseID string) []models.Video {
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/videos/course/"+courseID+"/list", nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var videos []models.Video
	testutils.DecodeJSON(t, w, &videos)
	return videos
}

func videoIDs(videos []models.Video) []string {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids
}

func assertDense(t *testing.T, videos []models.Video) {
	for i, v := range videos {
		assert.Equal(t, i, v.Position, "positions should be exactly 0..n-1")
	}
}

func TestAddVideo(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)
	course := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Videos", false)

	// Title comes from the metadata lookup when not given
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/"+course.ID+"/add",
		models.CreateVideoRequest{YouTubeURL: "https://youtu.be/dQw4w9WgXcQ"}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var video models.Video
	testutils.DecodeJSON(t, w, &video)
	assert.Equal(t, testutils.TestVideoTitle, video.Title)
	assert.Equal(t, "dQw4w9WgXcQ", video.YouTubeVideoID)
	assert.Equal(t, 0, video.Position)

	// The adder gets a progress row right away
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/progress/video/"+video.ID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var progress models.VideoProgress
	testutils.DecodeJSON(t, w, &progress)
	assert.Equal(t, course.ID, progress.CourseID)
	assert.Equal(t, 0, progress.LastTimestamp)

	// Invalid URL
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/"+course.ID+"/add",
		models.CreateVideoRequest{YouTubeURL: "https://example.com/watch?v=nope"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Someone else's course
	_, otherJWT := testCtx.CreateUser(t, "other@example.com")
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/"+course.ID+"/add",
		models.CreateVideoRequest{YouTubeURL: "https://youtu.be/dQw4w9WgXcQ"}, testutils.AuthHeaders(otherJWT))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReorderVideo(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)
	course := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Reorder", false)

	var original []models.Video
	for i := 0; i < 4; i++ {
		original = append(original, testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, fmt.Sprintf("v%d", i)))
	}

	t.Run("move up", func(t *testing.T) {
		w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/"+original[3].ID+"/reorder",
			map[string]int{"new_position": 1}, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.ReorderVideoResponse
		testutils.DecodeJSON(t, w, &resp)
		assert.Equal(t, "Video reordered successfully", resp.Message)

		videos := listVideos(t, testCtx, course.ID)
		assert.Equal(t, []string{original[0].ID, original[3].ID, original[1].ID, original[2].ID}, videoIDs(videos))
		assertDense(t, videos)
	})

	t.Run("same position is a no-op", func(t *testing.T) {
		before := listVideos(t, testCtx, course.ID)

		w := testutils.PerformRequest(testCtx.Router, http.MethodPost,
			"/api/videos/"+before[2].ID+"/reorder?new_position=2", nil, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, videoIDs(before), videoIDs(listVideos(t, testCtx, course.ID)))
	})

	t.Run("move down via query", func(t *testing.T) {
		before := listVideos(t, testCtx, course.ID)

		w := testutils.PerformRequest(testCtx.Router, http.MethodPost,
			"/api/videos/"+before[0].ID+"/reorder?new_position=3", nil, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		videos := listVideos(t, testCtx, course.ID)
		assert.Equal(t, []string{before[1].ID, before[2].ID, before[3].ID, before[0].ID}, videoIDs(videos))
		assertDense(t, videos)
	})

	t.Run("out of range is rejected", func(t *testing.T) {
		before := listVideos(t, testCtx, course.ID)

		for _, pos := range []int{-1, 4, 100} {
			w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/"+before[0].ID+"/reorder",
				map[string]int{"new_position": pos}, auth)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}

		assert.Equal(t, videoIDs(before), videoIDs(listVideos(t, testCtx, course.ID)))
	})

	t.Run("missing position", func(t *testing.T) {
		w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/"+original[0].ID+"/reorder",
			map[string]int{}, auth)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = testutils.PerformRequest(testCtx.Router, http.MethodPost,
			"/api/videos/"+original[0].ID+"/reorder?new_position=first", nil, auth)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown video", func(t *testing.T) {
		w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/missing/reorder",
			map[string]int{"new_position": 0}, auth)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateAndDeleteVideo(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	auth := testutils.AuthHeaders(testCtx.TestUserJWT)
	course := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Edit", false)

	a := testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "a")
	b := testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "b")
	c := testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "c")

	w := testutils.PerformRequest(testCtx.Router, http.MethodPatch, "/api/videos/"+b.ID,
		map[string]string{"title": "renamed"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Video
	testutils.DecodeJSON(t, w, &updated)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, 1, updated.Position)

	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete, "/api/videos/"+b.ID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	videos := listVideos(t, testCtx, course.ID)
	assert.Equal(t, []string{a.ID, c.ID}, videoIDs(videos))
	assertDense(t, videos)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/progress/video/"+b.ID, nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// appending after a delete continues the dense sequence
	d := testCtx.AddVideo(t, testCtx.TestUserJWT, course.ID, "d")
	assert.Equal(t, 2, d.Position)
}

func TestConcurrentVideoAppends(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	course := testCtx.CreateCourse(t, testCtx.TestUserJWT, "Concurrent", false)

	const numGoroutines = 10
	const videosPerGoroutine = 3

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(routineID int) {
			defer wg.Done()

			for j := 0; j < videosPerGoroutine; j++ {
				title := fmt.Sprintf("r%d-%d", routineID, j)
				w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/videos/"+course.ID+"/add",
					models.CreateVideoRequest{YouTubeURL: "https://youtu.be/dQw4w9WgXcQ", Title: &title},
					testutils.AuthHeaders(testCtx.TestUserJWT))
				assert.Equal(t, http.StatusCreated, w.Code)
			}
		}(i)
	}
	wg.Wait()

	videos := listVideos(t, testCtx, course.ID)
	require.Len(t, videos, numGoroutines*videosPerGoroutine)

	positions := make([]int, len(videos))
	for i, v := range videos {
		positions[i] = v.Position
	}
	sort.Ints(positions)
	for i, p := range positions {
		assert.Equal(t, i, p, "positions should be continuous without gaps")
	}
}
