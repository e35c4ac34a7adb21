package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/ordering"
)

// MemoryRepository implements the Repository interface in process memory.
// It backs STORAGE=memory and the HTTP tests; deletes cascade the way the
// Postgres foreign keys do.
type MemoryRepository struct {
	mu sync.RWMutex

	users      map[string]models.User
	courses    map[string]models.Course
	videos     map[string]models.Video
	progress   map[string]models.VideoProgress // keyed by user id + video id
	sessions   map[string]models.PomodoroSession
	timestamps map[string]models.Timestamp

	// insertion order, for stable listings
	courseOrder    []string
	progressOrder  []string
	timestampOrder []string
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[string]models.User),
		courses:    make(map[string]models.Course),
		videos:     make(map[string]models.Video),
		progress:   make(map[string]models.VideoProgress),
		sessions:   make(map[string]models.PomodoroSession),
		timestamps: make(map[string]models.Timestamp),
	}
}

func progressKey(userID, videoID string) string {
	return userID + "/" + videoID
}

func without(ids []string, remove func(string) bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if !remove(id) {
			out = append(out, id)
		}
	}
	return out
}

// User operations
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email %s", ErrDuplicate, user.Email)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// Course operations
func (r *MemoryRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	course.CreatedAt = time.Now().UTC()
	r.courses[course.ID] = *course
	r.courseOrder = append(r.courseOrder, course.ID)
	return nil
}

func (r *MemoryRepository) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.courses[courseID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetCourseByShareToken(ctx context.Context, token string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.courses {
		if c.ShareToken != nil && *c.ShareToken == token {
			return &c, nil
		}
	}
	return nil, nil
}

// GetUserCourses lists newest first
func (r *MemoryRepository) GetUserCourses(ctx context.Context, userID string) ([]models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := []models.Course{}
	for i := len(r.courseOrder) - 1; i >= 0; i-- {
		if c := r.courses[r.courseOrder[i]]; c.UserID == userID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (r *MemoryRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.courses[course.ID]
	if !ok {
		return nil
	}
	existing.Title = course.Title
	existing.Description = course.Description
	existing.IsPublic = course.IsPublic
	r.courses[course.ID] = existing
	return nil
}

func (r *MemoryRepository) DeleteCourse(ctx context.Context, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, v := range r.videos {
		if v.CourseID == courseID {
			r.deleteVideoLocked(id)
		}
	}
	delete(r.courses, courseID)
	r.courseOrder = without(r.courseOrder, func(id string) bool { return id == courseID })
	return nil
}

func (r *MemoryRepository) ShareCourse(ctx context.Context, courseID, token string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.courses[courseID]
	if !ok {
		return nil, nil
	}
	if c.ShareToken == nil {
		t := token
		c.ShareToken = &t
	}
	c.IsPublic = true
	r.courses[courseID] = c
	return &c, nil
}

// Video operations
func (r *MemoryRepository) courseItemsLocked(courseID string) []ordering.Item {
	var items []ordering.Item
	for _, v := range r.videos {
		if v.CourseID == courseID {
			items = append(items, ordering.Item{ID: v.ID, Position: v.Position})
		}
	}
	return items
}

func (r *MemoryRepository) applyMovesLocked(moves []ordering.Move) {
	for _, m := range moves {
		v := r.videos[m.ID]
		v.Position = m.Position
		r.videos[m.ID] = v
	}
}

func (r *MemoryRepository) courseVideosLocked(courseID string) []models.Video {
	videos := []models.Video{}
	for _, v := range r.videos {
		if v.CourseID == courseID {
			videos = append(videos, v)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].Position < videos[j].Position })
	return videos
}

func (r *MemoryRepository) AppendVideo(ctx context.Context, video *models.Video, seedUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	video.Position = ordering.Next(r.courseItemsLocked(video.CourseID))
	video.CreatedAt = time.Now().UTC()
	r.videos[video.ID] = *video

	key := progressKey(seedUserID, video.ID)
	r.progress[key] = models.VideoProgress{
		ID:        uuid.New().String(),
		UserID:    seedUserID,
		VideoID:   video.ID,
		CourseID:  video.CourseID,
		CreatedAt: video.CreatedAt,
		UpdatedAt: video.CreatedAt,
	}
	r.progressOrder = append(r.progressOrder, key)
	return nil
}

func (r *MemoryRepository) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.videos[videoID]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetCourseVideos(ctx context.Context, courseID string) ([]models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.courseVideosLocked(courseID), nil
}

func (r *MemoryRepository) CountCourseVideos(ctx context.Context, courseID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.courseItemsLocked(courseID)), nil
}

func (r *MemoryRepository) UpdateVideo(ctx context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.videos[video.ID]
	if !ok {
		return nil
	}
	existing.Title = video.Title
	existing.Description = video.Description
	r.videos[video.ID] = existing
	return nil
}

func (r *MemoryRepository) ReorderVideo(ctx context.Context, courseID, videoID string, newPosition int) ([]models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.videos[videoID]; !ok || v.CourseID != courseID {
		return nil, ErrVideoNotInCourse
	}

	moves, err := ordering.Reorder(r.courseItemsLocked(courseID), videoID, newPosition)
	if err != nil {
		return nil, err
	}
	r.applyMovesLocked(moves)

	return r.courseVideosLocked(courseID), nil
}

func (r *MemoryRepository) DeleteVideo(ctx context.Context, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[videoID]
	if !ok {
		return nil
	}
	r.deleteVideoLocked(videoID)
	r.applyMovesLocked(ordering.CloseGap(r.courseItemsLocked(v.CourseID), v.Position))
	return nil
}

// deleteVideoLocked removes the video with its progress rows and timestamps
func (r *MemoryRepository) deleteVideoLocked(videoID string) {
	delete(r.videos, videoID)

	for key, p := range r.progress {
		if p.VideoID == videoID {
			delete(r.progress, key)
		}
	}
	r.progressOrder = without(r.progressOrder, func(key string) bool {
		_, ok := r.progress[key]
		return !ok
	})

	for id, ts := range r.timestamps {
		if ts.VideoID == videoID {
			delete(r.timestamps, id)
		}
	}
	r.timestampOrder = without(r.timestampOrder, func(id string) bool {
		_, ok := r.timestamps[id]
		return !ok
	})
}

// Progress operations
func (r *MemoryRepository) GetVideoProgress(ctx context.Context, userID, videoID string) (*models.VideoProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.progress[progressKey(userID, videoID)]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *MemoryRepository) SaveVideoProgress(ctx context.Context, progress *models.VideoProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := progressKey(progress.UserID, progress.VideoID)

	if existing, ok := r.progress[key]; ok {
		existing.LastTimestamp = progress.LastTimestamp
		existing.Completed = progress.Completed
		existing.UpdatedAt = now
		r.progress[key] = existing
		*progress = existing
		return nil
	}

	if progress.ID == "" {
		progress.ID = uuid.New().String()
	}
	progress.CreatedAt = now
	progress.UpdatedAt = now
	r.progress[key] = *progress
	r.progressOrder = append(r.progressOrder, key)
	return nil
}

func (r *MemoryRepository) GetCourseProgress(ctx context.Context, userID, courseID string) ([]models.VideoProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := []models.VideoProgress{}
	for _, key := range r.progressOrder {
		if p := r.progress[key]; p.UserID == userID && p.CourseID == courseID {
			records = append(records, p)
		}
	}
	return records, nil
}

func (r *MemoryRepository) CountCompletedVideos(ctx context.Context, userID, courseID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.progress {
		if p.UserID == userID && p.CourseID == courseID && p.Completed {
			count++
		}
	}
	return count, nil
}

// Pomodoro operations
func (r *MemoryRepository) CreatePomodoroSession(ctx context.Context, session *models.PomodoroSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now().UTC()
	r.sessions[session.ID] = *session
	return nil
}

func (r *MemoryRepository) GetPomodoroSession(ctx context.Context, sessionID string) (*models.PomodoroSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.sessions[sessionID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *MemoryRepository) CompletePomodoroSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.Completed = true
		r.sessions[sessionID] = s
	}
	return nil
}

func (r *MemoryRepository) GetPomodoroTotals(ctx context.Context, userID string) (*PomodoroTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var totals PomodoroTotals
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		totals.Total++
		if s.Completed {
			totals.Completed++
			totals.CompletedSeconds += s.Duration
		}
	}
	return &totals, nil
}

// Timestamp operations
func (r *MemoryRepository) CreateTimestamp(ctx context.Context, ts *models.Timestamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ts.ID == "" {
		ts.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	ts.CreatedAt = now
	ts.UpdatedAt = now
	r.timestamps[ts.ID] = *ts
	r.timestampOrder = append(r.timestampOrder, ts.ID)
	return nil
}

func (r *MemoryRepository) GetTimestamp(ctx context.Context, timestampID string) (*models.Timestamp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ts, ok := r.timestamps[timestampID]; ok {
		return &ts, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetUserVideoTimestamps(ctx context.Context, userID, videoID string) ([]models.Timestamp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timestamps := []models.Timestamp{}
	for _, id := range r.timestampOrder {
		if ts := r.timestamps[id]; ts.UserID == userID && ts.VideoID == videoID {
			timestamps = append(timestamps, ts)
		}
	}
	sort.SliceStable(timestamps, func(i, j int) bool {
		return timestamps[i].TimeSeconds < timestamps[j].TimeSeconds
	})
	return timestamps, nil
}

func (r *MemoryRepository) UpdateTimestamp(ctx context.Context, ts *models.Timestamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.timestamps[ts.ID]
	if !ok {
		return nil
	}
	existing.TimeSeconds = ts.TimeSeconds
	existing.Label = ts.Label
	existing.Note = ts.Note
	existing.UpdatedAt = time.Now().UTC()
	r.timestamps[ts.ID] = existing
	*ts = existing
	return nil
}

func (r *MemoryRepository) DeleteTimestamp(ctx context.Context, timestampID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.timestamps, timestampID)
	r.timestampOrder = without(r.timestampOrder, func(id string) bool { return id == timestampID })
	return nil
}
