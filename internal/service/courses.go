package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/models"
)

// access is what the caller wants to do with a course
type access int

const (
	accessRead access = iota
	accessWrite
)

// loadCourse returns the course if the caller may act on it: owners may do
// anything, others may only read a public course.
func (s *DefaultService) loadCourse(ctx context.Context, caller models.Identity, courseID string, want access) (*models.Course, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return nil, newError(ErrNotFound, "Course not found")
	}

	if course.UserID == caller.UserID {
		return course, nil
	}
	if want == accessRead && course.IsPublic {
		return course, nil
	}
	return nil, newError(ErrForbidden, "Not authorized to access this course")
}

func (s *DefaultService) courseDetail(ctx context.Context, course *models.Course) (*models.CourseDetailResponse, error) {
	videos, err := s.repo.GetCourseVideos(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting course videos: %w", err)
	}
	return &models.CourseDetailResponse{Course: *course, Videos: videos}, nil
}

// Course operations
func (s *DefaultService) CreateCourse(
	ctx context.Context,
	caller models.Identity,
	req models.CreateCourseRequest,
) (*models.Course, error) {
	course := &models.Course{
		UserID:      caller.UserID,
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}

	if err := s.repo.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	s.logger.Info("Course created",
		zap.String("course_id", course.ID),
		zap.String("user_id", caller.UserID))
	return course, nil
}

func (s *DefaultService) ListCourses(ctx context.Context, caller models.Identity) ([]models.Course, error) {
	courses, err := s.repo.GetUserCourses(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

func (s *DefaultService) GetCourseDetail(
	ctx context.Context,
	caller models.Identity,
	courseID string,
) (*models.CourseDetailResponse, error) {
	course, err := s.loadCourse(ctx, caller, courseID, accessRead)
	if err != nil {
		return nil, err
	}
	return s.courseDetail(ctx, course)
}

func (s *DefaultService) UpdateCourse(
	ctx context.Context,
	caller models.Identity,
	courseID string,
	req models.UpdateCourseRequest,
) (*models.Course, error) {
	course, err := s.loadCourse(ctx, caller, courseID, accessWrite)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.IsPublic != nil {
		course.IsPublic = *req.IsPublic
	}

	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return course, nil
}

func (s *DefaultService) DeleteCourse(ctx context.Context, caller models.Identity, courseID string) error {
	if _, err := s.loadCourse(ctx, caller, courseID, accessWrite); err != nil {
		return err
	}

	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	s.logger.Info("Course deleted",
		zap.String("course_id", courseID),
		zap.String("user_id", caller.UserID))
	return nil
}

// GetCourseStats reports the owner's completion of a course
func (s *DefaultService) GetCourseStats(
	ctx context.Context,
	caller models.Identity,
	courseID string,
) (*models.CourseProgressResponse, error) {
	if _, err := s.loadCourse(ctx, caller, courseID, accessWrite); err != nil {
		return nil, err
	}

	total, err := s.repo.CountCourseVideos(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error counting videos: %w", err)
	}

	completed, err := s.repo.CountCompletedVideos(ctx, caller.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("error counting completed videos: %w", err)
	}

	return &models.CourseProgressResponse{
		CourseID:           courseID,
		TotalVideos:        total,
		CompletedVideos:    completed,
		ProgressPercentage: percentage(completed, total),
		RemainingVideos:    total - completed,
	}, nil
}

// percentage returns part/whole*100 rounded to 2 decimals, 0 for an empty whole
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}

// Sharing
func (s *DefaultService) ShareCourse(ctx context.Context, caller models.Identity, courseID string) (*models.ShareResponse, error) {
	if _, err := s.loadCourse(ctx, caller, courseID, accessWrite); err != nil {
		return nil, err
	}

	course, err := s.repo.ShareCourse(ctx, courseID, uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("error sharing course: %w", err)
	}
	if course == nil || course.ShareToken == nil {
		return nil, newError(ErrNotFound, "Course not found")
	}

	return &models.ShareResponse{
		ShareToken: *course.ShareToken,
		ShareURL:   "/shared/course/" + *course.ShareToken,
	}, nil
}

// GetSharedCourse resolves a share token; holding the token is the only check
func (s *DefaultService) GetSharedCourse(ctx context.Context, token string) (*models.CourseDetailResponse, error) {
	course, err := s.repo.GetCourseByShareToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error getting shared course: %w", err)
	}
	if course == nil {
		return nil, newError(ErrNotFound, "Shared course not found")
	}
	return s.courseDetail(ctx, course)
}
