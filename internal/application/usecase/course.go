package usecase

import (
	"context"
	"strings"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/parser"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/google/uuid"
)

type CourseUseCase struct {
	courses *repository.CourseRepository
	lessons *repository.LessonRepository
	log     *logger.Logger
}

func NewCourseUseCase(cr *repository.CourseRepository, lr *repository.LessonRepository, log *logger.Logger) *CourseUseCase {
	return &CourseUseCase{courses: cr, lessons: lr, log: log}
}

type CourseInput struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	ThumbnailURL *string              `json:"thumbnail_url"`
	Status       *domain.CourseStatus `json:"status"`
}

type LessonInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	VideoURL *string `json:"video_url"`
	Order    *int    `json:"order"`
}

func (uc *CourseUseCase) ListCourses(ctx context.Context, status domain.CourseStatus) ([]domain.Course, error) {
	if status != "" && !status.Valid() {
		return nil, domain.Validation("course.List", "unknown status filter")
	}
	return uc.courses.List(ctx, status)
}

func (uc *CourseUseCase) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course, err := uc.courses.GetWithLessons(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrCourseNotFound)
	}
	decorateLessons(course.Lessons)
	return course, nil
}

func (uc *CourseUseCase) CreateCourse(ctx context.Context, p domain.Principal, in CourseInput) (*domain.Course, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, domain.Validation("course.Create", "title is required")
	}
	course := &domain.Course{
		Title:        strings.TrimSpace(*in.Title),
		Status:       domain.CourseDraft,
		InstructorID: p.UserID,
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.ThumbnailURL != nil {
		course.ThumbnailURL = *in.ThumbnailURL
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.Validation("course.Create", "invalid status")
		}
		course.Status = *in.Status
	}
	if err := uc.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	uc.log.Info("course created", "course_id", course.ID, "status", course.Status)
	return course, nil
}

func (uc *CourseUseCase) UpdateCourse(ctx context.Context, p domain.Principal, id uuid.UUID, in CourseInput) (*domain.Course, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.Validation("course.Update", "title cannot be empty")
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ThumbnailURL != nil {
		updates["thumbnail_url"] = *in.ThumbnailURL
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.Validation("course.Update", "invalid status")
		}
		updates["status"] = *in.Status
	}
	if err := uc.courses.Update(ctx, id, updates); err != nil {
		return nil, notFoundAs(err, domain.ErrCourseNotFound)
	}
	return uc.GetCourse(ctx, id)
}

// DeleteCourse removes the course with its lessons, enrollments and progress.
func (uc *CourseUseCase) DeleteCourse(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if err := uc.courses.Delete(ctx, id); err != nil {
		return notFoundAs(err, domain.ErrCourseNotFound)
	}
	uc.log.Info("course deleted", "course_id", id)
	return nil
}

func (uc *CourseUseCase) ListLessons(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, notFoundAs(err, domain.ErrCourseNotFound)
	}
	lessons, err := uc.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	decorateLessons(lessons)
	return lessons, nil
}

// CreateLesson appends a lesson. Without an explicit order it goes after the
// current last lesson.
func (uc *CourseUseCase) CreateLesson(ctx context.Context, p domain.Principal, courseID uuid.UUID, in LessonInput) (*domain.Lesson, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, domain.Validation("lesson.Create", "title is required")
	}
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, notFoundAs(err, domain.ErrCourseNotFound)
	}

	lesson := &domain.Lesson{CourseID: courseID, Title: strings.TrimSpace(*in.Title)}
	if in.Content != nil {
		lesson.Content = *in.Content
	}
	if in.VideoURL != nil {
		url, err := normalizeVideoURL("lesson.Create", *in.VideoURL)
		if err != nil {
			return nil, err
		}
		lesson.VideoURL = url
	}
	if in.Order != nil {
		lesson.Order = *in.Order
	} else {
		next, err := uc.lessons.NextOrder(ctx, courseID)
		if err != nil {
			return nil, err
		}
		lesson.Order = next
	}

	if err := uc.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}
	lesson.EmbedURL = parser.EmbedURL(lesson.VideoURL)
	uc.log.Info("lesson created", "lesson_id", lesson.ID, "course_id", courseID, "order", lesson.Order)
	return lesson, nil
}

func (uc *CourseUseCase) UpdateLesson(ctx context.Context, p domain.Principal, courseID, lessonID uuid.UUID, in LessonInput) (*domain.Lesson, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	lesson, err := uc.lessons.GetByID(ctx, lessonID)
	if err != nil || lesson.CourseID != courseID {
		return nil, notFoundAs(orNotFound(err), domain.ErrLessonNotFound)
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.Validation("lesson.Update", "title cannot be empty")
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.VideoURL != nil {
		url, err := normalizeVideoURL("lesson.Update", *in.VideoURL)
		if err != nil {
			return nil, err
		}
		updates["video_url"] = url
	}
	if in.Order != nil {
		updates["order"] = *in.Order
	}
	if err := uc.lessons.Update(ctx, lessonID, updates); err != nil {
		return nil, notFoundAs(err, domain.ErrLessonNotFound)
	}

	lesson, err = uc.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrLessonNotFound)
	}
	lesson.EmbedURL = parser.EmbedURL(lesson.VideoURL)
	return lesson, nil
}

// ReorderLessons assigns each listed lesson its position as order.
func (uc *CourseUseCase) ReorderLessons(ctx context.Context, p domain.Principal, courseID uuid.UUID, ids []uuid.UUID) ([]domain.Lesson, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.Validation("lesson.Reorder", "lesson ids are required")
	}
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, notFoundAs(err, domain.ErrCourseNotFound)
	}
	if err := uc.lessons.Reorder(ctx, courseID, ids); err != nil {
		return nil, err
	}
	return uc.ListLessons(ctx, courseID)
}

// DeleteLesson removes the lesson and all progress recorded against it.
// Enrollment statuses are not recomputed.
func (uc *CourseUseCase) DeleteLesson(ctx context.Context, p domain.Principal, courseID, lessonID uuid.UUID) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	lesson, err := uc.lessons.GetByID(ctx, lessonID)
	if err != nil || lesson.CourseID != courseID {
		return notFoundAs(orNotFound(err), domain.ErrLessonNotFound)
	}
	if err := uc.lessons.Delete(ctx, lessonID); err != nil {
		return notFoundAs(err, domain.ErrLessonNotFound)
	}
	uc.log.Info("lesson deleted", "lesson_id", lessonID, "course_id", courseID)
	return nil
}

func normalizeVideoURL(op, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := parser.ParseVideo(raw); err != nil {
		return "", domain.Validation(op, "video url must be a YouTube or Vimeo link")
	}
	return raw, nil
}

func decorateLessons(lessons []domain.Lesson) {
	for i := range lessons {
		lessons[i].EmbedURL = parser.EmbedURL(lessons[i].VideoURL)
	}
}

func orNotFound(err error) error {
	if err == nil {
		return domain.ErrNotFound
	}
	return err
}
