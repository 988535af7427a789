package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/google/uuid"
)

type EnrollmentUseCase struct {
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	lessons     *repository.LessonRepository
	enrollments *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	notifier    CompletionNotifier
	log         *logger.Logger
	frontendURL string
	now         func() time.Time
}

func NewEnrollmentUseCase(
	ur *repository.UserRepository,
	cr *repository.CourseRepository,
	lr *repository.LessonRepository,
	er *repository.EnrollmentRepository,
	pr *repository.ProgressRepository,
	n CompletionNotifier,
	log *logger.Logger,
	frontendURL string,
) *EnrollmentUseCase {
	return &EnrollmentUseCase{
		users:       ur,
		courses:     cr,
		lessons:     lr,
		enrollments: er,
		progress:    pr,
		notifier:    n,
		log:         log,
		frontendURL: frontendURL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ProgressResult is the outcome of a single lesson toggle.
type ProgressResult struct {
	Progress         *domain.LessonProgress  `json:"progress"`
	CourseCompleted  bool                    `json:"course_completed"`
	EnrollmentStatus domain.EnrollmentStatus `json:"enrollment_status"`
}

// EnrollmentView is an enrollment with its course and progress counts.
type EnrollmentView struct {
	domain.Enrollment
	Summary domain.ProgressCounts `json:"summary"`
}

type StatusCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Dropped   int `json:"dropped"`
}

type EnrollmentOverview struct {
	Enrollments []EnrollmentView `json:"enrollments"`
	Stats       StatusCounts     `json:"stats"`
}

// Enroll creates or resumes the principal's enrollment in a published course.
// The bool result is true when a new enrollment row was inserted.
func (uc *EnrollmentUseCase) Enroll(ctx context.Context, p domain.Principal, courseID uuid.UUID) (*domain.Enrollment, bool, error) {
	if !p.Valid() {
		return nil, false, domain.ErrNoSession
	}

	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, false, notFoundAs(err, domain.ErrCourseNotFound)
	}
	if course.Status != domain.CoursePublished {
		return nil, false, domain.ErrCourseNotEnrollable
	}

	existing, err := uc.enrollments.FindByUserAndCourse(ctx, p.UserID, courseID)
	switch {
	case err == nil:
		return uc.resume(ctx, existing)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	lessons, err := uc.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	e := &domain.Enrollment{
		UserID:     p.UserID,
		CourseID:   courseID,
		Status:     domain.EnrollmentActive,
		EnrolledAt: uc.now(),
	}
	if err := uc.enrollments.CreateWithProgress(ctx, e, lessons); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, false, domain.ErrAlreadyEnrolled
		}
		return nil, false, err
	}

	uc.log.Info("enrollment created", "enrollment_id", e.ID, "user_id", p.UserID, "course_id", courseID, "lessons", len(lessons))
	return e, true, nil
}

func (uc *EnrollmentUseCase) resume(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, bool, error) {
	switch e.Status {
	case domain.EnrollmentActive:
		return nil, false, domain.ErrAlreadyEnrolled
	case domain.EnrollmentCompleted:
		return e, false, nil
	}

	// Progress rows of a dropped enrollment are kept as they are.
	if err := uc.enrollments.UpdateStatus(ctx, e.ID, domain.EnrollmentActive); err != nil {
		return nil, false, err
	}
	e.Status = domain.EnrollmentActive
	uc.log.Info("enrollment reactivated", "enrollment_id", e.ID, "user_id", e.UserID)
	return e, false, nil
}

// SetLessonProgress marks one lesson complete or incomplete and keeps the
// enrollment status in step with the aggregate of all its progress rows.
func (uc *EnrollmentUseCase) SetLessonProgress(ctx context.Context, p domain.Principal, lessonID uuid.UUID, completed bool) (*ProgressResult, error) {
	if !p.Valid() {
		return nil, domain.ErrNoSession
	}

	lesson, err := uc.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrLessonNotFound)
	}

	e, err := uc.enrollments.FindByUserAndCourse(ctx, p.UserID, lesson.CourseID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrEnrollmentNotFound)
	}
	if e.Status == domain.EnrollmentDropped {
		return nil, domain.ErrEnrollmentDropped
	}

	row, err := uc.writeProgress(ctx, e.ID, lessonID, completed)
	if err != nil {
		return nil, err
	}

	rows, err := uc.progress.ListByEnrollment(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	complete := domain.AggregateComplete(rows)

	current, err := uc.enrollments.GetByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	next, changed := domain.NextStatus(current.Status, complete)
	if changed {
		if err := uc.enrollments.UpdateStatus(ctx, e.ID, next); err != nil {
			return nil, err
		}
		uc.log.Info("enrollment status changed", "enrollment_id", e.ID, "from", current.Status, "to", next)
		if next == domain.EnrollmentCompleted {
			uc.notifyCompleted(ctx, p.UserID, lesson.CourseID)
		}
	}

	return &ProgressResult{
		Progress:         row,
		CourseCompleted:  complete,
		EnrollmentStatus: next,
	}, nil
}

// writeProgress updates the (enrollment, lesson) row, creating it when the
// enrollment predates the lesson.
func (uc *EnrollmentUseCase) writeProgress(ctx context.Context, enrollmentID, lessonID uuid.UUID, completed bool) (*domain.LessonProgress, error) {
	row, err := uc.progress.Find(ctx, enrollmentID, lessonID)
	if err == nil {
		if row.Completed == completed {
			return row, nil
		}
		return row, uc.progress.SetCompleted(ctx, row, completed, uc.now())
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	row = &domain.LessonProgress{EnrollmentID: enrollmentID, LessonID: lessonID}
	row.Mark(completed, uc.now())
	err = uc.progress.Create(ctx, row)
	if !errors.Is(err, domain.ErrConflict) {
		return row, err
	}

	// A concurrent request created the row first.
	row, err = uc.progress.Find(ctx, enrollmentID, lessonID)
	if err != nil {
		return nil, err
	}
	if row.Completed == completed {
		return row, nil
	}
	return row, uc.progress.SetCompleted(ctx, row, completed, uc.now())
}

func (uc *EnrollmentUseCase) notifyCompleted(ctx context.Context, userID, courseID uuid.UUID) {
	if uc.notifier == nil {
		return
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		uc.log.Warn("completion email skipped", "user_id", userID, "error", err)
		return
	}
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		uc.log.Warn("completion email skipped", "course_id", courseID, "error", err)
		return
	}
	link := uc.frontendURL + "/courses/" + course.ID.String()
	if err := uc.notifier.SendCourseCompleted(ctx, user.Email, user.Name, course.Title, link); err != nil {
		uc.log.Error("completion email failed", "user_id", userID, "course_id", courseID, "error", err)
	}
}

// Cancel drops the principal's enrollment. Progress rows are kept so a later
// enrollment resumes where the student left off.
func (uc *EnrollmentUseCase) Cancel(ctx context.Context, p domain.Principal, enrollmentID uuid.UUID) (*domain.Enrollment, error) {
	if !p.Valid() {
		return nil, domain.ErrNoSession
	}
	e, err := uc.enrollments.GetForUser(ctx, enrollmentID, p.UserID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrEnrollmentNotFound)
	}
	if e.Status == domain.EnrollmentDropped {
		return nil, domain.ErrAlreadyDropped
	}
	if err := uc.enrollments.UpdateStatus(ctx, e.ID, domain.EnrollmentDropped); err != nil {
		return nil, err
	}
	e.Status = domain.EnrollmentDropped
	uc.log.Info("enrollment dropped", "enrollment_id", e.ID, "user_id", p.UserID)
	return e, nil
}

func (uc *EnrollmentUseCase) ProgressSummary(ctx context.Context, p domain.Principal, courseID uuid.UUID) (*domain.ProgressSummary, error) {
	if !p.Valid() {
		return nil, domain.ErrNoSession
	}
	e, err := uc.enrollments.FindByUserAndCourse(ctx, p.UserID, courseID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrEnrollmentNotFound)
	}
	rows, err := uc.progress.ListByEnrollment(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return domain.SummarizeProgress(e, rows), nil
}

// ListMine returns the principal's enrollments. Totals count the course's
// current lessons.
func (uc *EnrollmentUseCase) ListMine(ctx context.Context, p domain.Principal) ([]EnrollmentView, error) {
	if !p.Valid() {
		return nil, domain.ErrNoSession
	}
	list, err := uc.enrollments.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	views := make([]EnrollmentView, 0, len(list))
	for _, e := range list {
		total := 0
		if e.Course != nil {
			total = len(e.Course.Lessons)
			decorateLessons(e.Course.Lessons)
		}
		views = append(views, EnrollmentView{
			Enrollment: e,
			Summary:    domain.NewProgressCounts(domain.CountCompleted(e.Progress), total),
		})
	}
	return views, nil
}

func (uc *EnrollmentUseCase) GetEnrollment(ctx context.Context, p domain.Principal, enrollmentID uuid.UUID) (*EnrollmentView, error) {
	if !p.Valid() {
		return nil, domain.ErrNoSession
	}
	e, err := uc.enrollments.GetDetailForUser(ctx, enrollmentID, p.UserID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrEnrollmentNotFound)
	}
	total := 0
	if e.Course != nil {
		total = len(e.Course.Lessons)
		decorateLessons(e.Course.Lessons)
	}
	return &EnrollmentView{
		Enrollment: *e,
		Summary:    domain.NewProgressCounts(domain.CountCompleted(e.Progress), total),
	}, nil
}

// ListAll is the admin overview of every enrollment.
func (uc *EnrollmentUseCase) ListAll(ctx context.Context, p domain.Principal) (*EnrollmentOverview, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	list, err := uc.enrollments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(list))
	totals := make([]int, len(list))
	for i, e := range list {
		ids = append(ids, e.ID)
		if e.Course != nil {
			totals[i] = len(e.Course.Lessons)
		}
	}
	counts, err := uc.progress.CountByEnrollments(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &EnrollmentOverview{Enrollments: make([]EnrollmentView, 0, len(list))}
	for i, e := range list {
		// Lessons only size the summary here; courses may be shared.
		if e.Course != nil {
			e.Course.Lessons = nil
		}
		out.Enrollments = append(out.Enrollments, EnrollmentView{
			Enrollment: e,
			Summary:    domain.NewProgressCounts(counts[e.ID].Completed, totals[i]),
		})
		out.Stats.Total++
		switch e.Status {
		case domain.EnrollmentActive:
			out.Stats.Active++
		case domain.EnrollmentCompleted:
			out.Stats.Completed++
		case domain.EnrollmentDropped:
			out.Stats.Dropped++
		}
	}
	return out, nil
}

func requireAdmin(p domain.Principal) error {
	if !p.Valid() {
		return domain.ErrNoSession
	}
	if !p.IsAdmin() {
		return domain.ErrAdminOnly
	}
	return nil
}

// notFoundAs replaces a bare not-found from storage with a specific error.
func notFoundAs(err, specific error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return specific
	}
	return err
}
