package usecase

import (
	"context"
	"testing"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
	"github.com/waste3d/coursehub/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newCourseEnv(t *testing.T) (*gorm.DB, *CourseUseCase, domain.Principal) {
	t.Helper()
	db := testutil.DB(t)
	uc := NewCourseUseCase(repository.NewCourseRepository(db), repository.NewLessonRepository(db), testutil.Logger(t))
	admin := testutil.SeedUser(t, context.Background(), db, domain.RoleAdmin)
	return db, uc, domain.Principal{UserID: admin.ID, Role: domain.RoleAdmin}
}

func TestCreateCourseDefaultsToDraft(t *testing.T) {
	ctx := context.Background()
	_, uc, admin := newCourseEnv(t)

	course, err := uc.CreateCourse(ctx, admin, CourseInput{Title: strPtr("  Go basics ")})
	require.NoError(t, err)
	assert.Equal(t, "Go basics", course.Title)
	assert.Equal(t, domain.CourseDraft, course.Status)
	assert.Equal(t, admin.UserID, course.InstructorID)

	_, err = uc.CreateCourse(ctx, admin, CourseInput{Title: strPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := domain.CourseStatus("live")
	_, err = uc.CreateCourse(ctx, admin, CourseInput{Title: strPtr("x"), Status: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCourseWritesRequireAdmin(t *testing.T) {
	ctx := context.Background()
	db, uc, _ := newCourseEnv(t)
	student := testutil.SeedUser(t, ctx, db, domain.RoleStudent)
	p := domain.Principal{UserID: student.ID, Role: domain.RoleStudent}
	course := testutil.SeedCourse(t, ctx, db, domain.CourseDraft)

	_, err := uc.CreateCourse(ctx, p, CourseInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.UpdateCourse(ctx, p, course.ID, CourseInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.DeleteCourse(ctx, p, course.ID), domain.ErrForbidden)
	_, err = uc.CreateLesson(ctx, p, course.ID, LessonInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.ReorderLessons(ctx, p, course.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.CreateCourse(ctx, domain.Principal{}, CourseInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateAndListCourses(t *testing.T) {
	ctx := context.Background()
	_, uc, admin := newCourseEnv(t)

	course, err := uc.CreateCourse(ctx, admin, CourseInput{Title: strPtr("Go")})
	require.NoError(t, err)

	published := domain.CoursePublished
	updated, err := uc.UpdateCourse(ctx, admin, course.ID, CourseInput{Status: &published, Description: strPtr("intro")})
	require.NoError(t, err)
	assert.Equal(t, domain.CoursePublished, updated.Status)
	assert.Equal(t, "intro", updated.Description)
	assert.Equal(t, "Go", updated.Title)

	list, err := uc.ListCourses(ctx, domain.CoursePublished)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ListCourses(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.UpdateCourse(ctx, admin, uuid.New(), CourseInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLessonAuthoring(t *testing.T) {
	ctx := context.Background()
	_, uc, admin := newCourseEnv(t)
	course, err := uc.CreateCourse(ctx, admin, CourseInput{Title: strPtr("Go")})
	require.NoError(t, err)

	first, err := uc.CreateLesson(ctx, admin, course.ID, LessonInput{
		Title:    strPtr("Intro"),
		VideoURL: strPtr("https://vimeo.com/76979871"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, "https://player.vimeo.com/video/76979871", first.EmbedURL)

	second, err := uc.CreateLesson(ctx, admin, course.ID, LessonInput{Title: strPtr("Types")})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)

	pinned, err := uc.CreateLesson(ctx, admin, course.ID, LessonInput{Title: strPtr("Pinned"), Order: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, pinned.Order)

	_, err = uc.CreateLesson(ctx, admin, course.ID, LessonInput{Title: strPtr("Bad"), VideoURL: strPtr("https://example.com/x.mp4")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.CreateLesson(ctx, admin, uuid.New(), LessonInput{Title: strPtr("Orphan")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := uc.UpdateLesson(ctx, admin, course.ID, second.ID, LessonInput{
		Content:  strPtr("# Types"),
		VideoURL: strPtr("https://youtu.be/dQw4w9WgXcQ"),
	})
	require.NoError(t, err)
	assert.Equal(t, "# Types", updated.Content)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", updated.EmbedURL)

	_, err = uc.UpdateLesson(ctx, admin, uuid.New(), second.ID, LessonInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lessons, err := uc.ReorderLessons(ctx, admin, course.ID, []uuid.UUID{pinned.ID, second.ID, first.ID})
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	assert.Equal(t, pinned.ID, lessons[0].ID)
	assert.Equal(t, first.ID, lessons[2].ID)
	assert.Equal(t, 2, lessons[2].Order)

	_, err = uc.ReorderLessons(ctx, admin, course.ID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, uc.DeleteLesson(ctx, admin, course.ID, pinned.ID))
	assert.ErrorIs(t, uc.DeleteLesson(ctx, admin, course.ID, pinned.ID), domain.ErrNotFound)

	got, err := uc.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 2)
	assert.Equal(t, second.ID, got.Lessons[0].ID)
}

func TestLessonAddedAfterEnrollmentIsVisible(t *testing.T) {
	ctx := context.Background()
	db, courses, admin := newCourseEnv(t)
	published := domain.CoursePublished
	course, err := courses.CreateCourse(ctx, admin, CourseInput{Title: strPtr("Go"), Status: &published})
	require.NoError(t, err)
	first, err := courses.CreateLesson(ctx, admin, course.ID, LessonInput{Title: strPtr("One")})
	require.NoError(t, err)

	enrollments := NewEnrollmentUseCase(
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewLessonRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		nil,
		testutil.Logger(t),
		"",
	)
	student := testutil.SeedUser(t, ctx, db, domain.RoleStudent)
	p := domain.Principal{UserID: student.ID, Role: domain.RoleStudent}
	_, _, err = enrollments.Enroll(ctx, p, course.ID)
	require.NoError(t, err)

	_, err = enrollments.SetLessonProgress(ctx, p, first.ID, true)
	require.NoError(t, err)

	second, err := courses.CreateLesson(ctx, admin, course.ID, LessonInput{Title: strPtr("Two")})
	require.NoError(t, err)

	mine, err := enrollments.ListMine(ctx, p)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.ProgressCounts{Completed: 1, Total: 2, Percent: 50}, mine[0].Summary)

	res, err := enrollments.SetLessonProgress(ctx, p, second.ID, true)
	require.NoError(t, err)
	assert.True(t, res.CourseCompleted)

	require.NoError(t, courses.DeleteCourse(ctx, admin, course.ID))
	mine, err = enrollments.ListMine(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
