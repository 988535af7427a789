package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a private in-memory sqlite database with the full schema. It is
// closed when the test ends.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Lesson{},
		&domain.Enrollment{},
		&domain.LessonProgress{},
	); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func SeedUser(tb testing.TB, ctx context.Context, db *gorm.DB, role domain.Role) *domain.User {
	tb.Helper()
	id := uuid.New()
	u := &domain.User{
		ID:         id,
		ExternalID: "user_" + id.String(),
		Email:      id.String()[:8] + "@example.com",
		Name:       "Test User",
		Role:       role,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, db *gorm.DB, status domain.CourseStatus) *domain.Course {
	tb.Helper()
	c := &domain.Course{
		ID:     uuid.New(),
		Title:  "Course",
		Status: status,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLesson(tb testing.TB, ctx context.Context, db *gorm.DB, courseID uuid.UUID, order int) *domain.Lesson {
	tb.Helper()
	l := &domain.Lesson{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    fmt.Sprintf("Lesson %d", order),
		Order:    order,
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedLessons creates n lessons with orders 0..n-1.
func SeedLessons(tb testing.TB, ctx context.Context, db *gorm.DB, courseID uuid.UUID, n int) []*domain.Lesson {
	tb.Helper()
	out := make([]*domain.Lesson, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, SeedLesson(tb, ctx, db, courseID, i))
	}
	return out
}
