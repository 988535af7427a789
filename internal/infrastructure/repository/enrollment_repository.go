package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	var e domain.Enrollment
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// GetForUser returns the enrollment only when it belongs to userID.
func (r *EnrollmentRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// GetDetailForUser loads the owned enrollment with its course, ordered
// lessons and progress rows.
func (r *EnrollmentRepository) GetDetailForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(lessonOrder)
		}).
		Preload("Progress").
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

// CreateWithProgress inserts the enrollment and one open progress row per
// lesson atomically. The rows follow the order of lessons.
func (r *EnrollmentRepository) CreateWithProgress(ctx context.Context, e *domain.Enrollment, lessons []domain.Lesson) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		if len(lessons) == 0 {
			return nil
		}
		rows := make([]domain.LessonProgress, 0, len(lessons))
		for _, l := range lessons {
			rows = append(rows, domain.LessonProgress{EnrollmentID: e.ID, LessonID: l.ID})
		}
		return tx.Create(&rows).Error
	})
	return translate(err)
}

func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Enrollment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser returns the user's enrollments, newest first, with course,
// lessons and progress preloaded.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Enrollment, error) {
	var list []domain.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(lessonOrder)
		}).
		Preload("Progress").
		Where("user_id = ?", userID).
		Order("enrolled_at desc").
		Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]domain.Enrollment, error) {
	var list []domain.Enrollment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Course").
		Preload("Course.Lessons").
		Order("enrolled_at desc").
		Find(&list).Error
	return list, err
}
