package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses newest first, optionally filtered by status.
func (r *CourseRepository) List(ctx context.Context, status domain.CourseStatus) ([]domain.Course, error) {
	var courses []domain.Course
	query := r.db.WithContext(ctx).Model(&domain.Course{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

// GetWithLessons loads the course and its lessons in display order.
func (r *CourseRepository) GetWithLessons(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(lessonOrder)
		}).
		First(&course, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CourseRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Course{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the course with its lessons, enrollments and progress.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollments := tx.Model(&domain.Enrollment{}).Select("id").Where("course_id = ?", id)
		lessons := tx.Model(&domain.Lesson{}).Select("id").Where("course_id = ?", id)

		if err := tx.Where("enrollment_id IN (?) OR lesson_id IN (?)", enrollments, lessons).
			Delete(&domain.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Lesson{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Course{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
