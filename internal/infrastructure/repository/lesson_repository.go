package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lessons sort by order; equal orders fall back to creation time, then id.
const lessonOrder = `"order" asc, created_at asc, id asc`

type LessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(lessonOrder).
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &lesson, nil
}

func (r *LessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

// NextOrder is one past the highest order in the course, 0 for an empty course.
func (r *LessonRepository) NextOrder(ctx context.Context, courseID uuid.UUID) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&domain.Lesson{}).
		Select(`COALESCE(MAX("order"), -1) + 1`).
		Where("course_id = ?", courseID).
		Scan(&next).Error
	return next, err
}

func (r *LessonRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Lesson{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Reorder assigns order = position in ids. Ids outside the course are ignored.
func (r *LessonRepository) Reorder(ctx context.Context, courseID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&domain.Lesson{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("order", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the lesson and every progress row pointing at it.
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&domain.LessonProgress{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Lesson{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
