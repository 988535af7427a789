package repository

import (
	"context"
	"time"

	"github.com/waste3d/coursehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Find(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	var p domain.LessonProgress
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProgressRepository) Create(ctx context.Context, p *domain.LessonProgress) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// SetCompleted writes the flag and its timestamp and mirrors them on p.
func (r *ProgressRepository) SetCompleted(ctx context.Context, p *domain.LessonProgress, completed bool, at time.Time) error {
	p.Mark(completed, at)
	return translate(r.db.WithContext(ctx).Model(&domain.LessonProgress{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"completed":    p.Completed,
			"completed_at": p.CompletedAt,
		}).Error)
}

func (r *ProgressRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]domain.LessonProgress, error) {
	var rows []domain.LessonProgress
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Find(&rows).Error
	return rows, err
}

// CountByEnrollments returns completed and total row counts per enrollment.
func (r *ProgressRepository) CountByEnrollments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.ProgressCounts, error) {
	out := make(map[uuid.UUID]domain.ProgressCounts, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		EnrollmentID uuid.UUID
		Completed    int
		Total        int
	}
	err := r.db.WithContext(ctx).Model(&domain.LessonProgress{}).
		Select("enrollment_id, SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completed, COUNT(*) AS total").
		Where("enrollment_id IN ?", ids).
		Group("enrollment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.EnrollmentID] = domain.NewProgressCounts(row.Completed, row.Total)
	}
	return out, nil
}
