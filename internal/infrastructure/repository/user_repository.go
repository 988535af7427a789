package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, email, name string, role domain.Role) error {
	return translate(r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email": email,
			"name":  name,
			"role":  role,
		}).Error)
}

// DeleteByExternalID removes the user together with their enrollments and
// progress rows. Deleting an unknown user is not an error.
func (r *UserRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		err := tx.Where("external_id = ?", externalID).First(&user).Error
		if err != nil {
			if translate(err) == domain.ErrNotFound {
				return nil
			}
			return err
		}

		enrollments := tx.Model(&domain.Enrollment{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("enrollment_id IN (?)", enrollments).Delete(&domain.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&domain.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, "id = ?", user.ID).Error
	})
}
