package repository

import (
	"context"

	"meetup/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationKey(ctx context.Context, key string) (*models.User, error)
	MarkVerified(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", email)
	}
	return &user, nil
}

func (r *userRepository) GetByVerificationKey(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("verification_key = ?", key).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "Verification key", key)
	}
	return &user, nil
}

// MarkVerified flags the account and clears its one-time key.
func (r *userRepository) MarkVerified(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"verified":         true,
		"verification_key": nil,
	}).Error
	if err != nil {
		return err
	}
	user.Verified = true
	user.VerificationKey = nil
	return nil
}
