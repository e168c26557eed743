package storage

import (
	"context"

	"mlaconnect/backend/internal/models"
)

// CreateUser inserts a new account. A taken email or phone number gives ErrDuplicate.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

// SaveUser writes every column of an existing user.
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Save(user).Error)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID, hash string) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMLAs returns every MLA account ordered by name.
func (s *Service) ListMLAs(ctx context.Context) ([]models.User, error) {
	var mlas []models.User
	err := s.DB.WithContext(ctx).
		Where("role = ?", models.RoleMLA).
		Order("full_name asc").
		Find(&mlas).Error
	return mlas, translate(err)
}
