package store

import (
	"context"

	"salon-backend/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Create(u).Error)
}

func (s *Store) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "User not found.")
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err, "User not found.")
	}
	return &u, nil
}

// UsernameOrEmailTaken reports which of the two identifiers is already registered.
func (s *Store) UsernameOrEmailTaken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	var n int64
	if err = s.conn(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, false, translate(err)
	}
	usernameTaken = n > 0
	if err = s.conn(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, false, translate(err)
	}
	return usernameTaken, n > 0, nil
}

func (s *Store) UpdateFCMToken(ctx context.Context, userID uint64, token string) error {
	return translate(s.conn(ctx).Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", token).Error)
}
