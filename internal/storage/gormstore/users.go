package gormstore

import (
	"context"

	"gorm.io/gorm/clause"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
)

// CreateUser implements storage.UserStore.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(user).Error)
}

// GetUserByID implements storage.UserStore.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByEmail implements storage.UserStore. Emails are stored lower-cased.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// ListUsers implements storage.UserStore.
func (s *Store) ListUsers(ctx context.Context, page pagination.PageRequest) ([]models.User, int64, error) {
	base := s.conn(ctx).Model(&models.User{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var users []models.User
	if err := base.Order("created_at ASC, id ASC").Scopes(page.Scope()).Find(&users).Error; err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}

// UpdateUser implements storage.UserStore. Only the user's own columns are
// written; the expense relation is never saved through the user.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Save(user).Error)
}

// DeleteUser implements storage.UserStore.
func (s *Store) DeleteUser(ctx context.Context, id string) (int64, error) {
	res := s.conn(ctx).Where("id = ?", id).Delete(&models.User{})
	return res.RowsAffected, translate(res.Error)
}
