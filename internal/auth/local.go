package auth

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

const whereID = "id = ?"

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates a new active local user.
func (p *LocalProvider) CreateUser(email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)

	var existing models.User

	err := p.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Active:   true,
		Email:    email,
		Password: hashed,
		Name:     name,
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// UpdateUser changes the display name and the active flag of a user.
// Deactivating the last active user is refused.
func (p *LocalProvider) UpdateUser(userID uint64, name string, active bool) error {
	if !active {
		if err := p.ensureOtherActive(userID); err != nil {
			return err
		}
	}

	res := p.db.Model(&models.User{}).
		Where(whereID, userID).
		Updates(map[string]any{"name": name, "active": active})
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ChangePassword changes a user's password after checking the old one.
func (p *LocalProvider) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	user, err := p.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	return p.ResetPassword(userID, newPassword)
}

// ResetPassword sets a new password without checking the old one.
func (p *LocalProvider) ResetPassword(userID uint64, newPassword string) error {
	hashed, err := models.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("password", hashed).Error
}

// DeleteUser removes a user. The last active user cannot be deleted.
func (p *LocalProvider) DeleteUser(userID uint64) error {
	if err := p.ensureOtherActive(userID); err != nil {
		return err
	}

	res := p.db.Delete(&models.User{}, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// ListUsers lists users ordered by id, optionally filtered by a search term
// matched against e-mail and name.
func (p *LocalProvider) ListUsers(search string, limit, offset int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)

	query := p.db.Model(&models.User{})

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// CountUsers returns the number of accounts.
func (p *LocalProvider) CountUsers() (int64, error) {
	var n int64

	err := p.db.Model(&models.User{}).Count(&n).Error

	return n, err
}

func (p *LocalProvider) ensureOtherActive(userID uint64) error {
	var others int64

	if err := p.db.Model(&models.User{}).
		Where("active = ? AND id <> ?", true, userID).
		Count(&others).Error; err != nil {
		return fmt.Errorf("failed to count active users: %w", err)
	}

	if others == 0 {
		return ErrLastActiveUser
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
