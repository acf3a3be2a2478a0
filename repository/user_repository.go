package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/models"
	"github.com/techmaster-vietnam/roleapi/utils"
	"gorm.io/gorm"
)

// UserRepository handles user and user_roles database operations
// Implement contracts.UserRoleAssignment và contracts.RoleReplacer
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user (dùng cho seed và test)
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Roles").Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.Validation(utils.DuplicateUserName(user.Username))
		}
		return goerrorkit.WrapWithMessage(err, "Failed to create user").WithData(map[string]interface{}{
			"username": user.Username,
		})
	}
	return nil
}

// FindUserByID gets a user by ID with roles preloaded
func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	// ID không đúng định dạng uuid thì chắc chắn không tồn tại
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, core.NotFound(fmt.Sprintf("user '%s' not found", id))
	}

	var user models.User
	err = r.db.WithContext(ctx).Preload("Roles", func(db *gorm.DB) *gorm.DB {
		return db.Order("roles.seq")
	}).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFound(fmt.Sprintf("user '%s' not found", id))
		}
		return nil, goerrorkit.WrapWithMessage(err, "Failed to find user").WithData(map[string]interface{}{
			"user_id": id,
		})
	}
	return &user, nil
}

// AddToRole adds a role to a user
// Sử dụng PostgreSQL ON CONFLICT DO NOTHING, RowsAffected = 0 nghĩa là user đã có role
func (r *UserRepository) AddToRole(ctx context.Context, user *models.User, roleName string) error {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("role %s does not exist", roleName)
		}
		return goerrorkit.WrapWithMessage(err, "Failed to find role").WithData(map[string]interface{}{
			"role_name": roleName,
		})
	}

	result := r.db.WithContext(ctx).Exec(
		"INSERT INTO user_roles (user_id, role_id) VALUES (?, ?) ON CONFLICT (user_id, role_id) DO NOTHING",
		user.ID, role.ID,
	)
	if result.Error != nil {
		return goerrorkit.WrapWithMessage(result.Error, "Failed to add role to user").WithData(map[string]interface{}{
			"user_id":   user.ID.String(),
			"role_name": roleName,
		})
	}
	if result.RowsAffected == 0 {
		return core.Failed(core.CodeUserAlreadyInRole, fmt.Sprintf("User already in role '%s'.", roleName))
	}
	return nil
}

// RemoveFromRole removes a role from a user
// Role không tồn tại và user không có role đều trả về UserNotInRole
func (r *UserRepository) RemoveFromRole(ctx context.Context, user *models.User, roleName string) error {
	result := r.db.WithContext(ctx).Exec(
		"DELETE FROM user_roles USING roles WHERE user_roles.role_id = roles.id AND user_roles.user_id = ? AND roles.name = ?",
		user.ID, roleName,
	)
	if result.Error != nil {
		return goerrorkit.WrapWithMessage(result.Error, "Failed to remove role from user").WithData(map[string]interface{}{
			"user_id":   user.ID.String(),
			"role_name": roleName,
		})
	}
	if result.RowsAffected == 0 {
		return core.Failed(core.CodeUserNotInRole, fmt.Sprintf("User is not in role '%s'.", roleName))
	}
	return nil
}

// IsInRole checks if a user has a specific role
func (r *UserRepository) IsInRole(ctx context.Context, user *models.User, roleName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("user_roles").
		Joins("JOIN roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.name = ?", user.ID, roleName).
		Count(&count).Error
	if err != nil {
		return false, goerrorkit.WrapWithMessage(err, "Failed to check user role").WithData(map[string]interface{}{
			"user_id":   user.ID.String(),
			"role_name": roleName,
		})
	}
	return count > 0, nil
}

// ReplaceRole đổi oldRoleName sang newRoleName trong một transaction
// Nếu bước add thất bại, transaction rollback nên user vẫn giữ role cũ
func (r *UserRepository) ReplaceRole(ctx context.Context, user *models.User, oldRoleName, newRoleName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &UserRepository{db: tx}
		if err := txRepo.RemoveFromRole(ctx, user, oldRoleName); err != nil {
			return err
		}
		return txRepo.AddToRole(ctx, user, newRoleName)
	})
}
