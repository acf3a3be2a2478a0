package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/models"
	"github.com/techmaster-vietnam/roleapi/utils"
	"gorm.io/gorm"
)

// RoleRepository handles role database operations
// Implement contracts.RoleStore
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// CreateRole creates a new role
func (r *RoleRepository) CreateRole(ctx context.Context, role *models.Role) error {
	if errs := utils.ValidateRoleName(role.Name); len(errs) > 0 {
		return core.Validation(errs...)
	}

	// Kiểm tra trùng tên trước khi insert để trả về lỗi validation thay vì lỗi constraint
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Role{}).
		Where("name = ?", role.Name).
		Count(&count).Error
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to check role name").WithData(map[string]interface{}{
			"role_name": role.Name,
		})
	}
	if count > 0 {
		return core.Validation(utils.DuplicateRoleName(role.Name))
	}

	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		// Hai request tạo cùng tên song song: unique index sẽ chặn request thứ hai
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.Validation(utils.DuplicateRoleName(role.Name))
		}
		return goerrorkit.WrapWithMessage(err, "Failed to create role").WithData(map[string]interface{}{
			"role_name": role.Name,
		})
	}
	return nil
}

// FindRoleByName gets a role by name
func (r *RoleRepository) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NotFound(fmt.Sprintf("role '%s' not found", name))
		}
		return nil, goerrorkit.WrapWithMessage(err, "Failed to find role").WithData(map[string]interface{}{
			"role_name": name,
		})
	}
	return &role, nil
}

// ListRoles lists all roles in insertion order
func (r *RoleRepository) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Order("seq").Find(&roles).Error
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Failed to list roles")
	}
	// Đảm bảo luôn trả về empty slice thay vì nil
	if roles == nil {
		return []models.Role{}, nil
	}
	return roles, nil
}
