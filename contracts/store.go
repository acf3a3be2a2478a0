package contracts

import (
	"context"

	"github.com/techmaster-vietnam/roleapi/models"
)

// RoleStore định nghĩa interface cho Role Store
// Ứng dụng bên ngoài có thể implement interface này với store của riêng họ
type RoleStore interface {
	// CreateRole tạo role mới. Trả về core.KindValidation kèm danh sách lỗi
	// nếu tên không hợp lệ hoặc đã tồn tại.
	CreateRole(ctx context.Context, role *models.Role) error

	// FindRoleByName lấy role theo tên, core.KindNotFound nếu không có
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)

	// ListRoles lấy tất cả roles theo thứ tự tự nhiên của store
	ListRoles(ctx context.Context) ([]models.Role, error)
}

// UserRoleAssignment định nghĩa interface cho việc gán role cho user
type UserRoleAssignment interface {
	// FindUserByID lấy user theo ID, core.KindNotFound nếu không có
	FindUserByID(ctx context.Context, id string) (*models.User, error)

	// AddToRole thêm membership edge giữa user và role
	AddToRole(ctx context.Context, user *models.User, roleName string) error

	// RemoveFromRole xóa membership edge giữa user và role
	RemoveFromRole(ctx context.Context, user *models.User, roleName string) error

	// IsInRole kiểm tra user có role cụ thể không
	IsInRole(ctx context.Context, user *models.User, roleName string) (bool, error)
}

// RoleReplacer is implemented by stores that can swap one membership edge
// for another atomically.
type RoleReplacer interface {
	ReplaceRole(ctx context.Context, user *models.User, oldRoleName, newRoleName string) error
}
