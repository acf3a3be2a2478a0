package service

import (
	"context"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/contracts"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/models"
)

// Messages returned to the client
const (
	MsgUserNotFound     = "User not found"
	MsgRoleNotFound     = "Role not found"
	MsgOldRoleNotFound  = "Old role not found"
	MsgNewRoleNotFound  = "New role not found"
	MsgUserLacksOldRole = "User does not have old role"
	MsgUnknownError     = "An unknown error occurred, please try again."
)

// RoleService handles role business logic
type RoleService struct {
	roles       contracts.RoleStore
	assignments contracts.UserRoleAssignment
}

// NewRoleService creates a new role service
func NewRoleService(roles contracts.RoleStore, assignments contracts.UserRoleAssignment) *RoleService {
	return &RoleService{
		roles:       roles,
		assignments: assignments,
	}
}

// ListRoles lists all roles in store order
func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	// Đảm bảo luôn trả về empty slice thay vì nil
	if roles == nil {
		return []models.Role{}, nil
	}
	return roles, nil
}

// CreateRole creates a new role. Tên role được giữ nguyên, không trim.
func (s *RoleService) CreateRole(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{Name: name}
	if err := s.roles.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// AssignRole adds roleName to the user identified by userID
func (s *RoleService) AssignRole(ctx context.Context, userID, roleName string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.findRole(ctx, roleName, MsgRoleNotFound); err != nil {
		return err
	}
	return s.assignments.AddToRole(ctx, user, roleName)
}

// UnassignRole removes roleName from the user identified by userID.
// Không kiểm tra role tồn tại trước khi xóa: store sẽ báo UserNotInRole.
func (s *RoleService) UnassignRole(ctx context.Context, userID, roleName string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.assignments.RemoveFromRole(ctx, user, roleName)
}

// RenameUserRole replaces oldRoleName with newRoleName on the user.
//
// Stores implementing contracts.RoleReplacer do the swap atomically. Otherwise
// the old role is removed and the new one added in two calls; when the add
// fails the old role is re-added best effort. If that also fails the user
// is left with neither role.
func (s *RoleService) RenameUserRole(ctx context.Context, userID, oldRoleName, newRoleName string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.findRole(ctx, oldRoleName, MsgOldRoleNotFound); err != nil {
		return err
	}
	if _, err := s.findRole(ctx, newRoleName, MsgNewRoleNotFound); err != nil {
		return err
	}

	inOldRole, err := s.assignments.IsInRole(ctx, user, oldRoleName)
	if err != nil {
		return err
	}
	if !inOldRole {
		return &core.Error{Kind: core.KindValidation, Message: MsgUserLacksOldRole}
	}

	if replacer, ok := s.assignments.(contracts.RoleReplacer); ok {
		return replacer.ReplaceRole(ctx, user, oldRoleName, newRoleName)
	}

	if err := s.assignments.RemoveFromRole(ctx, user, oldRoleName); err != nil {
		return err
	}
	if err := s.assignments.AddToRole(ctx, user, newRoleName); err != nil {
		if restoreErr := s.assignments.AddToRole(ctx, user, oldRoleName); restoreErr != nil {
			goerrorkit.LogError(goerrorkit.WrapWithMessage(restoreErr, "Failed to restore old role, user holds neither role").WithData(map[string]interface{}{
				"user_id":       userID,
				"old_role_name": oldRoleName,
				"new_role_name": newRoleName,
				"add_error":     err.Error(),
			}), "RoleService.RenameUserRole")
		}
		return err
	}
	return nil
}

func (s *RoleService) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.assignments.FindUserByID(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, &core.Error{Kind: core.KindNotFound, Message: MsgUserNotFound, Err: err}
		}
		return nil, err
	}
	return user, nil
}

func (s *RoleService) findRole(ctx context.Context, name, notFoundMsg string) (*models.Role, error) {
	role, err := s.roles.FindRoleByName(ctx, name)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, &core.Error{Kind: core.KindNotFound, Message: notFoundMsg, Err: err}
		}
		return nil, err
	}
	return role, nil
}
