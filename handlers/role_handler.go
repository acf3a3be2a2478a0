package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/service"
)

// Success messages
const (
	MsgRoleCreated = "Role created successfully"
	MsgRoleAdded   = "Role added successfully"
	MsgRoleRemoved = "Role removed successfully"
	MsgRoleUpdated = "Role updated successfully"
)

// RoleHandler handles role endpoints
type RoleHandler struct {
	roleService *service.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// GetAllRoles handles list roles request
// GET /GetAllRoles
func (h *RoleHandler) GetAllRoles(c *fiber.Ctx) error {
	roles, err := h.roleService.ListRoles(c.UserContext())
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(NewResponse(fiber.StatusOK, "", roles))
}

// CreateRole handles create role request
// POST /CreateRole?roleName=
// Lỗi validation trả về nguyên danh sách lỗi của store, không bọc envelope
func (h *RoleHandler) CreateRole(c *fiber.Ctx) error {
	roleName := strings.Clone(c.Query("roleName"))

	if _, err := h.roleService.CreateRole(c.UserContext(), roleName); err != nil {
		if core.KindOf(err) == core.KindValidation {
			return c.Status(fiber.StatusBadRequest).JSON(core.StoreErrors(err))
		}
		return WriteError(c, err)
	}
	return c.SendString(MsgRoleCreated)
}

// AddRole handles add role to user request
// POST /AddRole/:userId/:roleName
func (h *RoleHandler) AddRole(c *fiber.Ctx) error {
	err := h.roleService.AssignRole(c.UserContext(), param(c, "userId"), param(c, "roleName"))
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(NewResponse(fiber.StatusOK, "", MsgRoleAdded))
}

// RemoveRole handles remove role from user request
// DELETE /RemoveRole/:userId/:roleName
func (h *RoleHandler) RemoveRole(c *fiber.Ctx) error {
	err := h.roleService.UnassignRole(c.UserContext(), param(c, "userId"), param(c, "roleName"))
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(NewResponse(fiber.StatusOK, "", MsgRoleRemoved))
}

// UpdateRole handles rename user role request
// PUT /UpdateRole/:userId/:oldRoleName/:newRoleName
func (h *RoleHandler) UpdateRole(c *fiber.Ctx) error {
	err := h.roleService.RenameUserRole(
		c.UserContext(),
		param(c, "userId"),
		param(c, "oldRoleName"),
		param(c, "newRoleName"),
	)
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(NewResponse(fiber.StatusOK, "", MsgRoleUpdated))
}
