package database

import (
	"context"
	"fmt"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/contracts"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/models"
)

// DefaultRoles là các role được tạo khi SEED_DATA=true
var DefaultRoles = []string{"Admin", "User"}

// UserCreator is implemented by stores that can create users
type UserCreator interface {
	CreateUser(ctx context.Context, user *models.User) error
}

// SeedData seeds default roles and a demo user holding the "User" role.
// Chạy lại nhiều lần không tạo dữ liệu trùng.
func SeedData(ctx context.Context, roles contracts.RoleStore, users UserCreator, assignments contracts.UserRoleAssignment) (*models.User, error) {
	for _, name := range DefaultRoles {
		err := roles.CreateRole(ctx, &models.Role{Name: name})
		if err != nil && core.KindOf(err) != core.KindValidation {
			return nil, goerrorkit.WrapWithMessage(err, fmt.Sprintf("Failed to initialize role %s", name)).
				WithData(map[string]interface{}{
					"role_name": name,
				})
		}
	}

	demo := &models.User{Username: "demo", Email: "demo@example.com"}
	if err := users.CreateUser(ctx, demo); err != nil {
		// Chỉ bỏ qua khi demo user đã tồn tại từ lần seed trước
		if core.KindOf(err) == core.KindValidation {
			goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Demo user already exists"), "database.SeedData")
			return nil, nil
		}
		return nil, goerrorkit.WrapWithMessage(err, "Failed to create demo user").
			WithData(map[string]interface{}{
				"username": demo.Username,
			})
	}
	if err := assignments.AddToRole(ctx, demo, "User"); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Failed to assign default role to demo user").
			WithData(map[string]interface{}{
				"user_id": demo.ID.String(),
			})
	}
	return demo, nil
}
