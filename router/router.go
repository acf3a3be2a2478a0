package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/roleapi/handlers"
)

// DefaultPrefix là route prefix mặc định của role controller
const DefaultPrefix = "/api/Role"

// RegisterRoleRoutes mounts the role endpoints on r
func RegisterRoleRoutes(r fiber.Router, h *handlers.RoleHandler) {
	r.Get("/GetAllRoles", h.GetAllRoles)
	r.Post("/CreateRole", h.CreateRole)
	r.Post("/AddRole/:userId/:roleName", h.AddRole)
	r.Delete("/RemoveRole/:userId/:roleName", h.RemoveRole)
	r.Put("/UpdateRole/:userId/:oldRoleName/:newRoleName", h.UpdateRole)
}

// SetupRoutes sets up the health check and the role routes under prefix
func SetupRoutes(app *fiber.App, prefix string, h *handlers.RoleHandler) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	RegisterRoleRoutes(app.Group(prefix), h)
}
