package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/handlers"
)

// ErrorHandler là fiber.Config.ErrorHandler cho toàn app.
// Lỗi của fiber (route không tồn tại, sai method...) giữ nguyên status code;
// các lỗi còn lại được dịch giống như trong role handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(handlers.NewResponse[*string](fe.Code, fe.Message, nil))
	}

	goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Unhandled request error").WithData(map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
	}), "middleware.ErrorHandler")

	return handlers.WriteError(c, err)
}
