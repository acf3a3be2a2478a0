package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/roleapi/core"
	"github.com/techmaster-vietnam/roleapi/service"
)

// Response is the envelope returned by every role endpoint
type Response[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
}

// NewResponse builds a response envelope
func NewResponse[T any](statusCode int, message string, data T) Response[T] {
	return Response[T]{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

// StatusFor maps an error to the HTTP status used by the role endpoints.
// Chỉ có ba nhóm: 404, 400 generic và 400 kèm message của lỗi.
func StatusFor(err error) (int, string) {
	switch core.KindOf(err) {
	case core.KindNotFound:
		return fiber.StatusNotFound, err.Error()
	case core.KindFailed:
		return fiber.StatusBadRequest, service.MsgUnknownError
	default:
		// KindValidation và lỗi không phân loại: message được trả thẳng về client
		return fiber.StatusBadRequest, err.Error()
	}
}

// WriteError writes err as an envelope with a null payload
func WriteError(c *fiber.Ctx, err error) error {
	status, message := StatusFor(err)
	return c.Status(status).JSON(NewResponse[*string](status, message, nil))
}

// param reads a path parameter, unescaped and copied out of the request buffer
func param(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return strings.Clone(raw)
}
