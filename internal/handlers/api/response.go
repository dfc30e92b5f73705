package api

import (
	"github.com/gofiber/fiber/v3"
)

// envelope is the response shape shared by every JSON endpoint. Trend pages,
// anomaly lists and health reports all ride under data; failures carry a
// human-readable error instead. The SSE feed is the only route that bypasses
// it.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(envelope{Status: "ok", Data: data})
}

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Status: "error", Error: message})
}
