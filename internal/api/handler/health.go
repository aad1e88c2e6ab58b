package handler

import (
	"github.com/gofiber/fiber/v2"
)

const version = "0.1.0"

// DecoderChecker reports whether frames can be decoded at all
type DecoderChecker interface {
	Available() bool
}

type HealthHandler struct {
	decoder DecoderChecker
}

func NewHealthHandler(decoder DecoderChecker) *HealthHandler {
	return &HealthHandler{decoder: decoder}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Decoder bool   `json:"decoder"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: version,
		Decoder: h.decoderAvailable(),
	})
}

// Ready returns 503 when ffmpeg is missing since every analysis would
// come back UNKNOWN
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if !h.decoderAvailable() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
			Status: "degraded",
		})
	}

	return c.JSON(HealthResponse{
		Status:  "ready",
		Decoder: true,
	})
}

func (h *HealthHandler) decoderAvailable() bool {
	return h.decoder != nil && h.decoder.Available()
}
