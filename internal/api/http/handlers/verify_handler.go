package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report/internal/api/dto"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/media"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// VerifyHandler runs the authenticity gate as a standalone check so clients
// can pre-validate evidence before submitting an issue. Category
// classification is an external collaborator; the handler only echoes the
// caller-supplied category, defaulted when absent.
type VerifyHandler struct {
	gate media.Gate
}

// NewVerifyHandler constructs handler.
func NewVerifyHandler(gate media.Gate) *VerifyHandler {
	return &VerifyHandler{gate: gate}
}

// Verify POST /verify.
func (h *VerifyHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	assessment := h.gate.Assess(req.Media.ToMedia())

	category := req.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	return c.JSON(dto.VerifyResponse{
		Accepted: assessment.Accepted,
		Reason:   assessment.Reason,
		Category: category,
	})
}
