package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report/internal/api/dto"
	"github.com/spec-kit/civic-report/internal/auth"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/repository"
	"github.com/spec-kit/civic-report/internal/service"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// IssuesHandler manages issue endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// Create POST /issues.
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	location, err := parseLocation(req.Location)
	if err != nil {
		return err
	}

	issue, err := h.service.Create(c.Context(), user.ID, service.IssueCreateInput{
		Category:    req.Category,
		Description: req.Description,
		Priority:    req.Priority,
		Emergency:   req.Emergency,
		Location:    location,
		Media:       req.Media.ToMedia(),
		VoiceNote:   req.VoiceNote.ToMedia(),
		Department:  req.Department,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"issue": dto.NewIssueResponse(issue)})
}

// List GET /issues.
func (h *IssuesHandler) List(c *fiber.Ctx) error {
	filter := parseIssueQuery(c)
	issues, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"issues": dto.NewIssueResponses(issues)})
}

// Update PATCH /issues/:id. No role check in the reference surface:
// administrator trust is assumed for this route.
func (h *IssuesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.service.UpdateStatus(c.Context(), c.Params("id"), service.IssueUpdateInput{
		Status:     req.Status,
		Department: req.Department,
		Priority:   req.Priority,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"issue": dto.NewIssueResponse(issue)})
}

func parseLocation(loc *dto.LocationRequest) (*domain.Location, error) {
	if loc == nil {
		return nil, nil
	}
	if loc.Latitude == nil || loc.Longitude == nil {
		return nil, apperrors.NewValidationError("latitude and longitude are required together", nil)
	}
	return &domain.Location{Latitude: *loc.Latitude, Longitude: *loc.Longitude}, nil
}

func parseIssueQuery(c *fiber.Ctx) repository.IssueFilter {
	filter := repository.IssueFilter{}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if status := c.Query("status"); status != "" {
		s := domain.IssueStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := domain.IssuePriority(priority)
		filter.Priority = &p
	}
	if from := parseTime(c.Query("from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("to")); to != nil {
		filter.CreatedTo = to
	}
	return filter
}

// parseTime accepts RFC 3339 timestamps and unix seconds.
func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		parsed := time.Unix(secs, 0)
		return &parsed
	}
	return nil
}
