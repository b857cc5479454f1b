package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sitetrack/internal/dto"
	"sitetrack/internal/middleware"
	"sitetrack/internal/services"
)

type SummaryHandler struct {
	summaryService *services.SummaryService
}

func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// Get returns the AI summary for a project. Generation failures come
// back as a fixed fallback text, never an error status.
func (h *SummaryHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	summary, err := h.summaryService.Summarize(c.Context(), user, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SummaryResponse{Summary: summary})
}
