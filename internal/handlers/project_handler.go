package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sitetrack/internal/aggregate"
	"sitetrack/internal/dto"
	"sitetrack/internal/middleware"
	"sitetrack/internal/models"
	"sitetrack/internal/services"
	"sitetrack/internal/storage"
	"sitetrack/internal/visibility"
)

// imageURLExpiry bounds how long a presigned report-image link stays
// valid after the dashboard fetched it.
const imageURLExpiry = 15 * time.Minute

type ProjectHandler struct {
	projectService *services.ProjectService
	resolver       *visibility.Resolver
	images         storage.ImageStore
}

func NewProjectHandler(projectService *services.ProjectService, resolver *visibility.Resolver, images storage.ImageStore) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, resolver: resolver, images: images}
}

// List returns every project the actor may observe, each with its
// derived schedule progress.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	projects, err := h.resolver.VisibleProjects(c.Context(), user)
	if err != nil {
		return serviceError(c, err)
	}

	now := time.Now()
	resp := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, dto.ProjectResponse{
			Project:  p,
			Progress: aggregate.ComputeProgress(p.ConstructionStartDate, p.PlannedAcceptanceDate, now),
		})
	}
	return c.JSON(resp)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	project, err := h.projectService.GetProject(c.Context(), user, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.ProjectResponse{
		Project:  *project,
		Progress: aggregate.ComputeProgress(project.ConstructionStartDate, project.PlannedAcceptanceDate, time.Now()),
	})
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	project, err := h.projectService.CreateProject(c.Context(), user, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	project, err := h.projectService.UpdateProject(c.Context(), user, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(project)
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	if err := h.projectService.DeleteProject(c.Context(), user, id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}

func (h *ProjectHandler) AddReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid project id")
	}
	reportID, err := uuid.Parse(c.Params("reportId"))
	if err != nil {
		return badRequest(c, "Invalid report id")
	}

	var req dto.AddReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.projectService.AddReview(c.Context(), user, projectID, reportID, &req); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Review added"})
}

// Reports returns the project's reports newest-first, each joined with
// its review (if any) and presigned image links. A presign failure drops
// that one link rather than failing the listing.
func (h *ProjectHandler) Reports(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid project id")
	}

	project, err := h.projectService.GetProject(c.Context(), user, id)
	if err != nil {
		return serviceError(c, err)
	}

	reports, err := h.resolver.VisibleReports(c.Context(), user, []models.Project{*project})
	if err != nil {
		return serviceError(c, err)
	}

	views := aggregate.JoinReports(project, reports)
	for i := range views {
		for _, key := range views[i].Images {
			url, err := h.images.PresignGet(c.Context(), key, imageURLExpiry)
			if err != nil {
				slog.Warn("failed to presign report image", "key", key, "error", err)
				continue
			}
			views[i].ImageURLs = append(views[i].ImageURLs, url)
		}
	}
	return c.JSON(views)
}
