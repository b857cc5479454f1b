package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"sitetrack/internal/aggregate"
	"sitetrack/internal/dto"
	"sitetrack/internal/middleware"
	"sitetrack/internal/models"
	"sitetrack/internal/visibility"
	"sitetrack/internal/watch"
)

// keepAliveInterval is how often an SSE comment is written so proxies
// don't reap idle connections.
const keepAliveInterval = 25 * time.Second

type StreamHandler struct {
	db       *gorm.DB
	hub      *watch.Hub
	resolver *visibility.Resolver
}

func NewStreamHandler(db *gorm.DB, hub *watch.Hub, resolver *visibility.Resolver) *StreamHandler {
	return &StreamHandler{db: db, hub: hub, resolver: resolver}
}

// Events serves a server-sent-events stream of visibility-scoped
// snapshots. Each topic signal re-runs the resolver for the connected
// user and pushes the fresh set, so clients never receive data outside
// their visible scope. Signals are coalesced: a burst of writes may
// surface as a single snapshot. The stream ends when the profile
// disappears or its role changes; the client re-authenticates and
// reconnects. Image links are not presigned here; clients fetch them
// through the report listing endpoint.
func (h *StreamHandler) Events(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	// Copy: the fiber context is not valid inside the stream writer.
	actor := *user

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	session := h.hub.NewSession()
	projects := session.Subscribe(watch.TopicProjects)
	reports := session.Subscribe(watch.TopicReports)
	users := session.Subscribe(watch.TopicUsers)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer session.Close()

		ctx := context.Background()
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		// Initial snapshots so the client renders without a separate fetch.
		if h.writeProjects(ctx, w, &actor) != nil ||
			h.writeReports(ctx, w, &actor) != nil ||
			h.writeUsers(ctx, w, &actor) != nil ||
			w.Flush() != nil {
			return
		}

		for {
			var err error
			select {
			case <-projects:
				err = h.writeProjects(ctx, w, &actor)
			case <-reports:
				err = h.writeReports(ctx, w, &actor)
			case <-users:
				current, ok := h.reloadActor(ctx, &actor)
				if !ok || current.Role != actor.Role {
					// Profile gone or role changed: the scope this
					// stream was built for no longer exists.
					return
				}
				actor = *current
				err = h.writeUsers(ctx, w, &actor)
			case <-ticker.C:
				_, err = fmt.Fprint(w, ": keep-alive\n\n")
			}
			if err != nil {
				return
			}
			// Flush doubles as disconnect detection.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

func (h *StreamHandler) writeProjects(ctx context.Context, w *bufio.Writer, actor *models.User) error {
	projects, err := h.resolver.VisibleProjects(ctx, actor)
	if err != nil {
		slog.Error("stream project snapshot failed", "user_id", actor.ID, "error", err)
		return err
	}
	now := time.Now()
	snapshot := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		snapshot = append(snapshot, dto.ProjectResponse{
			Project:  p,
			Progress: aggregate.ComputeProgress(p.ConstructionStartDate, p.PlannedAcceptanceDate, now),
		})
	}
	return writeEvent(w, watch.TopicProjects, snapshot)
}

func (h *StreamHandler) writeReports(ctx context.Context, w *bufio.Writer, actor *models.User) error {
	projects, err := h.resolver.VisibleProjects(ctx, actor)
	if err != nil {
		slog.Error("stream report snapshot failed", "user_id", actor.ID, "error", err)
		return err
	}
	reports, err := h.resolver.VisibleReports(ctx, actor, projects)
	if err != nil {
		slog.Error("stream report snapshot failed", "user_id", actor.ID, "error", err)
		return err
	}

	byProject := make(map[string][]models.DailyReport)
	for _, r := range reports {
		byProject[r.ProjectID.String()] = append(byProject[r.ProjectID.String()], r)
	}
	snapshot := make([]aggregate.ReportView, 0, len(reports))
	for i := range projects {
		snapshot = append(snapshot, aggregate.JoinReports(&projects[i], byProject[projects[i].ID.String()])...)
	}
	return writeEvent(w, watch.TopicReports, snapshot)
}

func (h *StreamHandler) writeUsers(ctx context.Context, w *bufio.Writer, actor *models.User) error {
	visible, err := h.resolver.VisibleUsers(ctx, actor)
	if err != nil {
		slog.Error("stream user snapshot failed", "user_id", actor.ID, "error", err)
		return err
	}
	snapshot := make([]dto.UserResponse, 0, len(visible))
	for i := range visible {
		snapshot = append(snapshot, dto.NewUserResponse(&visible[i]))
	}
	return writeEvent(w, watch.TopicUsers, snapshot)
}

func (h *StreamHandler) reloadActor(ctx context.Context, actor *models.User) (*models.User, bool) {
	var current models.User
	if err := h.db.WithContext(ctx).First(&current, "id = ?", actor.ID).Error; err != nil {
		return nil, false
	}
	return &current, true
}

func writeEvent(w *bufio.Writer, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", topic, data)
	return err
}
