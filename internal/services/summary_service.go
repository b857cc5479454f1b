package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sitetrack/internal/ai"
	"sitetrack/internal/models"
	"sitetrack/internal/visibility"
)

// FallbackSummary is returned whenever summarization cannot run, for any
// reason. Summary generation is best-effort and never surfaces an error
// to the caller.
const FallbackSummary = "Không thể tạo tóm tắt dự án vào lúc này. Vui lòng thử lại sau."

// SummaryService produces AI project summaries with a short-lived redis
// cache in front of the model call.
type SummaryService struct {
	db       *gorm.DB
	rdb      *redis.Client
	resolver *visibility.Resolver
	client   *ai.Client
	cacheTTL time.Duration
}

func NewSummaryService(db *gorm.DB, rdb *redis.Client, resolver *visibility.Resolver, client *ai.Client, cacheTTL time.Duration) *SummaryService {
	return &SummaryService{db: db, rdb: rdb, resolver: resolver, client: client, cacheTTL: cacheTTL}
}

// Summarize returns a summary of the project's recent reports. Cache
// hits skip the model entirely; on any failure the fixed fallback text
// is returned with a nil error.
func (s *SummaryService) Summarize(ctx context.Context, actor *models.User, projectID uuid.UUID) (string, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		return "", ErrNotFound
	}
	if !s.resolver.ProjectVisible(actor, &project) {
		return "", ErrNotFound
	}

	cacheKey := fmt.Sprintf("summary:%s", projectID)
	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		return cached, nil
	}

	var reports []models.DailyReport
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&reports).Error; err != nil {
		slog.Error("failed to load reports for summary", "project_id", projectID, "error", err)
		return FallbackSummary, nil
	}

	summary, err := s.client.GenerateProjectSummary(ctx, &project, reports)
	if err != nil {
		slog.Warn("summary generation failed", "project_id", projectID, "error", err)
		return FallbackSummary, nil
	}

	if err := s.rdb.Set(ctx, cacheKey, summary, s.cacheTTL).Err(); err != nil {
		slog.Warn("failed to cache summary", "project_id", projectID, "error", err)
	}
	return summary, nil
}
