// Package ai calls the Gemini generateContent endpoint to summarize a
// project's daily reports. The collaborator is a black box: callers treat
// any error as "no summary available" and degrade to a fixed message.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sitetrack/internal/models"
)

type GeminiRequest struct {
	Contents         []GeminiContent   `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type GeminiCandidate struct {
	Content GeminiContent `json:"content"`
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewClient builds a Gemini client. baseURL is overridable for tests and
// proxies; model defaults come from config.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// GenerateProjectSummary asks Gemini for a progress summary over the
// project's reports, most recent first. Reports must be non-empty.
func (c *Client) GenerateProjectSummary(ctx context.Context, project *models.Project, reports []models.DailyReport) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}
	if len(reports) == 0 {
		return "", fmt.Errorf("no reports to summarize")
	}

	body, err := json.Marshal(GeminiRequest{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: buildSummaryPrompt(project, reports, time.Now())}}},
		},
		GenerationConfig: &GenerationConfig{Temperature: 0.5},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed GeminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	summary := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return "", fmt.Errorf("gemini returned an empty summary")
	}
	return summary, nil
}

func buildSummaryPrompt(project *models.Project, reports []models.DailyReport, today time.Time) string {
	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		fmt.Fprintf(&sb, "Date: %s\nTasks: %s\n", r.Date, r.Tasks)
	}

	return fmt.Sprintf(`As an expert construction project analyst, provide a clear and concise summary (around 5-7 lines or a few key bullet points) of the project's progress.

**Project Context:**
- Project Name: %q
- Key Dates: Start %s, Planned End %s
- Today's Date: %d/%d/%d

**Your Task:**
Based on the daily reports, provide a summary that is easy to grasp quickly. Structure your response with these key sections:
1. **Đánh giá Chung (Overall Assessment):** Briefly evaluate the project's status (e.g., on track, behind schedule) based on the timeline.
2. **Hoạt động Chính Gần đây (Key Recent Activities):** List the most significant accomplishments from the latest reports.
3. **Rủi ro & Vấn đề Cần chú ý (Risks & Points of Attention):** Highlight any potential issues, blockers, or items that need attention. If none, state that.

**Output Format:**
- Use Markdown for clear formatting (bolding, headings, lists).
- The entire summary **must be in Vietnamese**.

**Daily Reports Data:**
---
%s
---`,
		project.Name,
		project.ConstructionStartDate, project.PlannedAcceptanceDate,
		today.Day(), int(today.Month()), today.Year(),
		sb.String())
}
