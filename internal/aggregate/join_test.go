package aggregate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sitetrack/internal/models"
)

func TestJoinReportsAttachesReviewByID(t *testing.T) {
	r1 := models.DailyReport{ID: uuid.New(), Date: "10/03/2025", Tasks: "Poured foundation"}
	r2 := models.DailyReport{ID: uuid.New(), Date: "11/03/2025", Tasks: "Erected columns"}

	p := &models.Project{
		ID:   uuid.New(),
		Name: "Alpha",
		Reviews: datatypes.NewJSONType(map[string]models.ProjectReview{
			r1.ID.String(): {
				Comment:        "Approved",
				ReviewedByID:   uuid.NewString(),
				ReviewedByName: "Manager One",
				ReviewedAt:     time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			},
		}),
	}

	views := JoinReports(p, []models.DailyReport{r1, r2})
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}

	// Date descending: r2 first.
	if views[0].ID != r2.ID {
		t.Errorf("expected most recent report first")
	}
	if views[0].ManagerReview != nil {
		t.Errorf("unreviewed report must have nil review")
	}
	if views[1].ManagerReview == nil || views[1].ManagerReview.Comment != "Approved" {
		t.Errorf("reviewed report must carry its review, got %+v", views[1].ManagerReview)
	}
}

func TestJoinReportsEmptyReviewMap(t *testing.T) {
	p := &models.Project{ID: uuid.New(), Name: "Beta"}
	r := models.DailyReport{ID: uuid.New(), Date: "01/01/2025"}

	views := JoinReports(p, []models.DailyReport{r})
	if len(views) != 1 || views[0].ManagerReview != nil {
		t.Fatalf("expected one unreviewed view, got %+v", views)
	}
}

func TestSortReportViewsStableTiesAndBadDates(t *testing.T) {
	a := ReportView{DailyReport: models.DailyReport{ID: uuid.New(), Date: "10/03/2025", Tasks: "a"}}
	b := ReportView{DailyReport: models.DailyReport{ID: uuid.New(), Date: "10/03/2025", Tasks: "b"}}
	bad := ReportView{DailyReport: models.DailyReport{ID: uuid.New(), Date: "not-a-date"}}
	old := ReportView{DailyReport: models.DailyReport{ID: uuid.New(), Date: "01/01/2020"}}

	views := []ReportView{bad, a, b, old}
	SortReportViews(views)

	if views[0].Tasks != "a" || views[1].Tasks != "b" {
		t.Errorf("equal dates must keep input order, got %q then %q", views[0].Tasks, views[1].Tasks)
	}
	if views[2].Date != "01/01/2020" {
		t.Errorf("older dated report expected third, got %q", views[2].Date)
	}
	if views[3].Date != "not-a-date" {
		t.Errorf("unparsable date must sort last, got %q", views[3].Date)
	}
}
