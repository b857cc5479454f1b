package aggregate

import (
	"sort"

	"sitetrack/internal/models"
)

// ReportView is a daily report joined with its manager review from the
// parent project's reviews map. ManagerReview is nil when the report has
// not been reviewed.
type ReportView struct {
	models.DailyReport
	ManagerReview *models.ProjectReview `json:"managerReview,omitempty"`
	ImageURLs     []string              `json:"imageUrls,omitempty"`
}

// JoinReports attaches each report's review (matched by report id) from
// the project's reviews map and returns the views sorted most recent
// first. Ties and unparsable dates keep their input order; unparsable
// dates sort last.
func JoinReports(p *models.Project, reports []models.DailyReport) []ReportView {
	reviews := p.ReviewMap()
	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		view := ReportView{DailyReport: r}
		if rev, ok := reviews[r.ID.String()]; ok {
			review := rev
			view.ManagerReview = &review
		}
		views = append(views, view)
	}
	SortReportViews(views)
	return views
}

// SortReportViews orders views by parsed DD/MM/YYYY date descending,
// stable with respect to input order.
func SortReportViews(views []ReportView) {
	sort.SliceStable(views, func(i, j int) bool {
		di, erri := ParseDMY(views[i].Date)
		dj, errj := ParseDMY(views[j].Date)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return di.After(dj)
	})
}
