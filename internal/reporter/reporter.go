package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/timeguardian/timeguardian/internal/config"
	"github.com/timeguardian/timeguardian/internal/models"
	"github.com/timeguardian/timeguardian/pkg/utils"
)

// Source provides aggregated visibility data
type Source interface {
	GetAppVisibilitySince(since time.Time) ([]models.AppVisibility, error)
}

// Reporter handles report generation
type Reporter struct {
	config *config.Config
	source Source
	now    func() time.Time
}

// New creates a new reporter
func New(cfg *config.Config, source Source) *Reporter {
	return &Reporter{
		config: cfg,
		source: source,
		now:    time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.Period(periodType)
	if err != nil {
		return nil, err
	}

	// SQL does the weighted SUM and AVG
	apps, err := r.source.GetAppVisibilitySince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get app visibility: %w", err)
	}

	var totalSeconds float64
	for i := range apps {
		apps[i].VisibleMinutes = apps[i].VisibleSeconds / 60.0
		apps[i].VisibleHours = apps[i].VisibleSeconds / 3600.0
		totalSeconds += apps[i].VisibleSeconds
	}

	if totalSeconds > 0 {
		for i := range apps {
			apps[i].Percentage = (apps[i].VisibleSeconds / totalSeconds) * 100.0
		}
	}

	report := &models.Report{
		Period:         *period,
		Apps:           apps,
		VisibleSeconds: totalSeconds,
		VisibleMinutes: totalSeconds / 60.0,
		VisibleHours:   totalSeconds / 3600.0,
		GeneratedAt:    r.now(),
	}

	return report, nil
}

// Period calculates the time range for a report in the configured time zone
func (r *Reporter) Period(periodType string) (*models.ReportPeriod, error) {
	loc, err := r.config.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}

	now := r.now().In(loc)
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Visibility Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Total Visible Time: %s (%.0fm)\n\n",
		utils.FormatRoundedUnit(report.VisibleSeconds), report.VisibleMinutes)

	if len(report.Apps) == 0 {
		output += "No visibility recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-30s %8s %10s %8s %9s  %s\n", "Application", "Visible", "Avg Shown", "Samples", "Share", "")
	output += fmt.Sprintf("%s\n", "--------------------------------------------------------------------------------")

	for _, app := range report.Apps {
		output += fmt.Sprintf("%-30s %8s %9.1f%% %8d %8.1f%%  %s\n",
			truncate(app.AppName, 30),
			utils.FormatRoundedUnit(app.VisibleSeconds),
			app.AvgPercent,
			app.SampleCount,
			app.Percentage,
			utils.Bar(app.Percentage, 10))
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
