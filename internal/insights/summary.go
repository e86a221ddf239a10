package insights

import (
	"time"

	"undergraduation-admin/internal/models"
)

// SummarizeStudent applies the profile page heuristics: engagement level, risk
// level, recommended actions and short insight lines.
func SummarizeStudent(student models.Student, interactions []models.Interaction, comms []models.Communication, tasks []models.Task, now time.Time) models.StudentSummary {
	daysInactive := wholeDays(student.LastActiveAt, now)
	total := len(interactions)

	recentComms := 0
	for _, c := range comms {
		if wholeDays(c.CreatedAt, now) <= 7 {
			recentComms++
		}
	}

	pending := 0
	for _, t := range tasks {
		if t.Status == models.TaskPending {
			pending++
		}
	}

	highIntent := student.Flags.Has(models.FlagHighIntent)
	essayHelp := student.Flags.Has(models.FlagNeedsEssayHelp)

	summary := models.StudentSummary{
		Engagement:      models.EngagementLow,
		RiskLevel:       models.RiskLow,
		DaysSinceActive: daysInactive,
		Progress:        student.Status.Progress(),
		PendingTasks:    pending,
		Recommendations: []string{},
		KeyInsights:     []string{},
	}

	switch {
	case total > 10 && daysInactive <= 3:
		summary.Engagement = models.EngagementHigh
	case total > 5 && daysInactive <= 7:
		summary.Engagement = models.EngagementMedium
	}

	switch {
	case daysInactive > 14 || (highIntent && daysInactive > 7):
		summary.RiskLevel = models.RiskHigh
	case daysInactive > 7 || pending > 2:
		summary.RiskLevel = models.RiskMedium
	}

	if daysInactive > 7 {
		summary.Recommendations = append(summary.Recommendations, "Send follow-up email to re-engage")
	}
	if essayHelp {
		summary.Recommendations = append(summary.Recommendations, "Schedule essay writing workshop")
	}
	if highIntent && student.Status == models.StatusExploring {
		summary.Recommendations = append(summary.Recommendations, "Provide college shortlisting guidance")
	}
	if pending > 2 {
		summary.Recommendations = append(summary.Recommendations, "Prioritize pending tasks")
	}
	if student.Status == models.StatusApplying && total < 5 {
		summary.Recommendations = append(summary.Recommendations, "Increase application support")
	}

	if highIntent {
		summary.KeyInsights = append(summary.KeyInsights, "High-intent student - prioritize engagement")
	}
	if essayHelp {
		summary.KeyInsights = append(summary.KeyInsights, "Needs essay writing support")
	}
	if total > 8 {
		summary.KeyInsights = append(summary.KeyInsights, "Very active on platform")
	}
	if recentComms > 2 {
		summary.KeyInsights = append(summary.KeyInsights, "Recently engaged via communications")
	}
	if student.Status == models.StatusSubmitted {
		summary.KeyInsights = append(summary.KeyInsights, "Application submitted - follow up on results")
	}

	return summary
}

// wholeDays is the number of full days from t to now, truncated toward zero.
func wholeDays(t, now time.Time) int {
	return int(now.Sub(t) / day)
}
