package models

import "time"

// StatusCount is one funnel stage of a status breakdown.
type StatusCount struct {
	Status     Status `json:"status"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// SegmentCounts summarizes the segments shown on the insights cards.
type SegmentCounts struct {
	Total          int            `json:"total"`
	NotContacted   int            `json:"notContacted"`
	ThresholdDays  int            `json:"thresholdDays"`
	HighIntent     int            `json:"highIntent"`
	NeedsEssayHelp int            `json:"needsEssayHelp"`
	ByFlag         map[string]int `json:"byFlag"`
}

// FlaggedCount returns the number of students carrying tag.
func (s SegmentCounts) FlaggedCount(tag string) int {
	return s.ByFlag[NormalizeFlag(tag)]
}

type ChannelSeries struct {
	Channel Channel `json:"channel"`
	Counts  []int   `json:"counts"`
}

// TrendSeries holds per-day communication counts over a trailing window.
// Labels, Counts and every ByChannel series have the same length.
type TrendSeries struct {
	Labels    []string        `json:"labels"`
	Days      []time.Time     `json:"days"`
	Counts    []int           `json:"counts"`
	ByChannel []ChannelSeries `json:"byChannel"`
}

// Channel returns the counts for ch, or nil when ch is not tracked.
func (t TrendSeries) Channel(ch Channel) []int {
	for _, s := range t.ByChannel {
		if s.Channel == ch {
			return s.Counts
		}
	}
	return nil
}

type FollowupCandidate struct {
	StudentID            string    `json:"studentId"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Status               Status    `json:"status"`
	LastContactAt        time.Time `json:"lastContactAt"`
	DaysSinceLastContact int       `json:"daysSinceLastContact"`
}

// InsightsSnapshot is the full insights page payload.
type InsightsSnapshot struct {
	GeneratedAt     time.Time           `json:"generatedAt"`
	StatusBreakdown []StatusCount       `json:"statusBreakdown"`
	Segments        SegmentCounts       `json:"segments"`
	Trend           TrendSeries         `json:"trend"`
	Followups       []FollowupCandidate `json:"followups"`
}

type EngagementLevel string

const (
	EngagementLow    EngagementLevel = "Low"
	EngagementMedium EngagementLevel = "Medium"
	EngagementHigh   EngagementLevel = "High"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// StudentSummary is the rule-based profile summary shown on a student page.
type StudentSummary struct {
	Engagement      EngagementLevel `json:"engagement"`
	RiskLevel       RiskLevel       `json:"riskLevel"`
	DaysSinceActive int             `json:"daysSinceActive"`
	Progress        float64         `json:"progress"`
	PendingTasks    int             `json:"pendingTasks"`
	Recommendations []string        `json:"recommendations"`
	KeyInsights     []string        `json:"keyInsights"`
}

// DirectoryStats are the header cards of the student directory.
type DirectoryStats struct {
	Total          int            `json:"total"`
	ByStatus       map[Status]int `json:"byStatus"`
	NotActive7d    int            `json:"notActive7d"`
	HighIntent     int            `json:"highIntent"`
	NeedsEssayHelp int            `json:"needsEssayHelp"`
}

// ExportResult lists where an insights export was archived.
type ExportResult struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Objects     map[string]string `json:"objects"`
}
