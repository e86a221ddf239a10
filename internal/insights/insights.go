// Package insights reduces students and their communications to the summary
// structures behind the dashboard: funnel breakdown, segment counts, daily
// communication trend and the follow-up queue.
//
// Every function is pure. The current time is passed in, and nil or partial
// inputs are treated as empty.
package insights

import (
	"math"
	"sort"
	"time"

	"undergraduation-admin/internal/models"
)

const day = 24 * time.Hour

// Options are the aggregation parameters.
type Options struct {
	RecencyThresholdDays  int
	TrendWindowDays       int
	MaxFollowupCandidates int
	StatusOrder           []models.Status
}

func DefaultOptions() Options {
	return Options{
		RecencyThresholdDays:  7,
		TrendWindowDays:       14,
		MaxFollowupCandidates: 10,
		StatusOrder:           models.StatusOrder,
	}
}

// StatusBreakdown counts students per stage of order. Percentages are relative
// to len(students), rounded half away from zero, and all zero for an empty list.
func StatusBreakdown(students []models.Student, order []models.Status) []models.StatusCount {
	counts := make(map[models.Status]int, len(order))
	for _, s := range students {
		counts[s.Status]++
	}

	total := len(students)
	out := make([]models.StatusCount, 0, len(order))
	for _, status := range order {
		c := counts[status]
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(c) / float64(total) * 100))
		}
		out = append(out, models.StatusCount{Status: status, Count: c, Percentage: pct})
	}
	return out
}

// SegmentCounts computes the insights cards. A student is "not contacted" when
// the latest communication is at least thresholdDays whole days before now, or
// when there is no communication at all.
func SegmentCounts(students []models.Student, comms models.CommsByStudent, thresholdDays int, now time.Time) models.SegmentCounts {
	seg := models.SegmentCounts{
		Total:         len(students),
		ThresholdDays: thresholdDays,
		ByFlag:        map[string]int{},
	}

	for _, s := range students {
		if NotContacted(comms[s.ID], thresholdDays, now) {
			seg.NotContacted++
		}
		for _, tag := range models.NewFlags(s.Flags...) {
			seg.ByFlag[tag]++
		}
	}

	seg.HighIntent = seg.ByFlag[models.FlagHighIntent]
	seg.NeedsEssayHelp = seg.ByFlag[models.FlagNeedsEssayHelp]
	return seg
}

// Trend buckets communications into windowDays calendar days ending with the
// day containing now, in now's location. A bucket covers [midnight, next midnight).
func Trend(comms models.CommsByStudent, windowDays int, now time.Time) models.TrendSeries {
	if windowDays < 0 {
		windowDays = 0
	}

	series := models.TrendSeries{
		Labels:    make([]string, windowDays),
		Days:      make([]time.Time, windowDays),
		Counts:    make([]int, windowDays),
		ByChannel: make([]models.ChannelSeries, len(models.Channels)),
	}
	for i, ch := range models.Channels {
		series.ByChannel[i] = models.ChannelSeries{Channel: ch, Counts: make([]int, windowDays)}
	}
	if windowDays == 0 {
		return series
	}

	loc := now.Location()
	y, m, d := now.Date()
	index := make(map[string]int, windowDays)
	for i := 0; i < windowDays; i++ {
		// time.Date normalizes day underflow and keeps DST-correct midnights.
		start := time.Date(y, m, d-(windowDays-1-i), 0, 0, 0, 0, loc)
		series.Days[i] = start
		series.Labels[i] = start.Format("Jan 2")
		index[start.Format("2006-01-02")] = i
	}

	channelIdx := make(map[models.Channel]int, len(models.Channels))
	for i, ch := range models.Channels {
		channelIdx[ch] = i
	}

	for _, list := range comms {
		for _, c := range list {
			if c.CreatedAt.IsZero() {
				continue
			}
			i, ok := index[c.CreatedAt.In(loc).Format("2006-01-02")]
			if !ok {
				continue
			}
			series.Counts[i]++
			if ci, ok := channelIdx[c.Channel]; ok {
				series.ByChannel[ci].Counts[i]++
			}
		}
	}
	return series
}

// FollowupCandidates lists students whose last contact, the later of their
// latest communication and lastActiveAt, is at least thresholdDays whole days
// old. Results are sorted by days descending, ties kept in input order, and
// capped at maxResults. Students with no contact timestamp at all are skipped.
func FollowupCandidates(students []models.Student, comms models.CommsByStudent, thresholdDays int, now time.Time, maxResults int) []models.FollowupCandidate {
	out := []models.FollowupCandidate{}
	if maxResults <= 0 {
		return out
	}

	for _, s := range students {
		last := s.LastActiveAt
		if c, ok := latestCommunication(comms[s.ID]); ok && c.After(last) {
			last = c
		}
		if last.IsZero() {
			continue
		}

		days := elapsedDays(last, now)
		if days < thresholdDays {
			continue
		}
		out = append(out, models.FollowupCandidate{
			StudentID:            s.ID,
			Name:                 s.Name,
			Email:                s.Email,
			Status:               s.Status,
			LastContactAt:        last,
			DaysSinceLastContact: days,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysSinceLastContact > out[j].DaysSinceLastContact
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// NotContacted reports whether the latest of list is at least thresholdDays
// whole days before now. An empty list counts as not contacted.
func NotContacted(list []models.Communication, thresholdDays int, now time.Time) bool {
	last, ok := latestCommunication(list)
	return !ok || elapsedDays(last, now) >= thresholdDays
}

// Build computes the full insights payload.
func Build(students []models.Student, comms models.CommsByStudent, opts Options, now time.Time) models.InsightsSnapshot {
	order := opts.StatusOrder
	if len(order) == 0 {
		order = models.StatusOrder
	}
	return models.InsightsSnapshot{
		GeneratedAt:     now,
		StatusBreakdown: StatusBreakdown(students, order),
		Segments:        SegmentCounts(students, comms, opts.RecencyThresholdDays, now),
		Trend:           Trend(comms, opts.TrendWindowDays, now),
		Followups:       FollowupCandidates(students, comms, opts.RecencyThresholdDays, now, opts.MaxFollowupCandidates),
	}
}

func latestCommunication(list []models.Communication) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, c := range list {
		if c.CreatedAt.IsZero() {
			continue
		}
		if !found || c.CreatedAt.After(latest) {
			latest = c.CreatedAt
			found = true
		}
	}
	return latest, found
}

// elapsedDays is floor((now - t) / 24h), never negative.
func elapsedDays(t, now time.Time) int {
	d := now.Sub(t)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}
