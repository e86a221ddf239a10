// Package directory filters the student list behind the directory page.
package directory

import (
	"strings"
	"time"

	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/utils"

	"github.com/sahilm/fuzzy"
)

// Quick filters.
const (
	QuickNotActive7d    = "not7"
	QuickHighIntent     = "highIntent"
	QuickNeedsEssayHelp = "essayHelp"
)

const inactiveDays = 7

type Query struct {
	Text   string
	Status models.Status
	Quick  string
	// Fuzzy ranks by subsequence match instead of requiring a substring.
	Fuzzy bool
}

// ValidQuick reports whether q is a known quick filter or empty.
func ValidQuick(q string) bool {
	switch q {
	case "", QuickNotActive7d, QuickHighIntent, QuickNeedsEssayHelp:
		return true
	}
	return false
}

// Filter applies status, quick filter and text search, in that order. Text
// matching is case-insensitive and ignores accents. Substring search keeps
// input order; fuzzy search returns best matches first.
func Filter(students []models.Student, q Query, now time.Time) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		if !matchQuick(s, q.Quick, now) {
			continue
		}
		out = append(out, s)
	}

	text := utils.NormalizeSearch(q.Text)
	if text == "" {
		return out
	}
	if q.Fuzzy {
		return fuzzyFilter(out, text)
	}

	matched := out[:0]
	for _, s := range out {
		if strings.Contains(searchKey(s), text) {
			matched = append(matched, s)
		}
	}
	return matched
}

// Stats computes the directory header cards.
func Stats(students []models.Student, now time.Time) models.DirectoryStats {
	stats := models.DirectoryStats{
		Total:    len(students),
		ByStatus: make(map[models.Status]int, len(models.StatusOrder)),
	}
	for _, st := range models.StatusOrder {
		stats.ByStatus[st] = 0
	}
	for _, s := range students {
		stats.ByStatus[s.Status]++
		if matchQuick(s, QuickNotActive7d, now) {
			stats.NotActive7d++
		}
		if s.Flags.Has(models.FlagHighIntent) {
			stats.HighIntent++
		}
		if s.Flags.Has(models.FlagNeedsEssayHelp) {
			stats.NeedsEssayHelp++
		}
	}
	return stats
}

func matchQuick(s models.Student, quick string, now time.Time) bool {
	switch quick {
	case QuickNotActive7d:
		return !s.LastActiveAt.IsZero() && int(now.Sub(s.LastActiveAt)/(24*time.Hour)) >= inactiveDays
	case QuickHighIntent:
		return s.Flags.Has(models.FlagHighIntent)
	case QuickNeedsEssayHelp:
		return s.Flags.Has(models.FlagNeedsEssayHelp)
	default:
		return true
	}
}

func searchKey(s models.Student) string {
	return utils.NormalizeSearch(s.Name + " " + s.Email + " " + s.Country)
}

type searchable []models.Student

func (s searchable) String(i int) string { return searchKey(s[i]) }
func (s searchable) Len() int            { return len(s) }

func fuzzyFilter(students []models.Student, text string) []models.Student {
	matches := fuzzy.FindFrom(text, searchable(students))
	out := make([]models.Student, 0, len(matches))
	for _, m := range matches {
		out = append(out, students[m.Index])
	}
	return out
}
