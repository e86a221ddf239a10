package services

import (
	"context"
	"time"

	"undergraduation-admin/internal/insights"
	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/monitoring"

	"go.uber.org/zap"
)

// RecencyStore is the part of the store the recency worker needs.
type RecencyStore interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListCommunicationsFor(ctx context.Context, studentIDs []string) (models.CommsByStudent, error)
	SetStudentFlags(ctx context.Context, id string, flags models.Flags) error
}

// RecencyResult summarizes one pass of the recency worker.
type RecencyResult struct {
	Scanned      int
	NotContacted int
	Updated      int
}

// RefreshRecencyFlags recomputes the not_contacted_7d tag of every student
// from their communications, always with a 7 day threshold. Only students
// whose tag changes are written.
func RefreshRecencyFlags(ctx context.Context, store RecencyStore, now time.Time) (RecencyResult, error) {
	var res RecencyResult

	students, err := store.ListStudents(ctx)
	if err != nil {
		return res, err
	}
	comms, err := store.ListCommunicationsFor(ctx, nil)
	if err != nil {
		return res, err
	}

	for _, s := range students {
		res.Scanned++
		stale := insights.NotContacted(comms[s.ID], models.NotContactedTagDays, now)
		if stale {
			res.NotContacted++
		}
		if stale == s.Flags.Has(models.FlagNotContacted7d) {
			continue
		}

		flags := s.Flags.Without(models.FlagNotContacted7d)
		if stale {
			flags = flags.With(models.FlagNotContacted7d)
		}
		if err := store.SetStudentFlags(ctx, s.ID, flags); err != nil {
			return res, err
		}
		res.Updated++
	}
	return res, nil
}

// StartRecencyWorker starts a background goroutine that refreshes the recency
// tag every interval. The worker stops when ctx is done. A non-positive
// interval disables it.
func StartRecencyWorker(ctx context.Context, interval time.Duration, store RecencyStore) {
	if interval <= 0 {
		logger.Log.Info("recency worker: disabled")
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Log.Info("recency worker: shutting down")
				return
			case <-ticker.C:
				res, err := RefreshRecencyFlags(ctx, store, time.Now())
				if err != nil {
					monitoring.RecencyRuns.WithLabelValues("error").Inc()
					logger.Log.Error("recency worker: pass failed", zap.Error(err))
					continue
				}
				monitoring.RecencyRuns.WithLabelValues("ok").Inc()
				monitoring.StudentsNotContacted.Set(float64(res.NotContacted))
				logger.Log.Debug("recency worker: pass complete",
					zap.Int("scanned", res.Scanned),
					zap.Int("notContacted", res.NotContacted),
					zap.Int("updated", res.Updated),
				)
			}
		}
	}()
}
