package instance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"go.uber.org/zap"
)

// DefaultRetention is how long an untouched instance is kept
const DefaultRetention = 30 * 24 * time.Hour

// SweepResult summarizes a cleanup sweep
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Purged  []string `json:"purged"`
	Corrupt []string `json:"corrupt"`
	Failed  []string `json:"failed"`
	Kept    int      `json:"kept"`
}

// Purge deletes instances whose last interaction is older than retention.
// Documents that can no longer be decoded are removed as well; they would
// otherwise be recreated with the same ID on the next resolution anyway.
// Documents that could not be read are left alone and reported as Failed.
func (r *Repository) Purge(ctx context.Context, retention time.Duration) (SweepResult, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := r.clock.Now().Add(-retention)

	names, err := r.store.List(ctx, paths.Instances)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list instances: %w", err)
	}

	result := SweepResult{Purged: []string{}, Corrupt: []string{}, Failed: []string{}}
	for _, name := range names {
		instanceID, ok := paths.InstanceIDFromDoc(name)
		if !ok {
			continue
		}
		result.Scanned++

		inst, err := r.read(ctx, instanceID)
		switch {
		case err == nil:
		case storage.IsNotFound(err):
			continue
		case isCorrupt(err):
			if err := r.Delete(ctx, instanceID); err != nil {
				r.logger.Warn("Failed to remove corrupt instance", zap.String("instance_id", instanceID), zap.Error(err))
				result.Failed = append(result.Failed, instanceID)
				continue
			}
			result.Corrupt = append(result.Corrupt, instanceID)
			continue
		default:
			r.logger.Warn("Skipping unreadable instance", zap.String("instance_id", instanceID), zap.Error(err))
			result.Failed = append(result.Failed, instanceID)
			continue
		}

		if inst.LastInteraction.Before(cutoff) {
			if err := r.Delete(ctx, instanceID); err != nil {
				r.logger.Warn("Failed to purge instance", zap.String("instance_id", instanceID), zap.Error(err))
				result.Kept++
				continue
			}
			result.Purged = append(result.Purged, instanceID)
			continue
		}
		result.Kept++
	}

	r.metrics.RecordSweep(result.Kept+len(result.Failed), len(result.Purged)+len(result.Corrupt))
	r.logger.Info("Instance sweep complete",
		zap.Int("scanned", result.Scanned),
		zap.Int("purged", len(result.Purged)),
		zap.Int("corrupt", len(result.Corrupt)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("retention", retention))
	return result, nil
}

// Stats describes the persisted instances
type Stats struct {
	Total     int            `json:"total"`
	Animating int            `json:"animating"`
	ByDesign  map[string]int `json:"byDesign"`
	Oldest    *time.Time     `json:"oldestInteraction,omitempty"`
	DiskBytes int64          `json:"diskBytes"`
	DesignIDs []string       `json:"designIds"`
}

// Stats aggregates the persisted instances
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	list, err := r.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{ByDesign: make(map[string]int), DesignIDs: []string{}}
	for _, inst := range list {
		stats.Total++
		if inst.IsAnimating {
			stats.Animating++
		}
		if _, seen := stats.ByDesign[inst.DesignID]; !seen {
			stats.DesignIDs = append(stats.DesignIDs, inst.DesignID)
		}
		stats.ByDesign[inst.DesignID]++
		if stats.Oldest == nil || inst.LastInteraction.Before(*stats.Oldest) {
			t := inst.LastInteraction
			stats.Oldest = &t
		}
	}
	sort.Strings(stats.DesignIDs)

	used, err := r.store.Usage(ctx, paths.State)
	if err != nil {
		r.logger.Warn("Failed to measure state usage", zap.Error(err))
	}
	stats.DiskBytes = used
	return stats, nil
}
