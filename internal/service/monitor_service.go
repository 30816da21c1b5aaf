package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"rubrik-monitor-backend/config"
	"rubrik-monitor-backend/internal/collector"
	"rubrik-monitor-backend/internal/model"
	"rubrik-monitor-backend/internal/rubrik"
	"rubrik-monitor-backend/internal/series"
	"rubrik-monitor-backend/internal/store"
)

// Error payload messages are part of the dashboard contract; the detailed
// cause goes to the log instead.
const (
	errTokenMessage   = "Error getting login token from Rubrik"
	errCollectMessage = "Error getting data from Rubrik"
)

// MonitorService runs one poll cycle: ensure a login token, collect, merge
// the delta into the process-lifetime aggregate and publish it. Failures are
// absorbed: the session is invalidated, an error payload is published and
// the next cycle starts clean.
type MonitorService interface {
	RunCycle(ctx context.Context)
}

type monitorService struct {
	client    *rubrik.Client
	collector collector.Collector
	store     store.SnapshotStore

	stats         *model.Stats
	maxDatapoints int
}

func NewMonitorService(cfg *config.Config, client *rubrik.Client, coll collector.Collector, snapshots store.SnapshotStore) MonitorService {
	return &monitorService{
		client:        client,
		collector:     coll,
		store:         snapshots,
		stats:         model.NewStats(),
		maxDatapoints: cfg.Monitor.MaxDatapoints,
	}
}

func (s *monitorService) RunCycle(ctx context.Context) {
	if _, err := s.client.EnsureToken(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to get login token from Rubrik")
		s.store.PublishError(errTokenMessage)
		return
	}

	result, err := s.collector.Collect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error getting data from Rubrik")
		// Discard the session so the next cycle re-authenticates instead of
		// reusing a suspect token.
		s.client.Invalidate()
		s.store.PublishError(errCollectMessage)
		return
	}

	s.merge(result)

	if err := s.store.Publish(s.stats); err != nil {
		log.Error().Err(err).Msg("Failed to publish snapshot")
		s.store.PublishError(errCollectMessage)
		return
	}
	log.Debug().
		Int("datapoints", len(s.stats.IOPS)).
		Str("node_status", s.stats.NodeStatus).
		Msg("Snapshot published")
}

// merge overwrites the scalar fields with the cycle's values and appends the
// four streaming samples, trimming each series to the configured cap. Called
// only with a fully successful cycle, so the aggregate never mixes cycles.
func (s *monitorService) merge(r *collector.CycleResult) {
	s.stats.SuccessCount = r.SuccessCount
	s.stats.FailureCount = r.FailureCount
	s.stats.RunningCount = r.RunningCount
	s.stats.Total = r.TotalGB
	s.stats.Used = r.UsedGB
	s.stats.Available = r.AvailableGB
	s.stats.AvgGrowthPerDay = r.AvgGrowthPerDayGB
	s.stats.IngestedYesterday = r.IngestedYesterdayGB
	s.stats.IngestedToday = r.IngestedTodayGB
	s.stats.NodeStatus = r.NodeStatus

	s.stats.IOPS = series.AppendAndTrim(s.stats.IOPS, r.IOPS, s.maxDatapoints)
	s.stats.Throughput = series.AppendAndTrim(s.stats.Throughput, r.ThroughputMB, s.maxDatapoints)
	s.stats.Ingest = series.AppendAndTrim(s.stats.Ingest, r.IngestMB, s.maxDatapoints)
	s.stats.Streams = series.AppendAndTrim(s.stats.Streams, r.Streams, s.maxDatapoints)
}
