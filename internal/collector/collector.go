// Package collector runs the fixed sequence of Rubrik queries that make up
// one poll cycle and converts the raw responses into the aggregate's units.
package collector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"rubrik-monitor-backend/internal/dto"
	"rubrik-monitor-backend/internal/rubrik"
)

// Query paths, in cycle order. Later queries are independent of earlier
// ones; the fixed order exists for deterministic logging and diagnostics.
const (
	pathJobSummary      = "/api/v1/report/backup_jobs/summary?report_type=daily"
	pathSystemStorage   = "/api/v1/stats/system_storage"
	pathSnapshotStorage = "/api/v1/stats/snapshot_storage/physical"
	pathAvgGrowth       = "/api/v1/stats/average_storage_growth_per_day"
	pathIngestPerDay    = "/api/v1/stats/physical_ingest_per_day/time_series?range=-2day"
	pathNodeStatus      = "/api/v1/cluster/me/node"
	pathStreamCount     = "/api/v1/stats/streams/count"
	pathIOStats         = "/api/v1/cluster/me/io_stats?range=-10sec"
	pathLiveIngest      = "/api/v1/stats/physical_ingest/time_series?range=-10sec"
)

const (
	bytesPerGB = 1000 * 1000 * 1000
	bytesPerMB = 1024 * 1024
)

// CycleResult is the delta produced by one fully successful cycle: the new
// scalar values plus the four samples to append to the streaming series.
type CycleResult struct {
	SuccessCount int64
	FailureCount int64
	RunningCount int64

	TotalGB           int64
	UsedGB            int64
	AvailableGB       int64
	AvgGrowthPerDayGB int64

	IngestedYesterdayGB int64
	IngestedTodayGB     int64

	NodeStatus string

	IOPS         int64
	ThroughputMB int64
	IngestMB     int64
	Streams      int64
}

type Collector interface {
	Collect(ctx context.Context) (*CycleResult, error)
}

type rubrikCollector struct {
	client *rubrik.Client
}

func NewCollector(client *rubrik.Client) Collector {
	return &rubrikCollector{client: client}
}

// Collect executes the query sequence in order and aborts on the first
// failure; a partial cycle never produces a result.
func (c *rubrikCollector) Collect(ctx context.Context) (*CycleResult, error) {
	result := &CycleResult{}

	// Daily backup job summary
	var jobs dto.JobSummary
	if err := c.client.Get(ctx, pathJobSummary, &jobs); err != nil {
		return nil, err
	}
	result.SuccessCount = jobs.SuccessCount
	result.FailureCount = jobs.FailureCount
	result.RunningCount = jobs.RunningCount

	// Raw system capacity. "Used" from this endpoint includes system space,
	// so snapshot usage is read from the dedicated endpoint below instead.
	var sys dto.SystemStorage
	if err := c.client.Get(ctx, pathSystemStorage, &sys); err != nil {
		return nil, err
	}
	result.TotalGB = sys.Total / bytesPerGB
	result.AvailableGB = sys.Available / bytesPerGB

	// Snapshot-physical usage; the API returns the byte count as a string.
	var snap dto.SnapshotStorage
	if err := c.client.Get(ctx, pathSnapshotStorage, &snap); err != nil {
		return nil, err
	}
	usedBytes, err := strconv.ParseInt(snap.Value, 10, 64)
	if err != nil {
		return nil, &rubrik.QueryError{
			Endpoint: pathSnapshotStorage,
			Err:      fmt.Errorf("parse snapshot storage value %q: %w", snap.Value, err),
		}
	}
	result.UsedGB = usedBytes / bytesPerGB

	var growth dto.GrowthStat
	if err := c.client.Get(ctx, pathAvgGrowth, &growth); err != nil {
		return nil, err
	}
	result.AvgGrowthPerDayGB = growth.Bytes / bytesPerGB

	// Daily ingest, indexed from the end: second-to-last is yesterday, last
	// is today. The -1day range returns values that do not line up with the
	// longer ranges, so -2day is used even for today's figure.
	var days []dto.StatPoint
	if err := c.client.Get(ctx, pathIngestPerDay, &days); err != nil {
		return nil, err
	}
	if len(days) < 2 {
		return nil, &rubrik.QueryError{
			Endpoint: pathIngestPerDay,
			Err:      fmt.Errorf("expected at least 2 daily samples, got %d", len(days)),
		}
	}
	result.IngestedYesterdayGB = int64(days[len(days)-2].Stat) / bytesPerGB
	result.IngestedTodayGB = int64(days[len(days)-1].Stat) / bytesPerGB

	var nodes dto.NodeList
	if err := c.client.Get(ctx, pathNodeStatus, &nodes); err != nil {
		return nil, err
	}
	result.NodeStatus = aggregateNodeStatus(nodes)

	var streams dto.StreamCount
	if err := c.client.Get(ctx, pathStreamCount, &streams); err != nil {
		return nil, err
	}
	result.Streams = streams.Count

	var ioStats dto.IOStats
	if err := c.client.Get(ctx, pathIOStats, &ioStats); err != nil {
		return nil, err
	}
	if len(ioStats.IOPS.ReadsPerSecond) == 0 || len(ioStats.IOPS.WritesPerSecond) == 0 ||
		len(ioStats.IOThroughput.ReadBytePerSecond) == 0 || len(ioStats.IOThroughput.WriteBytePerSecond) == 0 {
		return nil, &rubrik.QueryError{
			Endpoint: pathIOStats,
			Err:      fmt.Errorf("empty io stats series"),
		}
	}
	result.IOPS = int64(ioStats.IOPS.ReadsPerSecond[0].Stat) + int64(ioStats.IOPS.WritesPerSecond[0].Stat)
	// Each side is truncated to MB before summing.
	result.ThroughputMB = int64(ioStats.IOThroughput.ReadBytePerSecond[0].Stat)/bytesPerMB +
		int64(ioStats.IOThroughput.WriteBytePerSecond[0].Stat)/bytesPerMB

	var live []dto.StatPoint
	if err := c.client.Get(ctx, pathLiveIngest, &live); err != nil {
		return nil, err
	}
	if len(live) == 0 {
		return nil, &rubrik.QueryError{
			Endpoint: pathLiveIngest,
			Err:      fmt.Errorf("empty ingest series"),
		}
	}
	result.IngestMB = int64(live[0].Stat) / bytesPerMB

	log.Debug().
		Int64("iops", result.IOPS).
		Int64("throughput_mb", result.ThroughputMB).
		Int64("ingest_mb", result.IngestMB).
		Int64("streams", result.Streams).
		Str("node_status", result.NodeStatus).
		Msg("Cycle collected")
	return result, nil
}

// aggregateNodeStatus reports "OK" only when every node reports "OK".
// Otherwise the status of the last non-OK node encountered wins; there is no
// severity ranking.
func aggregateNodeStatus(nodes dto.NodeList) string {
	status := "OK"
	for _, node := range nodes.Data {
		if node.Status != "OK" {
			status = node.Status
		}
	}
	return status
}
