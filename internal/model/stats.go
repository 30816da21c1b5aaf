package model

// NodeStatusUnknown is reported until a cycle has successfully read the
// cluster node list.
const NodeStatusUnknown = "ERR"

// Stats is the aggregate view published after each successful poll cycle.
// The scalar fields always reflect the most recent cycle; the four series
// carry one sample per successful cycle, oldest first, bounded by the
// configured maximum datapoint count. The JSON field names are part of the
// dashboard contract and must not change.
type Stats struct {
	SuccessCount      int64  `json:"success_count"`
	FailureCount      int64  `json:"failure_count"`
	RunningCount      int64  `json:"running_count"`
	Total             int64  `json:"total"`
	Used              int64  `json:"used"`
	Available         int64  `json:"available"`
	AvgGrowthPerDay   int64  `json:"avg_growth_per_day"`
	IngestedYesterday int64  `json:"ingested_yesterday"`
	IngestedToday     int64  `json:"ingested_today"`
	NodeStatus        string `json:"node_status"`

	IOPS       []int64 `json:"iops"`
	Throughput []int64 `json:"throughput"`
	Ingest     []int64 `json:"ingest"`
	Streams    []int64 `json:"streams"`
}

// NewStats returns an empty aggregate. The series are initialised so they
// serialize as empty arrays rather than null.
func NewStats() *Stats {
	return &Stats{
		NodeStatus: NodeStatusUnknown,
		IOPS:       []int64{},
		Throughput: []int64{},
		Ingest:     []int64{},
		Streams:    []int64{},
	}
}
