// Package dto defines the decode targets for the Rubrik REST API responses.
// Each query response is modelled as a typed structure so that a shape
// mismatch surfaces as a decode error instead of a silent zero value.
package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse covers both outcomes of POST /api/v1/login: a successful
// login carries Token, a rejected one carries Message.
type LoginResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// JobSummary is the daily backup job report.
type JobSummary struct {
	SuccessCount int64 `json:"successCount"`
	FailureCount int64 `json:"failureCount"`
	RunningCount int64 `json:"runningCount"`
}

// SystemStorage reports raw cluster capacity in bytes. Its "used" figure
// includes system space, which is why snapshot usage comes from a separate
// endpoint.
type SystemStorage struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
}

// SnapshotStorage reports snapshot-physical usage. The API returns the byte
// count as a JSON string.
type SnapshotStorage struct {
	Value string `json:"value"`
}

// GrowthStat is the average daily storage growth in bytes.
type GrowthStat struct {
	Bytes int64 `json:"bytes"`
}

// StatPoint is one sample of a Rubrik time series.
type StatPoint struct {
	Time string  `json:"time"`
	Stat float64 `json:"stat"`
}

// NodeList is the cluster node inventory with per-node status.
type NodeList struct {
	Total int        `json:"total"`
	Data  []NodeInfo `json:"data"`
}

type NodeInfo struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// StreamCount is the number of currently active backup streams.
type StreamCount struct {
	Count int64 `json:"count"`
}

// IOStats is the short-range IO report with per-second read/write series.
type IOStats struct {
	IOPS         IOPSRates       `json:"iops"`
	IOThroughput ThroughputRates `json:"ioThroughput"`
}

type IOPSRates struct {
	ReadsPerSecond  []StatPoint `json:"readsPerSecond"`
	WritesPerSecond []StatPoint `json:"writesPerSecond"`
}

type ThroughputRates struct {
	ReadBytePerSecond  []StatPoint `json:"readBytePerSecond"`
	WriteBytePerSecond []StatPoint `json:"writeBytePerSecond"`
}
