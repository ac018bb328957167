// Package health defines the /health document served by `nfs4ctl bench`.
package health

// Response reports whether the benchmark's NFS connection is usable.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      Data   `json:"data"`
	Error     string `json:"error,omitempty"`
}

// Data carries the transport counters at the time of the probe.
type Data struct {
	Server    string `json:"server"`
	State     string `json:"state"`
	StartedAt string `json:"started_at"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_sec"`
	Pending   int    `json:"pending"`
	Calls     uint64 `json:"calls"`
	Replies   uint64 `json:"replies"`
	Timeouts  uint64 `json:"timeouts"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)
