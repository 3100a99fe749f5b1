package metrics

import "sync/atomic"

// Collector counts requests by outcome class. Snapshot is served on
// /metrics for external scrapers.
type Collector struct {
	requests     atomic.Int64
	clientErrors atomic.Int64
	serverErrors atomic.Int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Observe(status int) {
	c.requests.Add(1)
	switch {
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
}

type Snapshot struct {
	Requests     int64 `json:"requests"`
	ClientErrors int64 `json:"client_errors"`
	ServerErrors int64 `json:"server_errors"`
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:     c.requests.Load(),
		ClientErrors: c.clientErrors.Load(),
		ServerErrors: c.serverErrors.Load(),
	}
}
