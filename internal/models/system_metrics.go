package models

import "time"

// SystemMetrics is a lightweight view over the Prometheus collectors.
type SystemMetrics struct {
	RequestsTotal            uint64            `json:"requestsTotal"`
	AverageRequestDurationMs float64           `json:"averageRequestDurationMs"`
	CacheHits                uint64            `json:"cacheHits"`
	CacheMisses              uint64            `json:"cacheMisses"`
	CacheHitRatio            float64           `json:"cacheHitRatio"`
	PersistWrites            uint64            `json:"persistWrites"`
	PersistFailures          uint64            `json:"persistFailures"`
	LookupsBySource          map[string]uint64 `json:"lookupsBySource"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generatedAt"`
}
