package metrics

import "time"

type MetricsProvider interface {
	IncrementHTTPRequests(route, method, status string)
	RecordHTTPRequestDuration(route, method string, duration time.Duration)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementCacheHits()
	IncrementCacheMisses()
	RecordCacheOperationDuration(operation string, duration time.Duration)

	IncrementUserOperations(operation string, success bool)
	IncrementPostOperations(operation string, success bool)
	IncrementFollowOperations(operation string, success bool)
	IncrementMailsSent(kind string, success bool)
	SetActiveSessions(count int)

	SetServiceHealth(healthy bool)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) IncrementHTTPRequests(string, string, string)            {}
func (Noop) RecordHTTPRequestDuration(string, string, time.Duration) {}
func (Noop) IncrementDatabaseQueries(string, bool)                   {}
func (Noop) RecordDatabaseQueryDuration(string, time.Duration)       {}
func (Noop) IncrementCacheHits()                                     {}
func (Noop) IncrementCacheMisses()                                   {}
func (Noop) RecordCacheOperationDuration(string, time.Duration)      {}
func (Noop) IncrementUserOperations(string, bool)                    {}
func (Noop) IncrementPostOperations(string, bool)                    {}
func (Noop) IncrementFollowOperations(string, bool)                  {}
func (Noop) IncrementMailsSent(string, bool)                         {}
func (Noop) SetActiveSessions(int)                                   {}
func (Noop) SetServiceHealth(bool)                                   {}
