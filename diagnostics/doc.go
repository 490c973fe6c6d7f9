// Package diagnostics serves read-only HTTP endpoints describing running
// pipes and component health.
//
//	GET /pipes         stats of every registered pipe
//	GET /pipes/:name   stats of one pipe, 404 NOT_FOUND when unknown
//	GET /health        aggregate component health, 503 when unhealthy
//	GET /version       build information
//
// Stats are read from atomics, so the server may run on its own goroutine
// while the pipes are driven elsewhere.
package diagnostics
