// Package observability provides structured logging and Prometheus metrics
// for the forum API.
//
// Logging is zap based; request-scoped loggers carry the chi request ID.
// Metrics cover HTTP traffic, authentication attempts and authorization
// decisions, and are exposed on the ops listener.
package observability
