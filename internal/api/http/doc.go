// Package http provides the Gin HTTP handlers for the analysis API:
// health endpoints, direct analyze/summarize routes, and the generic
// service registry surface (list, execute).
package http
