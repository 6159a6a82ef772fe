// Package main is the entry point for the function analysis server.
//
// The server exposes a REST API over the analysis engine: expression
// parsing, domain resolution, derivatives, roots, monotonicity,
// concavity, asymptotes, and symmetry.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
