// Package config provides environment-driven application configuration.
//
// Configuration is loaded from environment variables via envconfig with
// sensible defaults, covering the HTTP server, logging, rate limiting,
// and the analysis engine's numeric search window.
package config
