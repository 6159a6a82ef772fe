// Package middleware provides HTTP middleware for the API layer:
// CORS handling and token-bucket rate limiting (per client IP or global).
package middleware
