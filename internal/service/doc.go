// Package service provides the service registry for provider management.
//
// The registry maintains a catalog of available service providers and
// routes tool execution to the owning provider by tool ID prefix.
//
// Components:
//   - Registry: Central service catalog
//   - Provider: Interface for service implementations
//
// Features:
//   - Thread-safe service registration
//   - Category-based filtering
//   - Tool execution with context passing
//   - Service statistics and health
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(analysisProvider)
//	result, err := registry.Execute(ctx, "analysis.analyze", params, appCtx)
package service
