// Package services implements the business logic layer between the HTTP
// handlers and the cleaning core. Handlers stay thin: they parse requests
// and render responses, while this package owns ingestion, partitioning,
// statistics, persistence through the registry and report generation.
//
// Services follow these principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Sentinel errors for conditions handlers must distinguish
//	4. Structured logging with component loggers
package services
