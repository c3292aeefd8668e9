// Package services implements the business logic layer between HTTP
// handlers and the election dataset.
//
// Services follow these principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate business rules
//	4. Error transformation into the shared error taxonomy
//
// ElectionService is the main entry point: it exposes the election
// catalog, normalized per-region results, national aggregates, region
// history and the variability report. HealthService reports process and
// data-directory health.
package services
