// Package services implements the core application services: the
// ingestion pipeline, entity linking, exact recall and semantic search.
// Services depend only on domain types and ports, never on adapters.
package services
