// Package driven defines the outbound ports: interfaces the core
// services require from infrastructure adapters (storage, text
// extraction, entity extraction, embeddings).
package driven
