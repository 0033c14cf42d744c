// Package domain contains the core business entities of the knowledge
// base: information resources, their deterministic segments, entities,
// links and embeddings. These are pure domain objects with no knowledge
// of storage or external systems.
package domain
