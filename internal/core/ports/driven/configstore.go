package driven

// ConfigStore provides persistent key-value configuration storage.
// Keys use dot notation for namespacing (e.g. "embedding.model",
// "extractor.patterns.strain").
type ConfigStore interface {
	// Get retrieves a value by key. Returns false if not found.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if not found.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if not found.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false if not found.
	GetBool(key string) bool

	// StringMap retrieves every string value under a key prefix, keyed
	// by the remainder after the prefix and a dot.
	StringMap(prefix string) map[string]string

	// Set stores a value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load re-reads the configuration from its backing store.
	Load() error
}
