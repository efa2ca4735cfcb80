package driven

// ConfigStore provides access to user settings.
// Keys are dotted paths ("llm.provider") flattened from the backing file.
type ConfigStore interface {
	// Get retrieves a value by key and reports whether it exists.
	Get(key string) (any, bool)

	// GetString returns "" if the key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 if the key is missing or not an integer.
	GetInt(key string) int

	// GetBool returns false if the key is missing or not a boolean.
	GetBool(key string) bool

	// GetStringSlice returns nil if the key is missing or not a slice.
	GetStringSlice(key string) []string

	// Set stores and persists a value.
	Set(key string, value any) error

	// Delete removes a key and persists the change. Deleting a missing key
	// is not an error.
	Delete(key string) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the backing file path, or ":memory:" for in-memory stores.
	Path() string
}
