package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type
// conversion. Keys use dot notation ("llm.provider").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and whether the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value; empty if absent or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value; 0 if absent or mistyped.
	GetInt(key string) int

	// GetBool retrieves a boolean value; false if absent or mistyped.
	GetBool(key string) bool

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
