package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type
// conversion.
type ConfigStore interface {
	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value. The value is persisted
	// immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Configuration keys understood by the application.
const (
	// KeyRootDir is the root all chunk file paths are stored relative
	// to. Defaults to the working directory.
	KeyRootDir = "root_dir"

	// KeyChunkFile is the path of the CSV chunk store backing file.
	KeyChunkFile = "chunk_file"

	// KeyMaxTokens is the advisory token budget per chunk.
	KeyMaxTokens = "max_tokens_per_chunk"

	// KeyTokenEncoding is the tiktoken encoding used for counting.
	KeyTokenEncoding = "token_encoding"

	// KeyWatchFiles enables reload notices when the open file changes
	// on disk.
	KeyWatchFiles = "watch_files"
)
