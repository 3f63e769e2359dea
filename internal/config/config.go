// Package config loads relmap configuration from defaults, an optional
// relmap.yaml file, RELMAP_-prefixed environment variables and CLI
// flags, in ascending precedence.
package config

// Defaults for configuration values not otherwise provided.
const (
	DefaultOutput         = "json"
	DefaultMaxQueryLength = 200
)

// Config is the resolved relmap configuration.
type Config struct {
	// ProjectRoot bounds SQL artifact discovery; resolved to an
	// absolute path at load time.
	ProjectRoot string `koanf:"project_root"`
	// MaxQueryLength caps query text stored in relation maps.
	MaxQueryLength int `koanf:"max_query_length"`
	// SQLDirNames are directory names searched for SQL artifacts.
	SQLDirNames []string `koanf:"sql_dir_names"`
	// SQLFileGlobs are file patterns treated as SQL artifacts.
	SQLFileGlobs []string `koanf:"sql_file_globs"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// Output selects CLI rendering: "json" or "table".
	Output string `koanf:"output"`
}
