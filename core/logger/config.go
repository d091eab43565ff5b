package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the encoding of stdout logs (json, console).
	Format string `mapstructure:"format" default:"console"`
	// Dir is the directory receiving one run log file per invocation.
	Dir string `mapstructure:"dir" default:"logs"`
	// MaxSizeMB caps a single run log file before it is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb" default:"50"`
	// MaxBackups is the number of rotated run log files kept.
	MaxBackups int `mapstructure:"max_backups" default:"30"`
}
