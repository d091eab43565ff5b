package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// StatsTTLSeconds is how long catalog statistics are cached.
	StatsTTLSeconds int `mapstructure:"stats_ttl_seconds" default:"60"`
	// MaxPageSize caps the page_size query parameter.
	MaxPageSize int `mapstructure:"max_page_size" default:"100"`
}

// PageSize clamps a requested page size to (0, MaxPageSize].
func (c Config) PageSize(requested int) int {
	limit := c.MaxPageSize
	if limit <= 0 {
		limit = 100
	}
	if requested <= 0 {
		return 32
	}
	if requested > limit {
		return limit
	}
	return requested
}
