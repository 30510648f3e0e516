package extension

// Config holds the Aegis extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.aegis" or "aegis" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// CacheTTLSeconds overrides the permission cache TTL. Zero keeps the
	// engine default of 300 seconds.
	CacheTTLSeconds int `json:"cache_ttl_seconds" mapstructure:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{}
}
