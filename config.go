package aegis

import "time"

// DefaultCacheTTL bounds the staleness of cached permission sets.
const DefaultCacheTTL = 300 * time.Second

// DefaultAuditBufferSize is the audit dispatcher's channel capacity.
const DefaultAuditBufferSize = 256

// Config holds configuration for the Aegis engine.
type Config struct {
	// CacheTTL is the time-to-live for cached permission sets.
	// Defaults to 300 seconds.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// AuditBufferSize is the capacity of the async audit buffer. Events
	// arriving while the buffer is full are dropped and logged.
	// Defaults to 256.
	AuditBufferSize int `json:"audit_buffer_size,omitempty"`

	// EnablePolicies enables ABAC policy evaluation after the RBAC gate.
	// Defaults to true.
	EnablePolicies *bool `json:"enable_policies,omitempty"`

	// EnableAudit enables async audit events on denials.
	// Defaults to true.
	EnableAudit *bool `json:"enable_audit,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	t := true
	return Config{
		CacheTTL:        DefaultCacheTTL,
		AuditBufferSize: DefaultAuditBufferSize,
		EnablePolicies:  &t,
		EnableAudit:     &t,
	}
}

func (c Config) cacheTTL() time.Duration {
	if c.CacheTTL > 0 {
		return c.CacheTTL
	}
	return DefaultCacheTTL
}

func (c Config) auditBufferSize() int {
	if c.AuditBufferSize > 0 {
		return c.AuditBufferSize
	}
	return DefaultAuditBufferSize
}

func (c Config) policiesEnabled() bool { return c.EnablePolicies == nil || *c.EnablePolicies }
func (c Config) auditEnabled() bool    { return c.EnableAudit == nil || *c.EnableAudit }
