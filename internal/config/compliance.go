package config

import "time"

const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

type ComplianceConfig struct {
	// Locale for issue titles, alert messages and violation strings ("de" or "en").
	Locale string `yaml:"locale"`
	// LockBackend serializes compliance evaluation per owner: "memory" or "redis".
	LockBackend string        `yaml:"lock_backend"`
	LockTTL     time.Duration `yaml:"lock_ttl"`
	// AuditChannel is the Redis pub/sub channel audit entries are published on.
	AuditChannel string `yaml:"audit_channel"`
}
