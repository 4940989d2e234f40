// ABOUTME: Configuration loading and parsing for agentnet
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agentmcp/agentnet/internal/zone"
)

// Config represents the complete agentnet configuration.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ResolverConfig holds agent discovery configuration.
type ResolverConfig struct {
	RegistryURL string `yaml:"registry_url"`
	LocalCache  *bool  `yaml:"local_cache"`
	MockMode    bool   `yaml:"mock_mode"`

	CacheTTL time.Duration `yaml:"-"`
	// Raw string value for YAML unmarshaling
	CacheTTLRaw string `yaml:"cache_ttl"`
}

// CacheEnabled reports whether the record cache is on. Defaults to true
// when the field is omitted.
func (r ResolverConfig) CacheEnabled() bool {
	return r.LocalCache == nil || *r.LocalCache
}

// GatewayConfig holds zone gateway configuration.
type GatewayConfig struct {
	Organization string `yaml:"organization"`

	// Classifications overrides allowed zones per level, e.g.
	// confidential: [intranet, extranet].
	Classifications map[string][]string `yaml:"classifications"`

	// SensitivePatterns replaces the default redaction pattern list when set.
	SensitivePatterns []string `yaml:"sensitive_patterns"`
}

// DatabaseConfig holds paths for the SQLite-backed stores.
type DatabaseConfig struct {
	RegistryPath string `yaml:"registry_path"`
	AuditPath    string `yaml:"audit_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Resolver.CacheTTLRaw != "" {
		cfg.Resolver.CacheTTL, err = time.ParseDuration(cfg.Resolver.CacheTTLRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing cache_ttl %q: %w", cfg.Resolver.CacheTTLRaw, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are coherent. Returns an
// error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Gateway.Organization == "" {
		return fmt.Errorf("gateway.organization is required")
	}

	for level, zones := range c.Gateway.Classifications {
		switch level {
		case zone.LevelPublic, zone.LevelInternal, zone.LevelConfidential, zone.LevelSecret:
		default:
			return fmt.Errorf("unknown classification level %q", level)
		}
		for _, z := range zones {
			if _, ok := zone.ParseZone(z); !ok {
				return fmt.Errorf("unknown zone %q for classification %q", z, level)
			}
		}
	}

	return nil
}

// ClassificationRules converts the configured overrides into classification
// values layered over the default matrix.
func (c *Config) ClassificationRules() map[string]zone.Classification {
	rules := zone.DefaultRules()
	for level, zones := range c.Gateway.Classifications {
		allowed := make([]zone.NetworkZone, 0, len(zones))
		for _, z := range zones {
			if parsed, ok := zone.ParseZone(z); ok {
				allowed = append(allowed, parsed)
			}
		}
		rules[level] = zone.Classification{Level: level, AllowedZones: allowed}
	}
	return rules
}
