// Package config is the typed configuration record consumed (not owned) by
// the core, per spec §6. Parsing it from a file is the CLI's job, outside
// this package's scope.
package config

// InteractionRule pairs a frontend root with a backend root for API_CALL
// synthesis (spec §4.D).
type InteractionRule struct {
	Type      string `yaml:"type" json:"type"` // always "API_CALL" today
	Frontend  RuleSide `yaml:"frontend" json:"frontend"`
	Backend   RuleSide `yaml:"backend" json:"backend"`
}

// RuleSide is one side of an InteractionRule.
type RuleSide struct {
	Path      string `yaml:"path" json:"path"`
	URLPrefix string `yaml:"urlPrefix,omitempty" json:"urlPrefix,omitempty"`
}

// Config is the configuration record from spec §6.
type Config struct {
	Include           []string           `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude           []string           `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	MaxFiles          int                `yaml:"maxFiles,omitempty" json:"maxFiles,omitempty"`
	MaxFileSizeKB     int                `yaml:"maxFileSizeKB,omitempty" json:"maxFileSizeKB,omitempty"`
	Concurrency       int                `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	OnlyFiles         []string           `yaml:"onlyFiles,omitempty" json:"onlyFiles,omitempty"`
	InteractionRules  []InteractionRule  `yaml:"interactionRules,omitempty" json:"interactionRules,omitempty"`
	Strict            bool               `yaml:"strict,omitempty" json:"strict,omitempty"`
	Diagnostics       bool               `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// defaultExclude matches spec §6's documented default exclusion set.
var defaultExclude = []string{
	"**/node_modules/**", "**/dist/**", "**/build/**", "**/.git/**",
	"**/target/**", "**/bin/**", "**/obj/**",
}

// Default returns a Config populated with spec-documented defaults.
func Default() *Config {
	return &Config{
		Include:     []string{"**/*"},
		Exclude:     append([]string(nil), defaultExclude...),
		Concurrency: 4,
	}
}

// Normalize clamps and fills in defaults for fields left zero-valued, the
// way the orchestrator expects to receive them.
func (c *Config) Normalize() {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.Concurrency > 32 {
		c.Concurrency = 32
	}
	if len(c.Include) == 0 {
		c.Include = []string{"**/*"}
	}
	if c.Exclude == nil {
		c.Exclude = append([]string(nil), defaultExclude...)
	}
}
