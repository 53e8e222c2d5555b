// Package config defines the runtime configuration model and helpers.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rustle-plan/rustle-plan/internal/types"
)

// OutputFormat represents the supported output serialization formats.
type OutputFormat string

const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputYAML   OutputFormat = "yaml"
	OutputBinary OutputFormat = "binary"
	OutputDOT    OutputFormat = "dot"

	// OutputText is a legacy alias of OutputTable, kept for formatter
	// backward compatibility; the `output` config field itself only
	// validates against the five formats above.
	OutputText OutputFormat = "text"
)

// DefaultTimeout is the fallback duration applied when the user does not
// specify `--timeout`, `RUSTLE_TIMEOUT`, or a `timeout` YAML key.
const DefaultTimeout = 10 * time.Minute

// DefaultConfigDir is the default directory under the user's home holding
// config files.
const DefaultConfigDir = ".rustle-plan"

// Config is the fully-resolved runtime configuration for a single command
// invocation, populated by flag > env (RUSTLE_ prefix) > YAML file >
// builtin default precedence.
//
// Use `mapstructure` tags so Viper can unmarshal seamlessly regardless of
// source; `validate` tags are checked by go-playground/validator after the
// full precedence merge.
type Config struct {
	Output  OutputFormat  `mapstructure:"output" yaml:"output" validate:"omitempty,oneof=table json yaml binary dot"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"required"`
	NoColor bool          `mapstructure:"noColor" yaml:"noColor"`
	Verbose bool          `mapstructure:"verbose" yaml:"verbose"`
	Quiet   bool          `mapstructure:"quiet" yaml:"quiet"`

	Planning types.PlanningOptions `mapstructure:"planning" yaml:"planning" validate:"dive"`
}

// New returns a Config populated with builtin defaults. Callers should
// subsequently merge flag/env/YAML values on top.
func New() *Config {
	return &Config{
		Output:   OutputTable,
		Timeout:  DefaultTimeout,
		Planning: types.DefaultPlanningOptions(),
	}
}

var validate = validator.New()

// Validate performs struct-tag validation after the full precedence merge.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
