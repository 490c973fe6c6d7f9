package main

import (
	"time"

	"github.com/kbukum/flowpipe/config"
	"github.com/kbukum/flowpipe/diagnostics"
	"github.com/kbukum/flowpipe/observability"
	"github.com/kbukum/flowpipe/stream"
	"github.com/kbukum/flowpipe/validation"
)

// AppConfig is the configuration of the flowpipe binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipe        PipeConfig         `yaml:"pipe" mapstructure:"pipe"`
	Feeder      FeederConfig       `yaml:"feeder" mapstructure:"feeder"`
	Diagnostics diagnostics.Config `yaml:"diagnostics" mapstructure:"diagnostics"`
	Telemetry   TelemetryConfig    `yaml:"telemetry" mapstructure:"telemetry"`
}

// PipeConfig shapes the emitter -> format -> buffer chain.
type PipeConfig struct {
	Name            string              `yaml:"name" mapstructure:"name"`
	FormatHighWater int                 `yaml:"format_high_water_mark" mapstructure:"format_high_water_mark" validate:"min=0"`
	Buffer          stream.BufferConfig `yaml:"buffer" mapstructure:"buffer"`
}

// FeederConfig controls how fast items are produced and consumed.
type FeederConfig struct {
	Items        int           `yaml:"items" mapstructure:"items" validate:"min=1"`
	Interval     time.Duration `yaml:"interval" mapstructure:"interval" validate:"required"`
	EmitBatch    int           `yaml:"emit_batch" mapstructure:"emit_batch" validate:"min=1"`
	ConsumeBatch int           `yaml:"consume_batch" mapstructure:"consume_batch" validate:"min=1"`
}

// TelemetryConfig enables OTLP export of pipe metrics and lifecycle spans.
type TelemetryConfig struct {
	Metrics bool                       `yaml:"metrics" mapstructure:"metrics"`
	Tracing bool                       `yaml:"tracing" mapstructure:"tracing"`
	Meter   observability.MeterConfig  `yaml:"meter" mapstructure:"meter"`
	Tracer  observability.TracerConfig `yaml:"tracer" mapstructure:"tracer"`
}

// ApplyDefaults fills unset fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "flowpipe"
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Pipe.Name == "" {
		c.Pipe.Name = "demo"
	}
	if c.Pipe.Buffer.HighWaterMark == 0 {
		c.Pipe.Buffer.HighWaterMark = stream.DefaultHighWaterMark
	}
	if c.Feeder.Items == 0 {
		c.Feeder.Items = 100
	}
	if c.Feeder.Interval == 0 {
		c.Feeder.Interval = 50 * time.Millisecond
	}
	if c.Feeder.EmitBatch == 0 {
		c.Feeder.EmitBatch = 8
	}
	if c.Feeder.ConsumeBatch == 0 {
		c.Feeder.ConsumeBatch = 4
	}
	c.Diagnostics.ApplyDefaults()

	if c.Telemetry.Meter.Endpoint == "" {
		c.Telemetry.Meter = observability.DefaultMeterConfig(c.Name)
	}
	if c.Telemetry.Tracer.Endpoint == "" {
		c.Telemetry.Tracer = observability.DefaultTracerConfig(c.Name)
	}
	c.Telemetry.Meter.Environment = c.Environment
	c.Telemetry.Tracer.Environment = c.Environment
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Pipe); err != nil {
		return err
	}
	if err := validation.Validate(c.Feeder); err != nil {
		return err
	}
	return c.Diagnostics.Validate()
}
