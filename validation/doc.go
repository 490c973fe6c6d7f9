// Package validation validates configuration structs through
// go-playground/validator struct tags and reports failures as
// INVALID_CONFIG AppErrors.
//
//	type BufferConfig struct {
//	    HighWaterMark int `mapstructure:"high_water_mark" validate:"min=1"`
//	}
//	err := validation.Validate(cfg)
package validation
