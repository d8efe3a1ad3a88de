package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("latency_range", validLatencyRange); err != nil {
		panic(err)
	}
}

func validLatencyRange(fl validator.FieldLevel) bool {
	r, ok := fl.Field().Interface().(LatencyRange)
	if !ok {
		return false
	}
	return r.Min() >= 0 && r.Min() <= r.Max()
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Report the first failure only.
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "gte":
			return fmt.Errorf("%s: must be at least %s, got %v", field, e.Param(), e.Value())
		case "latency_range":
			return fmt.Errorf("%s: latency range must be [min, max] with 0 <= min <= max, got %v", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// LayerMismatch reports whether the sub-layer sizes disagree with
// counts.services. The sub-layer sizes win: assets are numbered from them.
func LayerMismatch(cfg *Config) bool {
	return cfg.Layers.Total() != cfg.Counts.Services
}
