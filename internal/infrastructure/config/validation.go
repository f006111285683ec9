package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks a loaded configuration and reports failures by their
// config keys (engine.tick_divisor, persistence.burst, ...)
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that names fields by their mapstructure key
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("catalog_file", validateCatalogFile)
	v.RegisterStructValidation(validateBreaker, PersistenceConfig{})

	return &Validator{
		validate: v,
	}
}

// validateCatalogFile accepts the extensions the catalog loader can parse
func validateCatalogFile(fl validator.FieldLevel) bool {
	switch strings.ToLower(filepath.Ext(fl.Field().String())) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// validateBreaker requires a cooldown once the store breaker is enabled
func validateBreaker(sl validator.StructLevel) {
	p := sl.Current().Interface().(PersistenceConfig)
	if p.BreakerFailures > 0 && p.BreakerCooldown <= 0 {
		sl.ReportError(p.BreakerCooldown, "breaker_cooldown", "BreakerCooldown", "breaker_cooldown", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError lists every failed key on its own line
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s %s (value: '%v')", configKey(e), describe(e), e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
}

// configKey drops the root struct name: Config.engine.tick_divisor -> engine.tick_divisor
func configKey(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + strings.Replace(e.Param(), " ", " is ", 1)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "startswith":
		return fmt.Sprintf("must start with %q", e.Param())
	case "catalog_file":
		return "must name a .yaml, .yml or .json catalog"
	case "breaker_cooldown":
		return "must be positive while breaker_failures is above zero"
	default:
		return "failed " + e.Tag()
	}
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
