package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scenecast/scenecast/internal/adapter/outbound/cel"
)

// RegisterCustomValidators registers SceneCast-specific validation
// rules. Must be called before validating Config.
func RegisterCustomValidators(v *validator.Validate) error {
	// cel_expression: the field must compile as a policy rule.
	if err := v.RegisterValidation("cel_expression", validateCELExpression); err != nil {
		return fmt.Errorf("failed to register cel_expression validator: %w", err)
	}
	return nil
}

// validateCELExpression compiles the field against the rule
// environment. Compile failures are reported through the tag name;
// the detailed reason surfaces again when the gate is constructed.
func validateCELExpression(fl validator.FieldLevel) bool {
	return cel.ValidateExpression(fl.Field().String()) == nil
}

// Validate validates the Config using struct tags and cross-field
// rules, returning actionable error messages.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if err := c.validateRuleNames(); err != nil {
		return err
	}

	return nil
}

// validateRuleNames ensures policy rule names are unique so deny
// responses and logs are unambiguous.
func (c *Config) validateRuleNames() error {
	seen := make(map[string]struct{}, len(c.Policy.Rules))
	for i, rule := range c.Policy.Rules {
		if _, dup := seen[rule.Name]; dup {
			return fmt.Errorf("policy.rules[%d]: duplicate rule name: %s", i, rule.Name)
		}
		seen[rule.Name] = struct{}{}
	}
	return nil
}

// formatValidationErrors converts validator.ValidationErrors to
// user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// formatSingleValidationError creates a user-friendly message for a
// single validation error.
func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be a valid host:port", field)
	case "cel_expression":
		return fmt.Sprintf("%s must be a valid CEL expression over requestType, rpcVersion, lenient", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
