package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the config for valid values and reports every problem.
func Validate(c *Config) error {
	var result *multierror.Error

	for i, ep := range c.Endpoints {
		if err := validateEndpoint(i, ep); err != nil {
			result = multierror.Append(result, err)
		}
	}

	for name := range c.Headers {
		if strings.TrimSpace(name) == "" {
			result = multierror.Append(result, ValidationError{
				Field:   "headers",
				Message: "header name cannot be empty",
			})
		}
	}

	if c.Timeout < 0 {
		result = multierror.Append(result, ValidationError{
			Field:   "timeout",
			Message: "must not be negative",
		})
	}

	if c.Target != "" && !strings.Contains(c.Target, "-") {
		result = multierror.Append(result, ValidationError{
			Field:   "target",
			Message: fmt.Sprintf("invalid target '%s' (must be <os>-<arch>, e.g. linux-x86_64)", c.Target),
		})
	}

	if err := c.Presenter.Validate(); err != nil {
		result = multierror.Append(result, ValidationError{
			Field:   "presenter",
			Message: err.Error(),
		})
	}

	if c.Install.KeepBackups < 0 {
		result = multierror.Append(result, ValidationError{
			Field:   "install.keep_backups",
			Message: "must not be negative",
		})
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, ValidationError{
			Field:   "log.level",
			Message: err.Error(),
		})
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = formatErrors
	return result
}

func validateEndpoint(index int, endpoint string) error {
	field := fmt.Sprintf("endpoints[%d]", index)
	if strings.TrimSpace(endpoint) == "" {
		return ValidationError{Field: field, Message: "endpoint cannot be empty"}
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return ValidationError{Field: field, Message: fmt.Sprintf("invalid URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{Field: field, Message: fmt.Sprintf("unsupported scheme '%s' (must be http or https)", u.Scheme)}
	}
	if u.Host == "" {
		return ValidationError{Field: field, Message: "missing host"}
	}
	return nil
}

func formatErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation errors:\n  - %s", strings.Join(msgs, "\n  - "))
}
