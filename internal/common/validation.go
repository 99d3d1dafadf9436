package common

import (
	"fmt"
	"slices"

	"shortlist/internal/formatters"
)

// ValidateOutputFormat checks that format has a registered formatter and,
// when allowed is non-empty, that the configuration permits it.
func ValidateOutputFormat(format string, allowed []string) error {
	available := AvailableFormats(allowed)
	if slices.Contains(available, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v", format, available)
}

// ValidateConfiguredFormats rejects configured formats with no registered formatter
func ValidateConfiguredFormats(allowed []string) error {
	registered := formatters.GlobalRegistry.GetSupportedFormats()
	for _, format := range allowed {
		if !slices.Contains(registered, format) {
			return fmt.Errorf("configured output format '%s' has no formatter. Registered formats: %v",
				format, registered)
		}
	}
	return nil
}

// AvailableFormats returns the registered formats the configuration allows,
// in registry order. An empty allow list means every registered format.
func AvailableFormats(allowed []string) []string {
	registered := formatters.GlobalRegistry.GetSupportedFormats()
	if len(allowed) == 0 {
		return registered
	}
	return slices.DeleteFunc(registered, func(format string) bool {
		return !slices.Contains(allowed, format)
	})
}
