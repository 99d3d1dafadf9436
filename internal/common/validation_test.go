package common

import (
	"slices"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name          string
		format        string
		allowed       []string
		expectedError string
	}{
		{name: "json", format: "json", allowed: []string{"json", "text", "markdown"}},
		{name: "markdown", format: "markdown", allowed: []string{"json", "text", "markdown"}},
		{name: "no allow list permits registered format", format: "text", allowed: nil},
		{
			name:          "no allow list still needs a formatter",
			format:        "xml",
			allowed:       nil,
			expectedError: "unsupported output format 'xml'. Supported formats: [json markdown text]",
		},
		{
			name:          "allowed but not registered",
			format:        "yaml",
			allowed:       []string{"json", "yaml"},
			expectedError: "unsupported output format 'yaml'. Supported formats: [json]",
		},
		{
			name:          "registered but not allowed",
			format:        "text",
			allowed:       []string{"json"},
			expectedError: "unsupported output format 'text'. Supported formats: [json]",
		},
		{
			name:          "case sensitive",
			format:        "JSON",
			allowed:       []string{"json", "text", "markdown"},
			expectedError: "unsupported output format 'JSON'. Supported formats: [json markdown text]",
		},
		{
			name:          "empty format",
			format:        "",
			allowed:       []string{"json", "text", "markdown"},
			expectedError: "unsupported output format ''. Supported formats: [json markdown text]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.allowed)
			if tt.expectedError == "" {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error '%s' but got none", tt.expectedError)
			}
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tt.expectedError, err.Error())
			}
		})
	}
}

func TestValidateConfiguredFormats(t *testing.T) {
	if err := ValidateConfiguredFormats([]string{"json", "text", "markdown"}); err != nil {
		t.Errorf("registered formats rejected: %v", err)
	}
	if err := ValidateConfiguredFormats(nil); err != nil {
		t.Errorf("empty configuration rejected: %v", err)
	}
	if err := ValidateConfiguredFormats([]string{"json", "pdf"}); err == nil {
		t.Error("expected error for a format with no formatter")
	}
}

func TestAvailableFormats(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		want    []string
	}{
		{"everything registered", nil, []string{"json", "markdown", "text"}},
		{"registry order", []string{"text", "json"}, []string{"json", "text"}},
		{"unregistered dropped", []string{"json", "xml"}, []string{"json"}},
		{"nothing usable", []string{"xml"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AvailableFormats(tt.allowed); !slices.Equal(got, tt.want) {
				t.Errorf("AvailableFormats(%v) = %v, want %v", tt.allowed, got, tt.want)
			}
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	allowed := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", allowed)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", allowed)
		}
	})
}
