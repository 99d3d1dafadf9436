package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"shortlist/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	default:
		return "any"
	}
}

// asResult accepts an AnalysisResult by value or pointer
func asResult(data any) (*types.AnalysisResult, error) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return &v, nil
	case *types.AnalysisResult:
		if v == nil {
			return nil, fmt.Errorf("expected AnalysisResult, got nil")
		}
		return v, nil
	default:
		return nil, fmt.Errorf("expected AnalysisResult, got %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// FormatScore renders a match score without trailing zeros
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// AnalysisTextFormatter renders an analysis as plain text
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := asResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== CV MATCH ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Match Score: %s%%\n\n", FormatScore(result.Score)))

	output.WriteString("=== MATCHING SKILLS ===\n")
	writeTextList(&output, result.MatchingSkills, "None found")

	output.WriteString("=== MISSING SKILLS ===\n")
	writeTextList(&output, result.MissingSkills, "None")

	output.WriteString("=== EXPERIENCE ===\n")
	if len(result.Experience) == 0 {
		output.WriteString("No experience found\n\n")
	}
	for _, exp := range result.Experience {
		output.WriteString(fmt.Sprintf("- %s years of experience\n", exp.Years))
		output.WriteString(fmt.Sprintf("  %s\n", exp.Context))
	}
	if len(result.Experience) > 0 {
		output.WriteString("\n")
	}

	output.WriteString("=== EDUCATION ===\n")
	if len(result.Education) == 0 {
		output.WriteString("No education found\n")
	}
	for _, edu := range result.Education {
		output.WriteString(fmt.Sprintf("- %s\n", strings.ToUpper(edu.Degree)))
		output.WriteString(fmt.Sprintf("  %s\n", edu.Text))
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeTextList(output *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		output.WriteString(empty)
		output.WriteString("\n\n")
		return
	}
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

// AnalysisMarkdownFormatter renders an analysis as markdown
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := asResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# CV Match Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Match Score:** %s%%\n\n", FormatScore(result.Score)))

	output.WriteString("## Matching Skills\n\n")
	writeMarkdownList(&output, result.MatchingSkills, "_None found_")

	output.WriteString("## Missing Skills\n\n")
	writeMarkdownList(&output, result.MissingSkills, "_None_")

	output.WriteString("## Experience\n\n")
	if len(result.Experience) == 0 {
		output.WriteString("_No experience found_\n\n")
	}
	for _, exp := range result.Experience {
		output.WriteString(fmt.Sprintf("### %s years of experience\n\n", exp.Years))
		output.WriteString(fmt.Sprintf("> %s\n\n", exp.Context))
	}

	output.WriteString("## Education\n\n")
	if len(result.Education) == 0 {
		output.WriteString("_No education found_\n")
	}
	for _, edu := range result.Education {
		output.WriteString(fmt.Sprintf("### %s\n\n", strings.ToUpper(edu.Degree)))
		output.WriteString(edu.Text)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeMarkdownList(output *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		output.WriteString(empty)
		output.WriteString("\n\n")
		return
	}
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- `%s`\n", item))
	}
	output.WriteString("\n")
}

// GlobalRegistry is the default formatter registry instance
var GlobalRegistry = NewFormatterRegistry()
