package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/project-viability/pkg/constants"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON} {
		if err := ValidateOutputFormat(format); err != nil {
			t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", format, err)
		}
	}
}

func TestValidateOutputFormatRejects(t *testing.T) {
	tests := map[string]string{
		"empty":            "",
		"uppercase json":   "JSON",
		"padded csv":       " csv",
		"report type":      "pdf",
		"yaml":             "yaml",
		"pretty with json": "pretty,json",
	}

	for name, format := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateOutputFormat(format)
			if err == nil {
				t.Fatalf("ValidateOutputFormat(%q) expected error", format)
			}
			msg := err.Error()
			if !strings.Contains(msg, "pretty, csv or json") {
				t.Errorf("error should list the supported formats, got %q", msg)
			}
			if !strings.HasSuffix(msg, "got "+format) {
				t.Errorf("error should echo the rejected format %q, got %q", format, msg)
			}
		})
	}
}
