package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ludo-technologies/cscan/domain"
)

var _ domain.OutputFormatter = (*OutputFormatterImpl)(nil)

func sampleScanResponse() *domain.ScanResponse {
	return &domain.ScanResponse{
		Diagnostics: []domain.Diagnostic{
			{
				Rule:     "unreachableCode",
				Severity: domain.SeverityStyle,
				Location: domain.Location{FilePath: "test.c", Line: 3, Column: 5},
				Message:  "Statements following 'return' will never be executed.",
			},
		},
		Summary: domain.ScanSummary{
			FilesChecked:          1,
			FilesWithIssues:       1,
			ConfigurationsChecked: 1,
			TotalDiagnostics:      1,
			StyleCount:            1,
		},
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     "test",
	}
}

func TestWriteJSON(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"value": 42,
	}

	var buf bytes.Buffer
	err := WriteJSON(&buf, data)
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	// Check that it's valid JSON
	var result map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &result)
	if err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}

	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatterWriteScanJSON(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleScanResponse(), domain.OutputFormatJSON, &buf)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var result domain.ScanResponse
	err = json.Unmarshal(buf.Bytes(), &result)
	if err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}

	if len(result.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(result.Diagnostics))
	}
	if result.Diagnostics[0].Rule != "unreachableCode" {
		t.Errorf("Expected rule 'unreachableCode', got %s", result.Diagnostics[0].Rule)
	}
	if result.Summary.TotalDiagnostics != 1 {
		t.Errorf("Expected 1 total diagnostic, got %d", result.Summary.TotalDiagnostics)
	}
}

func TestOutputFormatterWriteScanText(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleScanResponse(), domain.OutputFormatText, &buf)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "cscan Report") {
		t.Error("Expected output to contain 'cscan Report'")
	}
	if !strings.Contains(output, "Files checked: 1") {
		t.Error("Expected output to contain 'Files checked: 1'")
	}
	if !strings.Contains(output, "[test.c:3]: (") {
		t.Error("Expected output to contain the finding location")
	}
	if !strings.Contains(output, "will never be executed. [unreachableCode]") {
		t.Error("Expected output to contain the finding message and rule")
	}
}

func TestOutputFormatterWriteScanText_NoIssues(t *testing.T) {
	formatter := NewOutputFormatter()

	response := &domain.ScanResponse{
		Summary:     domain.ScanSummary{FilesChecked: 2},
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     "test",
	}

	var buf bytes.Buffer
	err := formatter.Write(response, domain.OutputFormatText, &buf)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !strings.Contains(buf.String(), "No issues found.") {
		t.Error("Expected a clean run to say so")
	}
}

func TestOutputFormatterWriteScanText_RunIssues(t *testing.T) {
	formatter := NewOutputFormatter()

	response := sampleScanResponse()
	response.Warnings = []string{"[a.c] syntax error"}
	response.Errors = []string{"[b.c] Failed to read file: permission denied"}

	var buf bytes.Buffer
	if err := formatter.Write(response, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Warnings:") || !strings.Contains(output, "[a.c] syntax error") {
		t.Error("Expected the warnings section")
	}
	if !strings.Contains(output, "Errors:") || !strings.Contains(output, "permission denied") {
		t.Error("Expected the errors section")
	}
}

func TestOutputFormatterWriteScanYAML(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleScanResponse(), domain.OutputFormatYAML, &buf)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "diagnostics:") {
		t.Error("Expected YAML to contain the diagnostics key")
	}
	if !strings.Contains(output, "rule: unreachableCode") {
		t.Error("Expected YAML to contain the rule")
	}
	if !strings.Contains(output, "file_path: test.c") {
		t.Error("Expected YAML to contain the file path")
	}
}

func TestOutputFormatterWriteScanCSV(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleScanResponse(), domain.OutputFormatCSV, &buf)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected a header and one row, got %d lines", len(lines))
	}
	if lines[0] != "file,line,column,severity,rule,message,configuration" {
		t.Errorf("Unexpected CSV header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "test.c,3,5,style,unreachableCode,") {
		t.Errorf("Unexpected CSV row: %s", lines[1])
	}
}

func TestOutputFormatterWriteScanXML(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleScanResponse(), domain.OutputFormatXML, &buf)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `<results version="2">`) {
		t.Error("Expected the results element")
	}
	if !strings.Contains(output, `<cscan version="`) {
		t.Error("Expected the tool element")
	}
	if !strings.Contains(output, `id="unreachableCode"`) {
		t.Error("Expected the error id attribute")
	}
	if !strings.Contains(output, `<location file="test.c" line="3"`) {
		t.Error("Expected the location element")
	}
}

func TestOutputFormatterFormatMatchesWrite(t *testing.T) {
	formatter := NewOutputFormatter()
	response := sampleScanResponse()

	formatted, err := formatter.Format(response, domain.OutputFormatCSV)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var buf bytes.Buffer
	if err := formatter.Write(response, domain.OutputFormatCSV, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if formatted != buf.String() {
		t.Error("Format and Write should produce identical output")
	}
}

func TestOutputFormatterUnsupportedFormat(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleScanResponse(), domain.OutputFormat("html"), &buf)
	if err == nil {
		t.Error("Expected error for unsupported format")
	}
}
