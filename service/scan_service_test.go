package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ludo-technologies/cscan/domain"
)

var _ domain.ScanService = (*ScanServiceImpl)(nil)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestNewScanService(t *testing.T) {
	service := NewScanService()

	if service == nil {
		t.Fatal("NewScanService should not return nil")
	}
	if service.progress != nil {
		t.Error("Progress should be nil when not provided")
	}
}

func TestNewScanServiceWithProgress(t *testing.T) {
	pm := NewProgressManager(false)

	service := NewScanServiceWithProgress(pm)

	if service == nil {
		t.Fatal("NewScanServiceWithProgress should not return nil")
	}
	if service.progress == nil {
		t.Error("Progress should not be nil")
	}
}

func TestScanService_Scan_EmptyPaths(t *testing.T) {
	service := NewScanService()

	req := domain.ScanRequest{
		Paths: []string{},
	}

	_, err := service.Scan(context.Background(), req)
	if err == nil {
		t.Error("Should return error for empty paths")
	}
}

func TestScanService_Scan_NonexistentFile(t *testing.T) {
	service := NewScanService()

	req := domain.ScanRequest{
		Paths: []string{"/nonexistent/file.c"},
	}

	resp, err := service.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Unreadable files are findings, not failures: %v", err)
	}

	if len(resp.Errors) != 1 {
		t.Errorf("Should surface 1 read error, got %d", len(resp.Errors))
	}
	if resp.Summary.ErrorCount != 1 {
		t.Errorf("Should count 1 error diagnostic, got %d", resp.Summary.ErrorCount)
	}
}

func TestScanService_Scan_ValidFile(t *testing.T) {
	path := writeFixture(t, "test.c", `int f(void) {
    return 1;
    return 2;
}
`)

	service := NewScanService()

	req := domain.ScanRequest{
		Paths: []string{path},
	}

	resp, err := service.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan should not return error: %v", err)
	}

	if resp == nil {
		t.Fatal("Response should not be nil")
	}
	if len(resp.Diagnostics) != 1 {
		t.Fatalf("Should find 1 diagnostic, got %d", len(resp.Diagnostics))
	}
	if resp.Diagnostics[0].Rule != "unreachableCode" {
		t.Errorf("Should find unreachableCode, got %s", resp.Diagnostics[0].Rule)
	}
	if resp.Summary.FilesChecked != 1 {
		t.Errorf("FilesChecked should be 1, got %d", resp.Summary.FilesChecked)
	}
	if resp.Summary.FilesWithIssues != 1 {
		t.Errorf("FilesWithIssues should be 1, got %d", resp.Summary.FilesWithIssues)
	}
	if resp.Summary.ConfigurationsChecked < 1 {
		t.Errorf("ConfigurationsChecked should be at least 1, got %d", resp.Summary.ConfigurationsChecked)
	}
	if resp.Summary.Terminated {
		t.Error("Run should not be marked terminated")
	}
}

func TestScanService_Scan_ContextCancellation(t *testing.T) {
	service := NewScanService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := domain.ScanRequest{
		Paths: []string{"test.c"},
	}

	_, err := service.Scan(ctx, req)
	if err == nil {
		t.Error("Should return error when context is cancelled")
	}
}

func TestScanService_ScanFile(t *testing.T) {
	path := writeFixture(t, "test.c", "int main(void) { return 0; }\n")

	service := NewScanService()

	resp, err := service.ScanFile(context.Background(), path, domain.ScanRequest{})
	if err != nil {
		t.Fatalf("ScanFile should not return error: %v", err)
	}

	if resp == nil {
		t.Fatal("Response should not be nil")
	}
	if resp.Summary.FilesChecked != 1 {
		t.Errorf("FilesChecked should be 1, got %d", resp.Summary.FilesChecked)
	}
}

func TestScanService_Scan_SyntaxErrorBecomesWarning(t *testing.T) {
	path := writeFixture(t, "broken.c", "int f( {\n")

	service := NewScanService()

	resp, err := service.Scan(context.Background(), domain.ScanRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("Scan should not return error: %v", err)
	}

	if len(resp.Warnings) != 1 {
		t.Errorf("Should surface 1 warning, got %d", len(resp.Warnings))
	}
	if len(resp.Diagnostics) != 1 || resp.Diagnostics[0].Rule != "syntaxError" {
		t.Error("The syntax error should stay in the diagnostic list")
	}
}

func TestScanService_sortDiagnostics_ByLocation(t *testing.T) {
	service := NewScanService()

	diagnostics := []domain.Diagnostic{
		{Rule: "unusedFunction", Location: domain.Location{FilePath: "b.c", Line: 1}},
		{Rule: "unreachableCode", Location: domain.Location{FilePath: "a.c", Line: 9}},
		{Rule: "unreachableCode", Location: domain.Location{FilePath: "a.c", Line: 2}},
	}

	sorted := service.sortDiagnostics(diagnostics, domain.SortByLocation)

	if sorted[0].Location.FilePath != "a.c" || sorted[0].Location.Line != 2 {
		t.Errorf("First should be a.c:2, got %s", sorted[0].Location)
	}
	if sorted[1].Location.FilePath != "a.c" || sorted[1].Location.Line != 9 {
		t.Errorf("Second should be a.c:9, got %s", sorted[1].Location)
	}
	if sorted[2].Location.FilePath != "b.c" {
		t.Errorf("Third should be in b.c, got %s", sorted[2].Location)
	}
}

func TestScanService_sortDiagnostics_BySeverity(t *testing.T) {
	service := NewScanService()

	diagnostics := []domain.Diagnostic{
		{Rule: "unreachableCode", Severity: domain.SeverityStyle},
		{Rule: "syntaxError", Severity: domain.SeverityError},
		{Rule: "something", Severity: domain.SeverityInformation},
	}

	sorted := service.sortDiagnostics(diagnostics, domain.SortBySeverity)

	if sorted[0].Severity != domain.SeverityError {
		t.Error("First should be the error")
	}
	if sorted[1].Severity != domain.SeverityStyle {
		t.Error("Second should be the style finding")
	}
	if sorted[2].Severity != domain.SeverityInformation {
		t.Error("Third should be the information finding")
	}
}

func TestScanService_sortDiagnostics_ByRule(t *testing.T) {
	service := NewScanService()

	diagnostics := []domain.Diagnostic{
		{Rule: "unusedFunction"},
		{Rule: "syntaxError"},
		{Rule: "unreachableCode"},
	}

	sorted := service.sortDiagnostics(diagnostics, domain.SortByRule)

	want := []string{"syntaxError", "unreachableCode", "unusedFunction"}
	for i, rule := range want {
		if sorted[i].Rule != rule {
			t.Errorf("Position %d should be %s, got %s", i, rule, sorted[i].Rule)
		}
	}
}

func TestScanService_sortDiagnostics_DefaultKeepsRecordingOrder(t *testing.T) {
	service := NewScanService()

	diagnostics := []domain.Diagnostic{
		{Rule: "zzz", Location: domain.Location{FilePath: "z.c", Line: 9}},
		{Rule: "aaa", Location: domain.Location{FilePath: "a.c", Line: 1}},
	}

	sorted := service.sortDiagnostics(diagnostics, "")

	if sorted[0].Rule != "zzz" || sorted[1].Rule != "aaa" {
		t.Error("Without a criterion the recording order should be kept")
	}
}

func TestScanService_Scan_ResponseFields(t *testing.T) {
	path := writeFixture(t, "test.c", "int main(void) { return 0; }\n")

	service := NewScanService()

	resp, err := service.Scan(context.Background(), domain.ScanRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("Scan should not return error: %v", err)
	}

	if resp.GeneratedAt == "" {
		t.Error("GeneratedAt should not be empty")
	}
	if _, err := time.Parse(time.RFC3339, resp.GeneratedAt); err != nil {
		t.Errorf("GeneratedAt should be valid RFC3339: %v", err)
	}
	if resp.Version == "" {
		t.Error("Version should not be empty")
	}
	if resp.Config == nil {
		t.Error("Config should not be nil")
	}
}

func TestScanService_Scan_SeverityDistribution(t *testing.T) {
	unreadable := "/nonexistent/file.c"
	withStyle := writeFixture(t, "style.c", `int f(void) {
    return 1;
    return 2;
}
`)

	service := NewScanService()

	resp, err := service.Scan(context.Background(), domain.ScanRequest{
		Paths: []string{unreadable, withStyle},
	})
	if err != nil {
		t.Fatalf("Scan should not return error: %v", err)
	}

	if resp.Summary.ErrorCount != 1 {
		t.Errorf("ErrorCount should be 1, got %d", resp.Summary.ErrorCount)
	}
	if resp.Summary.StyleCount != 1 {
		t.Errorf("StyleCount should be 1, got %d", resp.Summary.StyleCount)
	}
	if resp.Summary.TotalDiagnostics != 2 {
		t.Errorf("TotalDiagnostics should be 2, got %d", resp.Summary.TotalDiagnostics)
	}
	if resp.Summary.FilesWithIssues != 2 {
		t.Errorf("FilesWithIssues should be 2, got %d", resp.Summary.FilesWithIssues)
	}
}

func TestScanService_buildConfigForResponse(t *testing.T) {
	service := NewScanService()

	req := domain.ScanRequest{
		SortBy: domain.SortByLocation,
		Jobs:   4,
	}

	configMap := service.buildConfigForResponse(req)

	if configMap["jobs"] != 4 {
		t.Error("jobs should be 4")
	}
	if configMap["sort_by"] != domain.SortByLocation {
		t.Error("sort_by should be 'location'")
	}
	if configMap["max_configurations"] == 0 {
		t.Error("max_configurations should carry the default")
	}
}
