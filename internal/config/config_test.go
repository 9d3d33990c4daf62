package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/cscan/internal/constants"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}

	// Verify check defaults
	if config.Checks.MinSeverity != DefaultMinSeverity {
		t.Errorf("Expected MinSeverity %s, got %s", DefaultMinSeverity, config.Checks.MinSeverity)
	}
	if len(config.Checks.Enabled) != 0 {
		t.Error("Every check should run by default")
	}

	// Verify preprocessor defaults
	if config.Preprocessor.MaxConfigurations != constants.DefaultMaxConfigurations {
		t.Errorf("Expected MaxConfigurations %d, got %d",
			constants.DefaultMaxConfigurations, config.Preprocessor.MaxConfigurations)
	}

	// Verify output defaults
	if config.Output.Format != "text" {
		t.Errorf("Expected Format 'text', got '%s'", config.Output.Format)
	}
	if config.Output.SortBy != DefaultSortBy {
		t.Errorf("Expected SortBy '%s', got '%s'", DefaultSortBy, config.Output.SortBy)
	}

	// Verify analysis defaults
	if !config.Analysis.Recursive {
		t.Error("Recursive should be true by default")
	}
	if len(config.Analysis.IncludePatterns) == 0 {
		t.Error("IncludePatterns should not be empty")
	}
	if len(config.Analysis.ExcludePatterns) == 0 {
		t.Error("ExcludePatterns should not be empty")
	}

	// Verify execution defaults
	if config.Execution.Jobs != DefaultJobs {
		t.Errorf("Expected Jobs %d, got %d", DefaultJobs, config.Execution.Jobs)
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	config := DefaultConfig()

	err := config.Validate()
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidMinSeverity(t *testing.T) {
	config := DefaultConfig()
	config.Checks.MinSeverity = "fatal"

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for unknown min_severity")
	}
}

func TestConfig_Validate_InvalidMaxConfigurations(t *testing.T) {
	config := DefaultConfig()
	config.Preprocessor.MaxConfigurations = 0

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for MaxConfigurations < 1")
	}
}

func TestConfig_Validate_InvalidOutputFormat(t *testing.T) {
	config := DefaultConfig()
	config.Output.Format = "html"

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for invalid output format")
	}
}

func TestConfig_Validate_InvalidSortBy(t *testing.T) {
	config := DefaultConfig()
	config.Output.SortBy = "name"

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for invalid sort_by")
	}
}

func TestConfig_Validate_EmptyIncludePatterns(t *testing.T) {
	config := DefaultConfig()
	config.Analysis.IncludePatterns = []string{}

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for empty include patterns")
	}
}

func TestConfig_Validate_InvalidJobs(t *testing.T) {
	config := DefaultConfig()
	config.Execution.Jobs = 0

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for Jobs < 1")
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path should not fail: %v", err)
	}

	if config.Checks.MinSeverity != DefaultMinSeverity {
		t.Error("Empty path should fall back to defaults")
	}
}

func TestLoadConfig_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cscan.yaml")
	content := `checks:
  enabled: [unusedFunction]
  min_severity: warning
output:
  format: json
execution:
  jobs: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Checks.MinSeverity != "warning" {
		t.Errorf("Expected MinSeverity 'warning', got '%s'", config.Checks.MinSeverity)
	}
	if len(config.Checks.Enabled) != 1 || config.Checks.Enabled[0] != "unusedFunction" {
		t.Errorf("Expected enabled checks [unusedFunction], got %v", config.Checks.Enabled)
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected Format 'json', got '%s'", config.Output.Format)
	}
	if config.Execution.Jobs != 4 {
		t.Errorf("Expected Jobs 4, got %d", config.Execution.Jobs)
	}

	// Values absent from the file keep their defaults
	if config.Preprocessor.MaxConfigurations != constants.DefaultMaxConfigurations {
		t.Errorf("Expected default MaxConfigurations, got %d", config.Preprocessor.MaxConfigurations)
	}
}

func TestLoadConfig_NonexistentFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/cscan.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent config file")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cscan.yaml")
	content := `checks:
  min_severity: fatal
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected validation error for bad min_severity")
	}
}

func TestLoadConfigWithTarget_DiscoversUpward(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "src", "core")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("Failed to create directories: %v", err)
	}

	configPath := filepath.Join(dir, "cscan.yaml")
	if err := os.WriteFile(configPath, []byte("checks:\n  min_severity: error\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	target := filepath.Join(nested, "main.c")
	if err := os.WriteFile(target, []byte("int main(void) { return 0; }\n"), 0o644); err != nil {
		t.Fatalf("Failed to write target file: %v", err)
	}

	config, err := LoadConfigWithTarget("", target)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}

	if config.Checks.MinSeverity != "error" {
		t.Errorf("Expected discovered config to apply, got MinSeverity '%s'", config.Checks.MinSeverity)
	}
}

func TestSaveConfig_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cscan.yaml")

	original := DefaultConfig()
	original.Checks.MinSeverity = "warning"
	original.Execution.Jobs = 8

	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}

	if loaded.Checks.MinSeverity != "warning" {
		t.Errorf("Expected MinSeverity 'warning' after roundtrip, got '%s'", loaded.Checks.MinSeverity)
	}
	if loaded.Execution.Jobs != 8 {
		t.Errorf("Expected Jobs 8 after roundtrip, got %d", loaded.Execution.Jobs)
	}
}

func TestLoadDefaultConfig_Embedded(t *testing.T) {
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("LoadDefaultConfig failed: %v", err)
	}

	if config.Checks.MinSeverity != DefaultMinSeverity {
		t.Errorf("Embedded default MinSeverity should be %s, got %s", DefaultMinSeverity, config.Checks.MinSeverity)
	}
	if config.Preprocessor.MaxConfigurations != constants.DefaultMaxConfigurations {
		t.Errorf("Embedded default MaxConfigurations should be %d, got %d",
			constants.DefaultMaxConfigurations, config.Preprocessor.MaxConfigurations)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Embedded default config should validate: %v", err)
	}
}

func TestGetProjectPresets(t *testing.T) {
	presets := GetProjectPresets()

	for _, projectType := range []ProjectType{ProjectTypeGeneric, ProjectTypeEmbedded, ProjectTypeLibrary} {
		preset, ok := presets[projectType]
		if !ok {
			t.Errorf("Expected preset for %s", projectType)
			continue
		}
		if len(preset.IncludePatterns) == 0 {
			t.Errorf("Preset %s should have include patterns", projectType)
		}
		if len(preset.ExcludePatterns) == 0 {
			t.Errorf("Preset %s should have exclude patterns", projectType)
		}
	}
}

func TestGetStrictnessPresets(t *testing.T) {
	presets := GetStrictnessPresets()

	for _, strictness := range []Strictness{StrictnessRelaxed, StrictnessStandard, StrictnessStrict} {
		preset, ok := presets[strictness]
		if !ok {
			t.Errorf("Expected preset for %s", strictness)
			continue
		}
		if preset.MinSeverity == "" {
			t.Errorf("Preset %s should set a severity", strictness)
		}
		if preset.MaxConfigurations < 1 {
			t.Errorf("Preset %s should allow at least one configuration", strictness)
		}
	}
}

func TestGetFullConfigTemplate(t *testing.T) {
	template := GetFullConfigTemplate(ProjectTypeGeneric, StrictnessStandard)

	if !strings.Contains(template, "min_severity: style") {
		t.Error("Standard template should set min_severity style")
	}
	if !strings.Contains(template, "max_configurations: 12") {
		t.Error("Standard template should set max_configurations 12")
	}
	if !strings.Contains(template, `"**/*.c"`) {
		t.Error("Generic template should include C sources")
	}
}

func TestGetMinimalConfigTemplate(t *testing.T) {
	template := GetMinimalConfigTemplate()

	if !strings.Contains(template, "checks:") {
		t.Error("Minimal template should have a checks section")
	}
	if !strings.Contains(template, "include_patterns:") {
		t.Error("Minimal template should scope the analysis")
	}
}
