package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/internal/config"
	"github.com/ludo-technologies/cscan/internal/constants"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.ScanRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToScanRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, looking for a
// config file near the target path first
func (c *ConfigurationLoaderImpl) LoadDefaultConfig(targetPath string) *domain.ScanRequest {
	cfg, err := config.LoadConfigWithTarget("", targetPath)
	if err == nil {
		return c.convertToScanRequest(cfg)
	}

	// Fall back to hardcoded default configuration
	cfg = config.DefaultConfig()
	return c.convertToScanRequest(cfg)
}

// FindDefaultConfigFile searches for a default configuration file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	// List of possible config file names in order of preference
	configFiles := []string{
		constants.ConfigFileName,
		"cscan.yaml",
		"cscan.yml",
		".cscan.yml",
		"cscan.json",
		".cscan.json",
	}

	// Check current directory
	for _, file := range configFiles {
		if _, err := os.Stat(file); err == nil {
			return file
		}
	}

	// Check parent directories up to root
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, file := range configFiles {
			configPath := filepath.Join(currentDir, file)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move to parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfig merges CLI flags with configuration file
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ScanRequest, override *domain.ScanRequest) *domain.ScanRequest {
	// Start with base configuration
	merged := *base

	// Override with non-zero values from override
	// Always override paths as they come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	// Output configuration
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.ShowProgress {
		merged.ShowProgress = override.ShowProgress
	}

	if override.NoColor {
		merged.NoColor = override.NoColor
	}

	if override.Verbose {
		merged.Verbose = override.Verbose
	}

	// Filtering and sorting
	if override.MinSeverity != "" {
		merged.MinSeverity = override.MinSeverity
	}

	if len(override.Checks) > 0 {
		merged.Checks = override.Checks
	}

	if override.SortBy != "" {
		merged.SortBy = override.SortBy
	}

	// Preprocessor options
	if len(override.Defines) > 0 {
		merged.Defines = override.Defines
	}

	if override.MaxConfigurations > 0 {
		merged.MaxConfigurations = override.MaxConfigurations
	}

	// Execution options
	if override.Jobs > 0 {
		merged.Jobs = override.Jobs
	}

	// Config path is always from override if provided
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	return &merged
}

// convertToScanRequest converts a Config to ScanRequest
func (c *ConfigurationLoaderImpl) convertToScanRequest(cfg *config.Config) *domain.ScanRequest {
	return &domain.ScanRequest{
		// Paths are set by the caller, not from config
		Paths: []string{},

		// Output settings
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),
		NoColor:      cfg.Output.NoColor,
		Verbose:      cfg.Output.Verbose,

		// Check settings
		MinSeverity: domain.Severity(cfg.Checks.MinSeverity),
		Checks:      cfg.Checks.Enabled,

		// Preprocessor settings
		Defines:           cfg.Preprocessor.Defines,
		MaxConfigurations: cfg.Preprocessor.MaxConfigurations,

		// Execution settings
		Jobs: cfg.Execution.Jobs,

		// Other settings
		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
	}
}

// ValidateConfig validates the configuration
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.ScanRequest) error {
	if req.MinSeverity != "" && !req.MinSeverity.IsValid() {
		return fmt.Errorf("invalid min severity: %s (must be one of: error, warning, style, performance, information)",
			req.MinSeverity)
	}

	if req.MaxConfigurations < 0 {
		return fmt.Errorf("max_configurations cannot be negative, got %d", req.MaxConfigurations)
	}

	if req.Jobs < 0 {
		return fmt.Errorf("jobs cannot be negative, got %d", req.Jobs)
	}

	// Validate output format
	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatYAML: true,
		domain.OutputFormatCSV:  true,
		domain.OutputFormatXML:  true,
	}

	if req.OutputFormat != "" && !validFormats[req.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, csv, xml)",
			req.OutputFormat)
	}

	if req.SortBy != "" {
		switch req.SortBy {
		case domain.SortByLocation, domain.SortBySeverity, domain.SortByRule:
		default:
			return fmt.Errorf("invalid sort criteria: %s (must be one of: location, severity, rule)",
				req.SortBy)
		}
	}

	return nil
}
