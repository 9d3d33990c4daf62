package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/cscan/internal/constants"
)

// Default scan settings
const (
	// DefaultMinSeverity reports everything down to informational findings
	DefaultMinSeverity = "information"

	// DefaultSortBy keeps diagnostics in the order they were recorded
	DefaultSortBy = ""

	// DefaultJobs runs the scan on a single worker
	DefaultJobs = 1
)

// Config represents the main configuration structure
type Config struct {
	// Checks holds check selection and severity filtering
	Checks ChecksConfig `json:"checks" mapstructure:"checks" yaml:"checks"`

	// Preprocessor holds preprocessor configuration handling
	Preprocessor PreprocessorConfig `json:"preprocessor" mapstructure:"preprocessor" yaml:"preprocessor"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file collection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Execution holds scheduling configuration
	Execution ExecutionConfig `json:"execution" mapstructure:"execution" yaml:"execution"`
}

// ChecksConfig holds which checks run and which findings are reported
type ChecksConfig struct {
	// Enabled lists the checks to run. Empty means every check.
	Enabled []string `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// MinSeverity is the least severe finding still reported:
	// error, warning, style, performance, information
	MinSeverity string `json:"min_severity" mapstructure:"min_severity" yaml:"min_severity"`
}

// PreprocessorConfig holds how conditional compilation is explored
type PreprocessorConfig struct {
	// Defines are macros treated as defined in every configuration
	Defines []string `json:"defines" mapstructure:"defines" yaml:"defines"`

	// MaxConfigurations caps how many preprocessor variants of one
	// file are checked
	MaxConfigurations int `json:"max_configurations" mapstructure:"max_configurations" yaml:"max_configurations"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv, xml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// SortBy specifies how to sort diagnostics: location, severity, rule.
	// Empty keeps the recording order.
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// NoColor disables colored terminal output
	NoColor bool `json:"no_color" mapstructure:"no_color" yaml:"no_color"`

	// Verbose enables extra detail in reports
	Verbose bool `json:"verbose" mapstructure:"verbose" yaml:"verbose"`
}

// AnalysisConfig holds configuration for file collection
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether directories are walked recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// FollowSymlinks controls whether to follow symbolic links
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// ExecutionConfig holds configuration for scheduling
type ExecutionConfig struct {
	// Jobs is the number of files checked concurrently
	Jobs int `json:"jobs" mapstructure:"jobs" yaml:"jobs"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Checks: ChecksConfig{
			Enabled:     []string{},
			MinSeverity: DefaultMinSeverity,
		},
		Preprocessor: PreprocessorConfig{
			Defines:           []string{},
			MaxConfigurations: constants.DefaultMaxConfigurations,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatText,
			SortBy: DefaultSortBy,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.c", "**/*.h",
				"**/*.cpp", "**/*.cc", "**/*.cxx",
				"**/*.hpp", "**/*.hh",
			},
			ExcludePatterns: []string{
				// Build outputs
				"build",
				"cmake-build-*",
				"out",
				// Dependencies
				"vendor",
				"third_party",
				"external",
				// Version control
				".git",
			},
			Recursive:      true,
			FollowSymlinks: false,
		},
		Execution: ExecutionConfig{
			Jobs: DefaultJobs,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// discoverConfigFile finds the appropriate config file path
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	// Environment variables override file values, e.g. CSCAN_OUTPUT_FORMAT
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	// If no config path specified, discover one
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}

	// Load the configuration from the determined path
	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// configFileCandidates lists recognized config file names in order of
// preference
func configFileCandidates() []string {
	return []string{
		constants.ConfigFileName,
		"cscan.yaml",
		"cscan.yml",
		".cscan.yml",
		"cscan.json",
		".cscan.json",
	}
}

// findDefaultConfig looks for default configuration files in common
// locations. targetPath is the path being scanned.
func findDefaultConfig(targetPath string) string {
	candidates := configFileCandidates()

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Search from target directory up to the filesystem root
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	// Check ~/.config/cscan/ and the home directory itself
	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// Check CSCAN_CONFIG environment variable as fallback
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	// Validate severity threshold
	validSeverities := map[string]bool{
		"error":       true,
		"warning":     true,
		"style":       true,
		"performance": true,
		"information": true,
	}
	if !validSeverities[c.Checks.MinSeverity] {
		return fmt.Errorf("invalid checks.min_severity '%s', must be one of: error, warning, style, performance, information",
			c.Checks.MinSeverity)
	}

	if c.Preprocessor.MaxConfigurations < 1 {
		return fmt.Errorf("preprocessor.max_configurations must be >= 1, got %d", c.Preprocessor.MaxConfigurations)
	}

	// Validate output format
	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
		constants.OutputFormatCSV:  true,
		constants.OutputFormatXML:  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv, xml", c.Output.Format)
	}

	// Validate sort options
	validSortBy := map[string]bool{
		"":         true,
		"location": true,
		"severity": true,
		"rule":     true,
	}
	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: location, severity, rule", c.Output.SortBy)
	}

	// Validate include patterns (at least one must be specified)
	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Execution.Jobs < 1 {
		return fmt.Errorf("execution.jobs must be >= 1, got %d", c.Execution.Jobs)
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set all config values in viper
	v.Set("checks", config.Checks)
	v.Set("preprocessor", config.Preprocessor)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)
	v.Set("execution", config.Execution)

	return v.WriteConfig()
}
