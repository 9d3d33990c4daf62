package config

import (
	"strconv"
	"strings"
)

// ProjectType represents the kind of C/C++ codebase being scanned
type ProjectType string

const (
	ProjectTypeGeneric  ProjectType = "generic"
	ProjectTypeEmbedded ProjectType = "embedded"
	ProjectTypeLibrary  ProjectType = "library"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file collection presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds reporting presets for different strictness levels
type StrictnessPreset struct {
	MinSeverity       string
	MaxConfigurations int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{
				"**/*.c", "**/*.h",
				"**/*.cpp", "**/*.cc", "**/*.cxx",
				"**/*.hpp", "**/*.hh",
			},
			ExcludePatterns: []string{
				"build",
				"cmake-build-*",
				"out",
				"vendor",
				"third_party",
				".git",
			},
		},
		ProjectTypeEmbedded: {
			IncludePatterns: []string{
				"**/*.c", "**/*.h",
			},
			ExcludePatterns: []string{
				"build",
				"Drivers",
				"Middlewares",
				"vendor",
				".git",
			},
		},
		ProjectTypeLibrary: {
			IncludePatterns: []string{
				"**/*.c", "**/*.h",
				"**/*.cpp", "**/*.cc", "**/*.cxx",
				"**/*.hpp", "**/*.hh",
			},
			ExcludePatterns: []string{
				"build",
				"examples",
				"benchmarks",
				"test",
				"tests",
				"vendor",
				".git",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MinSeverity:       "warning",
			MaxConfigurations: 4,
		},
		StrictnessStandard: {
			MinSeverity:       "style",
			MaxConfigurations: 12,
		},
		StrictnessStrict: {
			MinSeverity:       "information",
			MaxConfigurations: 32,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	projectPresets := GetProjectPresets()
	strictnessPresets := GetStrictnessPresets()

	preset := projectPresets[projectType]
	strict := strictnessPresets[strictness]

	includePatterns := formatYAMLList(preset.IncludePatterns)
	excludePatterns := formatYAMLList(preset.ExcludePatterns)

	return `# cscan configuration
# Documentation: https://github.com/ludo-technologies/cscan

# ==============================================================================
# CHECKS
# ==============================================================================
checks:
  # Checks to run. Empty runs every check.
  # Available: unusedFunction, unreachableCode
  enabled: []

  # Least severe finding still reported:
  # error, warning, style, performance, information
  min_severity: ` + strict.MinSeverity + `

# ==============================================================================
# PREPROCESSOR
# ==============================================================================
preprocessor:
  # Macros treated as defined in every configuration, e.g. ["DEBUG", "VERSION=2"]
  defines: []

  # How many preprocessor variants of one file are checked
  max_configurations: ` + strconv.Itoa(strict.MaxConfigurations) + `

# ==============================================================================
# OUTPUT
# ==============================================================================
output:
  # Output format: text, json, yaml, csv, xml
  format: text

  # Sort diagnostics by: location, severity, rule. Empty keeps recording order.
  sort_by: ""

  # Disable colored terminal output (useful for CI logs)
  no_color: false

# ==============================================================================
# ANALYSIS SCOPE
# ==============================================================================
analysis:
  # File patterns to include
  include_patterns:
` + includePatterns + `

  # Directories and patterns to exclude
  exclude_patterns:
` + excludePatterns + `

  # Walk directories recursively
  recursive: true

# ==============================================================================
# EXECUTION
# ==============================================================================
execution:
  # Number of files checked concurrently
  jobs: 1
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# cscan configuration (minimal)
# See full options: https://github.com/ludo-technologies/cscan

checks:
  min_severity: style

preprocessor:
  max_configurations: 12

analysis:
  include_patterns: ["**/*.c", "**/*.h", "**/*.cpp", "**/*.hpp"]
  exclude_patterns: [build, vendor, .git]
`
}

// formatYAMLList formats a string slice as an indented YAML list
func formatYAMLList(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(`    - "` + item + `"` + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
