package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "cscan"

	// ConfigFileName is the default config file name
	ConfigFileName = ".cscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CSCAN"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"
	OutputFormatXML  = "xml"
)

// Preprocessor limits
const (
	// DefaultMaxConfigurations caps how many preprocessor variants of a
	// single file are checked before the rest are dropped
	DefaultMaxConfigurations = 12
)
