package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ludo-technologies/cscan/app"
	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/service"
	"github.com/spf13/cobra"
)

var (
	scanSelectChecks []string
	scanOutputFormat string
	scanOutputPath   string
	scanConfigPath   string
	scanJSONOutput   bool
	scanXMLOutput    bool
	scanMinSeverity  string
	scanDefines      []string
	scanMaxConfigs   int
	scanJobs         int
	scanSortBy       string
	scanNoColor      bool
	scanVerbose      bool
	scanNoProgress   bool
	scanExclude      []string
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Scan C/C++ files",
		Long: `Scan C/C++ files for bugs, dead code, and style issues.

Every preprocessor configuration of each file is checked, so issues
hidden behind #ifdef blocks are found too.

Examples:
  cscan scan src/
  cscan scan --select unreachableCode src/
  cscan scan -D DEBUG=1 -D PLATFORM=linux src/
  cscan scan --format json src/
  cscan scan --xml src/ > results.xml
  cscan scan --jobs 4 src/`,
		RunE: runScan,
	}

	cmd.Flags().StringSliceVarP(&scanSelectChecks, "select", "s", nil,
		"Checks to run (comma-separated, default: all)")
	cmd.Flags().StringVarP(&scanOutputFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv, xml")
	cmd.Flags().BoolVar(&scanJSONOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&scanXMLOutput, "xml", false,
		"Output results as XML (shorthand for --format xml)")
	cmd.Flags().StringVarP(&scanOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&scanConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&scanMinSeverity, "min-severity", "",
		"Minimum severity to report: error, warning, style, performance, information")
	cmd.Flags().StringArrayVarP(&scanDefines, "define", "D", nil,
		"Preprocessor define, e.g. -D DEBUG=1 (repeatable)")
	cmd.Flags().IntVar(&scanMaxConfigs, "max-configs", 0,
		"Maximum preprocessor configurations per file")
	cmd.Flags().IntVarP(&scanJobs, "jobs", "j", 0,
		"Number of files checked concurrently")
	cmd.Flags().StringVar(&scanSortBy, "sort-by", "",
		"Sort diagnostics by: location, severity, rule")
	cmd.Flags().BoolVar(&scanNoColor, "no-color", false,
		"Disable colored output")
	cmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false,
		"Show extra detail")
	cmd.Flags().BoolVar(&scanNoProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().StringSliceVar(&scanExclude, "exclude", nil,
		"Exclude paths matching pattern (gitignore syntax)")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	format := resolveScanFormat(scanOutputFormat, scanJSONOutput, scanXMLOutput)

	// Load configuration, preferring a file next to the scanned paths
	loader := service.NewConfigurationLoader()
	var base *domain.ScanRequest
	if scanConfigPath != "" {
		var err error
		base, err = loader.LoadConfig(scanConfigPath)
		if err != nil {
			return err
		}
	} else {
		base = loader.LoadDefaultConfig(args[0])
	}

	// CLI flags override config values
	override := &domain.ScanRequest{
		Paths:             args,
		OutputFormat:      format,
		MinSeverity:       domain.Severity(scanMinSeverity),
		Checks:            scanSelectChecks,
		SortBy:            domain.SortCriteria(scanSortBy),
		Defines:           scanDefines,
		MaxConfigurations: scanMaxConfigs,
		Jobs:              scanJobs,
		NoColor:           scanNoColor,
		Verbose:           scanVerbose,
		ConfigPath:        scanConfigPath,
		ExcludePatterns:   scanExclude,
	}
	req := loader.MergeConfig(base, override)

	if err := loader.ValidateConfig(req); err != nil {
		return err
	}

	if req.NoColor {
		color.NoColor = true
	}

	// Resolve the output writer
	writer := os.Stdout
	if scanOutputPath != "" {
		file, err := os.Create(scanOutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}
	req.OutputWriter = writer

	// Progress bar only makes sense for text output on a terminal
	req.ShowProgress = !scanNoProgress && format == domain.OutputFormatText && scanOutputPath == ""
	pm := service.NewProgressManager(req.ShowProgress)
	defer pm.Close()

	svc := service.NewScanServiceWithProgress(pm)
	uc := app.NewScanUseCase(svc)

	ctx := context.Background()
	response, err := uc.Execute(ctx, *req)
	if err != nil {
		return err
	}

	formatter := service.NewOutputFormatter()
	return formatter.Write(response, format, writer)
}

// resolveScanFormat applies the --json and --xml shorthands
func resolveScanFormat(format string, jsonOutput, xmlOutput bool) domain.OutputFormat {
	if jsonOutput {
		return domain.OutputFormatJSON
	}
	if xmlOutput {
		return domain.OutputFormatXML
	}
	if format == "" {
		return domain.OutputFormatText
	}
	return domain.OutputFormat(format)
}
