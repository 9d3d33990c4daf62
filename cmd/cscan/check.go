package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ludo-technologies/cscan/app"
	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkFailOn       string
	checkSelectChecks []string
	checkDefines      []string
	checkJobs         int
	checkVerbose      bool
	checkJSON         bool
	checkConfigPath   string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast quality gate for CI/CD pipelines",
		Long: `Scan the given paths and fail when diagnostics at or above the
--fail-on severity are found.

Exit codes:
  0 - No diagnostics at or above the threshold
  1 - Threshold violated
  2 - Scan error (file not found, invalid configuration, etc.)

Examples:
  # Fail on errors only (default)
  cscan check src/

  # Fail on warnings too
  cscan check --fail-on warning src/

  # JSON output for machine parsing
  cscan check --json src/

  # Only run selected checks
  cscan check --select unreachableCode,unusedFunction src/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().StringVar(&checkFailOn, "fail-on", "error",
		"Fail when diagnostics at or above this severity exist")
	cmd.Flags().StringSliceVarP(&checkSelectChecks, "select", "s", nil,
		"Checks to run (comma-separated, default: all)")
	cmd.Flags().StringArrayVarP(&checkDefines, "define", "D", nil,
		"Preprocessor define, e.g. -D DEBUG=1 (repeatable)")
	cmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0,
		"Number of files checked concurrently")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: 2, Message: "no paths specified"}
	}

	failOn := domain.Severity(checkFailOn)
	if !failOn.IsValid() {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("unknown --fail-on severity: %s", checkFailOn)}
	}

	// Load configuration
	loader := service.NewConfigurationLoader()
	var base *domain.ScanRequest
	if checkConfigPath != "" {
		var err error
		base, err = loader.LoadConfig(checkConfigPath)
		if err != nil {
			return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
		}
	} else {
		base = loader.LoadDefaultConfig(args[0])
	}

	override := &domain.ScanRequest{
		Paths:   args,
		Checks:  checkSelectChecks,
		Defines: checkDefines,
		Jobs:    checkJobs,
	}
	req := loader.MergeConfig(base, override)

	// The scan floor must not hide diagnostics the gate checks for
	if !failOn.IsAtLeast(req.MinSeverity) {
		req.MinSeverity = failOn
	}

	// Create progress manager (auto-disabled for JSON output or non-TTY/CI)
	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	svc := service.NewScanServiceWithProgress(pm)
	uc := app.NewScanUseCase(svc)

	ctx := context.Background()
	response, err := uc.Execute(ctx, *req)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	// Read errors mean the scan itself is unreliable
	if len(response.Errors) > 0 {
		for _, msg := range response.Errors {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
	}

	result := domain.EvaluateCheck(response, failOn)
	return outputCheckResult(&result)
}

func outputCheckResult(result *domain.CheckResult) error {
	if checkJSON {
		return outputCheckJSON(result)
	}

	return outputCheckText(result)
}

func outputCheckText(result *domain.CheckResult) error {
	if result.Passed {
		fmt.Println("PASS: No diagnostics at or above the threshold")
		if checkVerbose {
			fmt.Printf("  Files checked: %d\n", result.Summary.FilesChecked)
			fmt.Printf("  Configurations checked: %d\n", result.Summary.ConfigurationsChecked)
			fmt.Printf("  Total diagnostics: %d\n", result.Summary.TotalDiagnostics)
			fmt.Printf("  Fail on: %s\n", result.FailOn)
		}
		return nil
	}

	fmt.Println("FAIL: Quality gate failed")
	fmt.Printf("  Violations: %d (fail on: %s)\n", len(result.Violations), result.FailOn)

	// Print violations
	for _, v := range result.Violations {
		fmt.Printf("  [%s:%d]: (%s) %s [%s]\n",
			v.Location.FilePath, v.Location.Line, v.Severity, v.Message, v.Rule)
	}

	if checkVerbose {
		fmt.Printf("\nSummary:\n")
		fmt.Printf("  Files checked: %d\n", result.Summary.FilesChecked)
		fmt.Printf("  Files with issues: %d\n", result.Summary.FilesWithIssues)
		fmt.Printf("  Configurations checked: %d\n", result.Summary.ConfigurationsChecked)
		fmt.Printf("  Total diagnostics: %d\n", result.Summary.TotalDiagnostics)
	}

	return &CheckExitError{Code: 1, Message: ""}
}

func outputCheckJSON(result *domain.CheckResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: 1, Message: ""}
	}
	return nil
}
