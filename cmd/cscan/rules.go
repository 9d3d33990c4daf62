package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/service"
	"github.com/spf13/cobra"
)

var rulesOutputFormat string

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List every diagnostic the checks can produce",
		Long: `List the catalogue of diagnostics cscan can report, with example
messages. Useful for building suppression lists and CI filters.

Examples:
  cscan rules
  cscan rules --format json
  cscan rules --format xml`,
		RunE: runRules,
	}

	cmd.Flags().StringVarP(&rulesOutputFormat, "format", "f", "text",
		"Output format: text, json, xml")

	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	scanner := service.NewScanner()
	diagnostics := scanner.KnownDiagnostics()

	switch rulesOutputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(diagnostics)
	case "xml":
		formatter := service.NewOutputFormatter()
		response := &domain.ScanResponse{Diagnostics: diagnostics}
		return formatter.Write(response, domain.OutputFormatXML, os.Stdout)
	case "text":
		for _, d := range diagnostics {
			fmt.Printf("%-20s %-12s %s\n", d.Rule, d.Severity, d.Message)
		}
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be one of: text, json, xml)", rulesOutputFormat)
	}
}
