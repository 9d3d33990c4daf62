package service

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/internal/version"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Format formats the scan response according to the specified format
func (f *OutputFormatterImpl) Format(response *domain.ScanResponse, format domain.OutputFormat) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, format, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the formatted output to the writer
func (f *OutputFormatterImpl) Write(response *domain.ScanResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return f.writeYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatXML:
		return f.writeXML(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

var severityColors = map[domain.Severity]*color.Color{
	domain.SeverityError:       color.New(color.FgRed, color.Bold),
	domain.SeverityWarning:     color.New(color.FgYellow),
	domain.SeverityStyle:       color.New(color.FgCyan),
	domain.SeverityPerformance: color.New(color.FgMagenta),
	domain.SeverityInformation: color.New(color.FgBlue),
}

func severityTag(s domain.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

// writeText writes the scan response as plain text
func (f *OutputFormatterImpl) writeText(response *domain.ScanResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== cscan Report ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	// Summary
	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files checked: %d\n", response.Summary.FilesChecked)
	fmt.Fprintf(writer, "  Files with issues: %d\n", response.Summary.FilesWithIssues)
	fmt.Fprintf(writer, "  Configurations checked: %d\n", response.Summary.ConfigurationsChecked)
	fmt.Fprintf(writer, "  Total diagnostics: %d\n", response.Summary.TotalDiagnostics)
	if response.Summary.Terminated {
		fmt.Fprintf(writer, "  Terminated early: yes\n")
	}
	fmt.Fprintf(writer, "\n")

	// Severity distribution
	fmt.Fprintf(writer, "Severity Distribution:\n")
	fmt.Fprintf(writer, "  Error: %d\n", response.Summary.ErrorCount)
	fmt.Fprintf(writer, "  Warning: %d\n", response.Summary.WarningCount)
	fmt.Fprintf(writer, "  Style: %d\n", response.Summary.StyleCount)
	fmt.Fprintf(writer, "  Performance: %d\n", response.Summary.PerformanceCount)
	fmt.Fprintf(writer, "  Information: %d\n", response.Summary.InformationCount)
	fmt.Fprintf(writer, "\n")

	// Findings
	if len(response.Diagnostics) > 0 {
		fmt.Fprintf(writer, "Diagnostics:\n")
		for _, d := range response.Diagnostics {
			fmt.Fprintf(writer, "  [%s:%d]: (%s) %s [%s]\n",
				d.Location.FilePath, d.Location.Line, severityTag(d.Severity), d.Message, d.Rule)
		}
	} else {
		fmt.Fprintf(writer, "No issues found.\n")
	}

	// Warnings
	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	// Errors
	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\nErrors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	return nil
}

// writeYAML writes the scan response as YAML
func (f *OutputFormatterImpl) writeYAML(response *domain.ScanResponse, writer io.Writer) error {
	data, err := yaml.Marshal(response)
	if err != nil {
		return domain.NewOutputError("failed to marshal YAML", err)
	}
	_, err = writer.Write(data)
	return err
}

// writeCSV writes the scan response as CSV, one row per diagnostic
func (f *OutputFormatterImpl) writeCSV(response *domain.ScanResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if err := w.Write([]string{"file", "line", "column", "severity", "rule", "message", "configuration"}); err != nil {
		return domain.NewOutputError("failed to write CSV", err)
	}
	for _, d := range response.Diagnostics {
		record := []string{
			d.Location.FilePath,
			strconv.Itoa(d.Location.Line),
			strconv.Itoa(d.Location.Column),
			string(d.Severity),
			d.Rule,
			d.Message,
			d.Configuration,
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV", err)
		}
	}

	w.Flush()
	return w.Error()
}

// XML output follows the classic analyzer results layout: a results
// element carrying the tool version, then one error element per
// finding with a nested location.
type xmlResults struct {
	XMLName xml.Name  `xml:"results"`
	Version string    `xml:"version,attr"`
	Tool    xmlTool   `xml:"cscan"`
	Errors  xmlErrors `xml:"errors"`
}

type xmlTool struct {
	Version string `xml:"version,attr"`
}

type xmlErrors struct {
	Errors []xmlError `xml:"error"`
}

type xmlError struct {
	ID       string      `xml:"id,attr"`
	Severity string      `xml:"severity,attr"`
	Msg      string      `xml:"msg,attr"`
	Location xmlLocation `xml:"location"`
}

type xmlLocation struct {
	File   string `xml:"file,attr"`
	Line   int    `xml:"line,attr"`
	Column int    `xml:"column,attr,omitempty"`
}

// writeXML writes the scan response as XML
func (f *OutputFormatterImpl) writeXML(response *domain.ScanResponse, writer io.Writer) error {
	results := xmlResults{
		Version: "2",
		Tool:    xmlTool{Version: version.Version},
	}
	for _, d := range response.Diagnostics {
		results.Errors.Errors = append(results.Errors.Errors, xmlError{
			ID:       d.Rule,
			Severity: string(d.Severity),
			Msg:      d.Message,
			Location: xmlLocation{
				File:   d.Location.FilePath,
				Line:   d.Location.Line,
				Column: d.Location.Column,
			},
		})
	}

	if _, err := io.WriteString(writer, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return domain.NewOutputError("failed to marshal XML", err)
	}
	_, err := io.WriteString(writer, "\n")
	return err
}
