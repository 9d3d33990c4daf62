package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/internal/version"
)

// ScanServiceImpl implements the ScanService interface
type ScanServiceImpl struct {
	progress domain.ProgressManager
}

// NewScanService creates a new scan service implementation
func NewScanService() *ScanServiceImpl {
	return &ScanServiceImpl{}
}

// NewScanServiceWithProgress creates a new scan service with progress reporting
func NewScanServiceWithProgress(pm domain.ProgressManager) *ScanServiceImpl {
	return &ScanServiceImpl{
		progress: pm,
	}
}

// Scan performs a full scan over the files named by the request
func (s *ScanServiceImpl) Scan(ctx context.Context, req domain.ScanRequest) (*domain.ScanResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no files to scan", nil)
	}

	collecting := NewCollectingSink()
	var sink domain.ReportSink = collecting
	if req.Verbose {
		// Status lines stream to stderr while the run is in flight;
		// the formatted report still owns the requested output writer
		sink = NewTeeSink(collecting, &WriterSink{Out: os.Stderr})
	}

	var scanner *ScannerImpl
	if s.progress != nil {
		scanner = NewScannerWithProgress(sink, s.progress)
	} else {
		scanner = NewScannerWithSink(sink)
	}

	scanner.SetSettings(req.Settings())
	for _, path := range req.Paths {
		scanner.AddFile(path)
	}

	if _, err := scanner.Check(ctx); err != nil {
		return nil, err
	}

	diagnostics := collecting.Diagnostics()
	warnings, errs := splitRunIssues(diagnostics)
	sorted := s.sortDiagnostics(diagnostics, req.SortBy)
	summary := s.generateSummary(sorted, scanner)

	return &domain.ScanResponse{
		Diagnostics: sorted,
		Summary:     summary,
		Warnings:    warnings,
		Errors:      errs,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Config:      s.buildConfigForResponse(req),
	}, nil
}

// ScanFile scans a single file
func (s *ScanServiceImpl) ScanFile(ctx context.Context, filePath string, req domain.ScanRequest) (*domain.ScanResponse, error) {
	singleFileReq := req
	singleFileReq.Paths = []string{filePath}

	return s.Scan(ctx, singleFileReq)
}

// splitRunIssues extracts human-readable notes from the findings that
// describe the run itself rather than the code under scan. The findings
// stay in the diagnostic list either way.
func splitRunIssues(diagnostics []domain.Diagnostic) (warnings []string, errs []string) {
	for _, d := range diagnostics {
		switch d.Rule {
		case "fileError", "internalError":
			errs = append(errs, fmt.Sprintf("[%s] %s", d.Location.FilePath, d.Message))
		case "syntaxError":
			warnings = append(warnings, fmt.Sprintf("[%s] %s", d.Location.FilePath, d.Message))
		}
	}
	return warnings, errs
}

// sortDiagnostics orders the findings based on the specified criteria.
// Without a criterion the recording order is kept.
func (s *ScanServiceImpl) sortDiagnostics(diagnostics []domain.Diagnostic, sortBy domain.SortCriteria) []domain.Diagnostic {
	sorted := make([]domain.Diagnostic, len(diagnostics))
	copy(sorted, diagnostics)

	byLocation := func(a, b domain.Diagnostic) bool {
		if a.Location.FilePath != b.Location.FilePath {
			return a.Location.FilePath < b.Location.FilePath
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		return a.Rule < b.Rule
	}

	switch sortBy {
	case domain.SortByLocation:
		sort.SliceStable(sorted, func(i, j int) bool {
			return byLocation(sorted[i], sorted[j])
		})
	case domain.SortBySeverity:
		rank := map[domain.Severity]int{
			domain.SeverityError:       0,
			domain.SeverityWarning:     1,
			domain.SeverityStyle:       2,
			domain.SeverityPerformance: 3,
			domain.SeverityInformation: 4,
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			if rank[sorted[i].Severity] != rank[sorted[j].Severity] {
				return rank[sorted[i].Severity] < rank[sorted[j].Severity]
			}
			return byLocation(sorted[i], sorted[j])
		})
	case domain.SortByRule:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Rule != sorted[j].Rule {
				return sorted[i].Rule < sorted[j].Rule
			}
			return byLocation(sorted[i], sorted[j])
		})
	}

	return sorted
}

// generateSummary builds the aggregate statistics for the response
func (s *ScanServiceImpl) generateSummary(diagnostics []domain.Diagnostic, scanner *ScannerImpl) domain.ScanSummary {
	summary := domain.ScanSummary{
		FilesChecked:          scanner.FilesChecked(),
		ConfigurationsChecked: scanner.ConfigurationsChecked(),
		TotalDiagnostics:      len(diagnostics),
		Terminated:            scanner.Terminated(),
	}

	filesWithIssues := make(map[string]struct{})
	for _, d := range diagnostics {
		filesWithIssues[d.Location.FilePath] = struct{}{}

		switch d.Severity {
		case domain.SeverityError:
			summary.ErrorCount++
		case domain.SeverityWarning:
			summary.WarningCount++
		case domain.SeverityStyle:
			summary.StyleCount++
		case domain.SeverityPerformance:
			summary.PerformanceCount++
		case domain.SeverityInformation:
			summary.InformationCount++
		}
	}
	summary.FilesWithIssues = len(filesWithIssues)

	return summary
}

// buildConfigForResponse builds the configuration section for the response
func (s *ScanServiceImpl) buildConfigForResponse(req domain.ScanRequest) map[string]interface{} {
	settings := req.Settings()
	return map[string]interface{}{
		"checks":             settings.Checks,
		"min_severity":       settings.MinSeverity,
		"defines":            settings.Defines,
		"max_configurations": settings.MaxConfigurations,
		"jobs":               settings.Jobs,
		"sort_by":            req.SortBy,
	}
}
