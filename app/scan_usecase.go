package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/cscan/domain"
)

// ScanUseCase orchestrates the scanning workflow
type ScanUseCase struct {
	service    domain.ScanService
	fileHelper *FileHelper
}

// NewScanUseCase creates a new scan use case
func NewScanUseCase(service domain.ScanService) *ScanUseCase {
	return &ScanUseCase{
		service:    service,
		fileHelper: NewFileHelper(),
	}
}

// Execute performs the complete scanning workflow
func (uc *ScanUseCase) Execute(ctx context.Context, req domain.ScanRequest) (*domain.ScanResponse, error) {
	// Validate input
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	// Resolve file paths
	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no C/C++ files found in the specified paths", nil)
	}

	// Update request with collected files
	req.Paths = files

	// Perform the scan
	response, err := uc.service.Scan(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("scan failed", err)
	}

	return response, nil
}

// ScanFile scans a single file
func (uc *ScanUseCase) ScanFile(ctx context.Context, filePath string, req domain.ScanRequest) (*domain.ScanResponse, error) {
	// Validate file
	if !uc.fileHelper.IsValidSourceFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a valid C/C++ file: %s", filePath), nil)
	}

	// Check if file exists
	exists, err := uc.fileHelper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	// Perform the scan
	return uc.service.ScanFile(ctx, filePath, req)
}

// validateRequest validates the scan request
func (uc *ScanUseCase) validateRequest(req domain.ScanRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.MinSeverity != "" && !req.MinSeverity.IsValid() {
		return fmt.Errorf("unknown severity threshold: %s", req.MinSeverity)
	}

	if req.MaxConfigurations < 0 {
		return fmt.Errorf("maximum configurations cannot be negative")
	}

	if req.Jobs < 0 {
		return fmt.Errorf("jobs cannot be negative")
	}

	return nil
}

// ScanUseCaseBuilder provides a builder pattern for creating ScanUseCase
type ScanUseCaseBuilder struct {
	service    domain.ScanService
	fileHelper *FileHelper
}

// NewScanUseCaseBuilder creates a new builder
func NewScanUseCaseBuilder() *ScanUseCaseBuilder {
	return &ScanUseCaseBuilder{}
}

// WithService sets the scan service
func (b *ScanUseCaseBuilder) WithService(service domain.ScanService) *ScanUseCaseBuilder {
	b.service = service
	return b
}

// WithFileHelper sets the file helper
func (b *ScanUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ScanUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ScanUseCase with the configured dependencies
func (b *ScanUseCaseBuilder) Build() (*ScanUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("scan service is required")
	}

	uc := &ScanUseCase{
		service:    b.service,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
