package domain

// CheckResult represents the outcome of a CI quality gate run
type CheckResult struct {
	Passed      bool         `json:"passed"`
	ExitCode    int          `json:"exit_code"`
	FailOn      Severity     `json:"fail_on"`
	Violations  []Diagnostic `json:"violations"`
	Summary     ScanSummary  `json:"summary"`
	GeneratedAt string       `json:"generated_at"`
	Version     string       `json:"version"`
}

// EvaluateCheck builds a gate result from a scan response: the gate
// fails when any diagnostic is at least as severe as failOn.
func EvaluateCheck(resp *ScanResponse, failOn Severity) CheckResult {
	result := CheckResult{
		Passed:      true,
		FailOn:      failOn,
		Summary:     resp.Summary,
		GeneratedAt: resp.GeneratedAt,
		Version:     resp.Version,
	}
	for _, d := range resp.Diagnostics {
		if d.Severity.IsAtLeast(failOn) {
			result.Violations = append(result.Violations, d)
		}
	}
	if len(result.Violations) > 0 {
		result.Passed = false
		result.ExitCode = 1
	}
	return result
}
