package domain

// Settings is the per-run configuration consumed by the scanner and
// every check. A run takes a snapshot of the settings at entry, so
// replacing them mid-run only affects the next run.
type Settings struct {
	// Checks lists the enabled check names; empty means all registered
	// checks run
	Checks []string

	// MinSeverity drops diagnostics below this level before they reach
	// the aggregator
	MinSeverity Severity

	// Defines are preprocessor macros assumed defined in every
	// configuration
	Defines []string

	// MaxConfigurations caps the number of preprocessor variants
	// checked per file
	MaxConfigurations int

	// Jobs sets the number of files checked concurrently; values below
	// 2 keep the run sequential
	Jobs int

	// Verbose enables free-text status reporting through the sink
	Verbose bool
}

// DefaultSettings returns settings with every check enabled and no
// severity filtering
func DefaultSettings() Settings {
	return Settings{
		MinSeverity:       SeverityInformation,
		MaxConfigurations: 12,
		Jobs:              1,
	}
}

// Clone returns a deep copy so callers cannot mutate a run's snapshot
// through retained slices
func (s Settings) Clone() Settings {
	out := s
	if s.Checks != nil {
		out.Checks = append([]string(nil), s.Checks...)
	}
	if s.Defines != nil {
		out.Defines = append([]string(nil), s.Defines...)
	}
	return out
}

// CheckEnabled reports whether a check with the given name should run
func (s Settings) CheckEnabled(name string) bool {
	if len(s.Checks) == 0 {
		return true
	}
	for _, c := range s.Checks {
		if c == name || c == "all" {
			return true
		}
	}
	return false
}

// Validate checks the settings for internal consistency
func (s Settings) Validate() error {
	if s.MinSeverity != "" && !s.MinSeverity.IsValid() {
		return NewValidationError("min severity must be one of: error, warning, style, performance, information")
	}
	if s.MaxConfigurations < 1 {
		return NewValidationError("max configurations must be at least 1")
	}
	if s.Jobs < 0 {
		return NewValidationError("jobs must not be negative")
	}
	return nil
}
