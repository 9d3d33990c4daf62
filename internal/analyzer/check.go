package analyzer

import (
	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/internal/parser"
)

// Check is one analysis pass over a parsed translation unit.
// Run may be called concurrently for different translation units.
type Check interface {
	// Name is the identifier used in configuration and reports
	Name() string

	// Severity is the default severity of this check's diagnostics
	Severity() domain.Severity

	// Run analyzes one translation unit and returns its findings
	Run(unit *parser.TranslationUnit, settings domain.Settings) []domain.Diagnostic

	// Describe returns one sample diagnostic per message the check
	// can produce
	Describe() []domain.Diagnostic
}

// WholeProgramCheck is a Check that accumulates state across all
// checked files and reports only once the whole program has been seen
type WholeProgramCheck interface {
	Check

	// BeginProgram resets accumulated state at the start of a run
	BeginProgram()

	// EndProgram returns the findings that required whole-program
	// knowledge
	EndProgram() []domain.Diagnostic
}

// DefaultChecks returns all built-in checks
func DefaultChecks() []Check {
	return []Check{
		NewUnusedFunctionCheck(),
		NewUnreachableCodeCheck(),
	}
}
