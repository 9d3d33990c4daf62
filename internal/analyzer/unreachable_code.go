package analyzer

import (
	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/internal/parser"
)

// UnreachableCodeCheck reports statements that can never execute
// because an unconditional jump precedes them in the same block
type UnreachableCodeCheck struct{}

// NewUnreachableCodeCheck creates the unreachable code check
func NewUnreachableCodeCheck() *UnreachableCodeCheck {
	return &UnreachableCodeCheck{}
}

func (c *UnreachableCodeCheck) Name() string {
	return "unreachableCode"
}

func (c *UnreachableCodeCheck) Severity() domain.Severity {
	return domain.SeverityStyle
}

// Run walks every statement sequence of the translation unit and
// reports the first statement of each region that follows a return,
// break, continue or goto. A label or case makes code reachable again.
func (c *UnreachableCodeCheck) Run(unit *parser.TranslationUnit, settings domain.Settings) []domain.Diagnostic {
	var diagnostics []domain.Diagnostic

	unit.Root.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeCompoundStatement, parser.NodeCaseClause:
			diagnostics = append(diagnostics, c.checkSequence(unit, n.Body)...)
		}
		return true
	})

	return diagnostics
}

// checkSequence reports one diagnostic per unreachable region in a
// statement sequence
func (c *UnreachableCodeCheck) checkSequence(unit *parser.TranslationUnit, body []*parser.Node) []domain.Diagnostic {
	var diagnostics []domain.Diagnostic

	for i := 0; i < len(body)-1; i++ {
		stmt := body[i]
		next := body[i+1]

		if isReachabilityReset(next) {
			continue
		}
		if !stmt.IsJump() {
			continue
		}

		diagnostics = append(diagnostics, domain.Diagnostic{
			Rule:     c.Name(),
			Severity: domain.SeverityStyle,
			Location: domain.Location{
				FilePath: unit.Path,
				Line:     next.Location.StartLine,
				Column:   next.Location.StartCol,
			},
			Message:       "Statements following '" + jumpKeyword(stmt.Type) + "' will never be executed.",
			Configuration: unit.Configuration,
		})

		// Skip the rest of the region; it is reported once
		j := i + 1
		for j < len(body) && !isReachabilityReset(body[j]) {
			j++
		}
		i = j - 1
	}

	return diagnostics
}

func (c *UnreachableCodeCheck) Describe() []domain.Diagnostic {
	return []domain.Diagnostic{
		{
			Rule:     c.Name(),
			Severity: domain.SeverityStyle,
			Message:  "Statements following 'return' will never be executed.",
		},
	}
}

// isReachabilityReset returns true for statements a jump can land on
func isReachabilityReset(n *parser.Node) bool {
	return n.Type == parser.NodeLabeledStatement || n.Type == parser.NodeCaseClause
}

func jumpKeyword(nodeType parser.NodeType) string {
	switch nodeType {
	case parser.NodeReturnStatement:
		return "return"
	case parser.NodeBreakStatement:
		return "break"
	case parser.NodeContinueStatement:
		return "continue"
	case parser.NodeGotoStatement:
		return "goto"
	}
	return "jump"
}
