// Package testutil provides helper functions for testing cscan components
package testutil

import (
	"testing"

	"github.com/ludo-technologies/cscan/internal/parser"
)

// CreateTestAST creates a test AST from C source code
func CreateTestAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// CreateTestUnit parses C/C++ source into a translation unit for the
// baseline configuration, selecting the grammar from the path
func CreateTestUnit(t *testing.T, path, source string) *parser.TranslationUnit {
	t.Helper()
	return CreateTestUnitWithConfiguration(t, path, "", source)
}

// CreateTestUnitWithConfiguration parses C/C++ source into a
// translation unit labelled with the given preprocessor configuration
func CreateTestUnitWithConfiguration(t *testing.T, path, configuration, source string) *parser.TranslationUnit {
	t.Helper()
	unit, err := parser.ParseUnitForLanguage(path, configuration, []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return unit
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// FindFunctionInAST finds a function definition by name in the AST
func FindFunctionInAST(ast *parser.Node, name string) *parser.Node {
	var found *parser.Node
	ast.Walk(func(n *parser.Node) bool {
		if n.Type == parser.NodeFunctionDefinition && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountFunctionsInAST counts the number of function definitions in an AST
func CountFunctionsInAST(ast *parser.Node) int {
	return CountNodesOfType(ast, parser.NodeFunctionDefinition)
}

// CountNodesOfType counts nodes of a specific type in an AST
func CountNodesOfType(ast *parser.Node, nodeType parser.NodeType) int {
	count := 0
	ast.Walk(func(n *parser.Node) bool {
		if n.Type == nodeType {
			count++
		}
		return true
	})
	return count
}
