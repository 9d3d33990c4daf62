package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Language identifies the grammar used to parse a file
type Language string

const (
	LanguageC   Language = "c"
	LanguageCPP Language = "cpp"
)

// DetectLanguage determines the language from the file extension.
// Headers and unknown extensions fall back to C.
func DetectLanguage(filename string) Language {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cpp", ".cxx", ".cc", ".c++", ".hpp", ".hxx", ".hh", ".tpp", ".ipp":
		return LanguageCPP
	default:
		return LanguageC
	}
}

// SyntaxError reports that a file could not be parsed as valid C/C++
type SyntaxError struct {
	Path string
	Line int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s at line %d", e.Path, e.Line)
}

// TranslationUnit is the parsed form of one preprocessor configuration
// of a source file
type TranslationUnit struct {
	Path          string
	Configuration string
	Language      Language
	Root          *Node
	Source        []byte
}

// Functions returns all function definitions in the translation unit
func (tu *TranslationUnit) Functions() []*Node {
	var funcs []*Node
	tu.Root.Walk(func(n *Node) bool {
		if n.Type == NodeFunctionDefinition {
			funcs = append(funcs, n)
		}
		return true
	})
	return funcs
}

// Parser wraps tree-sitter parser for C/C++
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	lang     Language
}

// NewParser creates a new C parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := c.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		lang:     LanguageC,
	}
}

// NewCPPParser creates a new C++ parser
func NewCPPParser() *Parser {
	parser := sitter.NewParser()
	lang := cpp.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		lang:     LanguageCPP,
	}
}

// ParseFile parses a C/C++ file
func (p *Parser) ParseFile(filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	// Build our internal AST from tree-sitter CST
	builder := NewASTBuilder(filename, source)
	ast := builder.Build(rootNode)

	return ast, nil
}

// Parse parses C/C++ source code
func (p *Parser) Parse(source []byte) (*Node, error) {
	return p.ParseFile("<input>", source)
}

// ParseString parses C/C++ source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.Parse([]byte(source))
}

// ParseUnit parses one preprocessed configuration of a source file.
// A *SyntaxError is returned when the source does not parse cleanly,
// carrying the line of the first offending construct.
func (p *Parser) ParseUnit(path, configuration string, source []byte) (*TranslationUnit, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", path, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", path)
	}
	if rootNode.HasError() {
		return nil, &SyntaxError{Path: path, Line: firstErrorLine(rootNode)}
	}

	builder := NewASTBuilder(path, source)
	ast := builder.Build(rootNode)
	if ast == nil {
		return nil, fmt.Errorf("failed to build AST for %s", path)
	}

	return &TranslationUnit{
		Path:          path,
		Configuration: configuration,
		Language:      p.lang,
		Root:          ast,
		Source:        source,
	}, nil
}

// IsCPP returns true if this parser is configured for C++
func (p *Parser) IsCPP() bool {
	return p.lang == LanguageCPP
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseForLanguage automatically selects the C or C++ parser based on
// the file extension
func ParseForLanguage(filename string, source []byte) (*Node, error) {
	parser := newParserFor(filename)
	defer parser.Close()

	return parser.ParseFile(filename, source)
}

// ParseUnitForLanguage parses one configuration of a source file,
// selecting the C or C++ grammar from the file extension
func ParseUnitForLanguage(path, configuration string, source []byte) (*TranslationUnit, error) {
	parser := newParserFor(path)
	defer parser.Close()

	return parser.ParseUnit(path, configuration, source)
}

func newParserFor(filename string) *Parser {
	if DetectLanguage(filename) == LanguageCPP {
		return NewCPPParser()
	}
	return NewParser()
}

// firstErrorLine locates the first error or missing node in the parse tree
func firstErrorLine(tsNode *sitter.Node) int {
	if tsNode.Type() == "ERROR" || tsNode.IsMissing() {
		return int(tsNode.StartPoint().Row) + 1
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil && child.HasError() {
			return firstErrorLine(child)
		}
	}
	return int(tsNode.StartPoint().Row) + 1
}
