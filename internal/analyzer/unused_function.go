package analyzer

import (
	"sort"
	"sync"

	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/internal/parser"
)

// entryPoints are functions called by the runtime rather than by code
// we can see
var entryPoints = map[string]struct{}{
	"main":    {},
	"WinMain": {},
	"DllMain": {},
}

// functionDefinition is one function definition seen during a run
type functionDefinition struct {
	name     string
	static   bool
	location domain.Location
}

// UnusedFunctionCheck reports functions that are defined but never
// referenced anywhere in the checked program. Definitions and
// references are accumulated per translation unit and resolved once
// all files have been seen, so a function defined in one file and
// called only from another is not a false positive.
type UnusedFunctionCheck struct {
	mu          sync.Mutex
	definitions map[string]functionDefinition
	usedNames   map[string]struct{}
	usedInFile  map[string]struct{}
}

// NewUnusedFunctionCheck creates the unused function check
func NewUnusedFunctionCheck() *UnusedFunctionCheck {
	c := &UnusedFunctionCheck{}
	c.BeginProgram()
	return c
}

func (c *UnusedFunctionCheck) Name() string {
	return "unusedFunction"
}

func (c *UnusedFunctionCheck) Severity() domain.Severity {
	return domain.SeverityStyle
}

// BeginProgram resets the accumulated definitions and references
func (c *UnusedFunctionCheck) BeginProgram() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions = make(map[string]functionDefinition)
	c.usedNames = make(map[string]struct{})
	c.usedInFile = make(map[string]struct{})
}

// Run records the function definitions and identifier references of
// one translation unit. Findings are only produced by EndProgram.
func (c *UnusedFunctionCheck) Run(unit *parser.TranslationUnit, settings domain.Settings) []domain.Diagnostic {
	var definitions []functionDefinition
	for _, fn := range unit.Functions() {
		if fn.Name == "" {
			continue
		}
		if _, ok := entryPoints[fn.Name]; ok {
			continue
		}
		definitions = append(definitions, functionDefinition{
			name:   fn.Name,
			static: fn.Static,
			location: domain.Location{
				FilePath: unit.Path,
				Line:     fn.Location.StartLine,
				Column:   fn.Location.StartCol,
			},
		})
	}

	// Any surviving identifier reference counts as a use. Declarator
	// names are consumed by the parser, so definitions and prototypes
	// do not mark themselves used.
	references := make(map[string]struct{})
	unit.Root.Walk(func(n *parser.Node) bool {
		if n.Type == parser.NodeIdentifier && n.Name != "" {
			references[n.Name] = struct{}{}
		}
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, def := range definitions {
		key := def.name
		if def.static {
			key = fileScopedKey(unit.Path, def.name)
		}
		if _, ok := c.definitions[key]; !ok {
			c.definitions[key] = def
		}
	}
	for name := range references {
		c.usedNames[name] = struct{}{}
		c.usedInFile[fileScopedKey(unit.Path, name)] = struct{}{}
	}

	return nil
}

// EndProgram reports every recorded definition that no translation
// unit referenced. Static functions only count references from their
// own file.
func (c *UnusedFunctionCheck) EndProgram() []domain.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	var diagnostics []domain.Diagnostic
	for key, def := range c.definitions {
		if def.static {
			if _, ok := c.usedInFile[key]; ok {
				continue
			}
		} else {
			if _, ok := c.usedNames[def.name]; ok {
				continue
			}
		}

		diagnostics = append(diagnostics, domain.Diagnostic{
			Rule:     c.Name(),
			Severity: domain.SeverityStyle,
			Location: def.location,
			Message:  "The function '" + def.name + "' is never used.",
		})
	}

	// Accumulation order depends on file completion order, so sort
	// for a stable report
	sort.Slice(diagnostics, func(i, j int) bool {
		if diagnostics[i].Location.FilePath != diagnostics[j].Location.FilePath {
			return diagnostics[i].Location.FilePath < diagnostics[j].Location.FilePath
		}
		if diagnostics[i].Location.Line != diagnostics[j].Location.Line {
			return diagnostics[i].Location.Line < diagnostics[j].Location.Line
		}
		return diagnostics[i].Message < diagnostics[j].Message
	})

	return diagnostics
}

func (c *UnusedFunctionCheck) Describe() []domain.Diagnostic {
	return []domain.Diagnostic{
		{
			Rule:     c.Name(),
			Severity: domain.SeverityStyle,
			Message:  "The function 'funcName' is never used.",
		},
	}
}

func fileScopedKey(path, name string) string {
	return path + "\x1f" + name
}
