package preprocessor

import (
	"bufio"
	"bytes"
	"strings"
)

// Preprocessor discovers preprocessor configurations in C/C++ sources
// and expands the conditional inclusion directives for one configuration
// at a time. Only directives are interpreted; macro bodies are never
// substituted into the code.
type Preprocessor struct {
	defines           map[string]struct{}
	maxConfigurations int
}

// New creates a preprocessor. The defines are treated as set in every
// configuration. maxConfigurations caps how many configurations
// Configurations will return.
func New(defines []string, maxConfigurations int) *Preprocessor {
	defineSet := make(map[string]struct{}, len(defines))
	for _, d := range defines {
		// Accept both NAME and NAME=value forms
		if idx := strings.IndexByte(d, '='); idx >= 0 {
			d = d[:idx]
		}
		d = strings.TrimSpace(d)
		if d != "" {
			defineSet[d] = struct{}{}
		}
	}

	if maxConfigurations < 1 {
		maxConfigurations = 1
	}

	return &Preprocessor{
		defines:           defineSet,
		maxConfigurations: maxConfigurations,
	}
}

// Configurations returns the preprocessor configurations to check for
// the given source. The default configuration (no extra macros) is
// always first; after it comes one configuration per macro that guards
// conditional code, in order of first appearance. Include guards and
// macros already defined via settings are not treated as variation
// points. The result is capped at the configured maximum.
func (p *Preprocessor) Configurations(source []byte) []string {
	configurations := []string{""}
	seen := map[string]struct{}{"": {}}

	guard := p.includeGuard(source)

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(configurations) >= p.maxConfigurations {
			break
		}

		directive, arg := splitDirective(scanner.Text())
		var candidates []string
		switch directive {
		case "ifdef", "ifndef":
			if name := firstIdentifier(arg); name != "" {
				candidates = append(candidates, name)
			}
		case "if", "elif":
			candidates = definedMacros(arg)
		}

		for _, name := range candidates {
			if len(configurations) >= p.maxConfigurations {
				break
			}
			if name == guard {
				continue
			}
			if _, ok := p.defines[name]; ok {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			configurations = append(configurations, name)
		}
	}

	return configurations
}

// Render expands the conditional inclusion directives of source for one
// configuration. Inactive lines and the directives themselves are
// replaced with blank lines so that line numbers are preserved.
func (p *Preprocessor) Render(source []byte, configuration string) []byte {
	defined := make(map[string]struct{}, len(p.defines)+2)
	for name := range p.defines {
		defined[name] = struct{}{}
	}
	for _, name := range strings.Split(configuration, ";") {
		name = strings.TrimSpace(name)
		if name != "" {
			defined[name] = struct{}{}
		}
	}

	var out bytes.Buffer
	out.Grow(len(source))

	// Conditional nesting state. active means the current branch is
	// emitted; taken means some branch of this level already matched.
	type condition struct {
		parentActive bool
		active       bool
		taken        bool
	}
	var stack []condition

	emitting := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		directive, arg := splitDirective(line)

		switch directive {
		case "if", "ifdef", "ifndef":
			parentActive := emitting()
			value := false
			if parentActive {
				switch directive {
				case "ifdef":
					_, value = defined[firstIdentifier(arg)]
				case "ifndef":
					_, ok := defined[firstIdentifier(arg)]
					value = !ok
				default:
					value = evalCondition(arg, defined)
				}
			}
			stack = append(stack, condition{
				parentActive: parentActive,
				active:       parentActive && value,
				taken:        value,
			})
			out.WriteByte('\n')

		case "elif":
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.parentActive && !top.taken && evalCondition(arg, defined) {
					top.active = true
					top.taken = true
				} else {
					top.active = false
				}
			}
			out.WriteByte('\n')

		case "else":
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				top.active = top.parentActive && !top.taken
				top.taken = true
			}
			out.WriteByte('\n')

		case "endif":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			out.WriteByte('\n')

		case "define":
			if emitting() {
				if name := firstIdentifier(arg); name != "" {
					defined[name] = struct{}{}
				}
			}
			out.WriteByte('\n')

		case "undef":
			if emitting() {
				if name := firstIdentifier(arg); name != "" {
					delete(defined, name)
				}
			}
			out.WriteByte('\n')

		case "include", "pragma", "error", "warning", "line":
			// Never expanded; blanked so the parser sees plain code
			out.WriteByte('\n')

		default:
			if emitting() {
				out.WriteString(line)
			}
			out.WriteByte('\n')
		}
	}

	return out.Bytes()
}

// includeGuard returns the guard macro when the file follows the
// "#ifndef G" / "#define G" include guard pattern, otherwise "".
func (p *Preprocessor) includeGuard(source []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	guard := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") {
			continue
		}

		directive, arg := splitDirective(line)
		if guard == "" {
			if directive != "ifndef" {
				return ""
			}
			guard = firstIdentifier(arg)
			if guard == "" {
				return ""
			}
			continue
		}

		if directive == "define" && firstIdentifier(arg) == guard {
			return guard
		}
		return ""
	}
	return ""
}

// splitDirective parses a "#directive argument" line. Non-directive
// lines return an empty directive name.
func splitDirective(line string) (string, string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", ""
	}
	trimmed = strings.TrimSpace(trimmed[1:])

	end := 0
	for end < len(trimmed) && (isAlpha(trimmed[end]) || trimmed[end] == '_') {
		end++
	}
	return trimmed[:end], strings.TrimSpace(trimmed[end:])
}

// firstIdentifier returns the leading identifier of s, or ""
func firstIdentifier(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && isIdentChar(s[end]) {
		end++
	}
	return s[:end]
}

// definedMacros extracts macro names from defined(X) operators in a
// #if/#elif expression, in order of appearance
func definedMacros(expr string) []string {
	var names []string
	for {
		idx := strings.Index(expr, "defined")
		if idx < 0 {
			return names
		}
		rest := strings.TrimSpace(expr[idx+len("defined"):])
		if strings.HasPrefix(rest, "(") {
			rest = strings.TrimSpace(rest[1:])
		}
		if name := firstIdentifier(rest); name != "" {
			names = append(names, name)
		}
		expr = rest
	}
}

// evalCondition evaluates a #if/#elif expression against the defined
// set. Supported forms are 0/1 literals, defined(X), bare macro names,
// negation with !, and conjunction/disjunction chains. Anything more
// involved evaluates to false.
func evalCondition(expr string, defined map[string]struct{}) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}

	// Disjunction binds loosest
	if parts := splitTopLevel(expr, "||"); len(parts) > 1 {
		for _, part := range parts {
			if evalCondition(part, defined) {
				return true
			}
		}
		return false
	}
	if parts := splitTopLevel(expr, "&&"); len(parts) > 1 {
		for _, part := range parts {
			if !evalCondition(part, defined) {
				return false
			}
		}
		return true
	}

	if strings.HasPrefix(expr, "!") {
		return !evalCondition(expr[1:], defined)
	}
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return evalCondition(expr[1:len(expr)-1], defined)
	}

	if expr == "0" {
		return false
	}
	if expr == "1" {
		return true
	}

	if strings.HasPrefix(expr, "defined") {
		rest := strings.TrimSpace(expr[len("defined"):])
		rest = strings.TrimPrefix(rest, "(")
		name := firstIdentifier(strings.TrimSpace(rest))
		_, ok := defined[name]
		return ok
	}

	if name := firstIdentifier(expr); name == expr {
		_, ok := defined[name]
		return ok
	}

	return false
}

// splitTopLevel splits expr on op outside parentheses
func splitTopLevel(expr, op string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i+len(op) <= len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && expr[i:i+len(op)] == op {
			parts = append(parts, strings.TrimSpace(expr[start:i]))
			start = i + len(op)
			i += len(op) - 1
		}
	}
	parts = append(parts, strings.TrimSpace(expr[start:]))
	return parts
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9') || c == '_'
}
