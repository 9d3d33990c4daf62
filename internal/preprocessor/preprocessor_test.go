package preprocessor

import (
	"reflect"
	"strings"
	"testing"
)

func TestConfigurations(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		defines  []string
		max      int
		expected []string
	}{
		{
			name:     "no conditionals",
			source:   "int main(void) { return 0; }\n",
			max:      12,
			expected: []string{""},
		},
		{
			name:     "single ifdef",
			source:   "#ifdef DEBUG\nvoid trace(void);\n#endif\n",
			max:      12,
			expected: []string{"", "DEBUG"},
		},
		{
			name:     "macros in order of first appearance",
			source:   "#ifdef B\n#endif\n#ifdef A\n#endif\n#ifdef B\n#endif\n",
			max:      12,
			expected: []string{"", "B", "A"},
		},
		{
			name:     "ifndef counts as variation point",
			source:   "#ifndef NDEBUG\nvoid check(void);\n#endif\n",
			max:      12,
			expected: []string{"", "NDEBUG"},
		},
		{
			name:     "defined operator in if",
			source:   "#if defined(FAST) && !defined(SLOW)\n#endif\n",
			max:      12,
			expected: []string{"", "FAST", "SLOW"},
		},
		{
			name:     "elif contributes macros",
			source:   "#if defined(A)\n#elif defined(B)\n#endif\n",
			max:      12,
			expected: []string{"", "A", "B"},
		},
		{
			name:     "settings defines are not variation points",
			source:   "#ifdef DEBUG\n#endif\n#ifdef TRACE\n#endif\n",
			defines:  []string{"DEBUG"},
			max:      12,
			expected: []string{"", "TRACE"},
		},
		{
			name:     "cap limits configurations",
			source:   "#ifdef A\n#endif\n#ifdef B\n#endif\n#ifdef C\n#endif\n",
			max:      2,
			expected: []string{"", "A"},
		},
		{
			name:     "include guard is skipped",
			source:   "#ifndef UTIL_H\n#define UTIL_H\n#ifdef FEATURE\nvoid f(void);\n#endif\n#endif\n",
			max:      12,
			expected: []string{"", "FEATURE"},
		},
		{
			name:     "guard pattern not at top is a variation point",
			source:   "int x;\n#ifndef UTIL_H\n#define UTIL_H\n#endif\n",
			max:      12,
			expected: []string{"", "UTIL_H"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.defines, tt.max)
			got := p.Configurations([]byte(tt.source))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Configurations() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestRender(t *testing.T) {
	source := strings.Join([]string{
		"#ifdef DEBUG",
		"void trace(void);",
		"#else",
		"void fast(void);",
		"#endif",
		"int main(void) { return 0; }",
	}, "\n") + "\n"

	t.Run("default configuration takes else branch", func(t *testing.T) {
		p := New(nil, 12)
		got := string(p.Render([]byte(source), ""))

		if strings.Contains(got, "trace") {
			t.Error("inactive branch should not survive rendering")
		}
		if !strings.Contains(got, "fast") {
			t.Error("else branch should survive rendering")
		}
		if !strings.Contains(got, "int main") {
			t.Error("unconditional code should survive rendering")
		}
	})

	t.Run("macro configuration takes if branch", func(t *testing.T) {
		p := New(nil, 12)
		got := string(p.Render([]byte(source), "DEBUG"))

		if !strings.Contains(got, "trace") {
			t.Error("active branch should survive rendering")
		}
		if strings.Contains(got, "fast") {
			t.Error("else branch should not survive rendering")
		}
	})

	t.Run("line numbers are preserved", func(t *testing.T) {
		p := New(nil, 12)
		got := string(p.Render([]byte(source), "DEBUG"))

		lines := strings.Split(got, "\n")
		if lines[1] != "void trace(void);" {
			t.Errorf("expected trace on line 2, got %q", lines[1])
		}
		if lines[5] != "int main(void) { return 0; }" {
			t.Errorf("expected main on line 6, got %q", lines[5])
		}

		wantLines := strings.Count(source, "\n")
		gotLines := strings.Count(got, "\n")
		if gotLines != wantLines {
			t.Errorf("rendered %d lines, expected %d", gotLines, wantLines)
		}
	})
}

func TestRenderDirectives(t *testing.T) {
	tests := []struct {
		name          string
		source        string
		configuration string
		wantContains  []string
		wantOmits     []string
	}{
		{
			name:      "if zero is always inactive",
			source:    "#if 0\nvoid dead(void);\n#endif\n",
			wantOmits: []string{"dead"},
		},
		{
			name:         "if one is always active",
			source:       "#if 1\nvoid live(void);\n#endif\n",
			wantContains: []string{"live"},
		},
		{
			name:          "elif chain picks single branch",
			source:        "#if defined(A)\nint a;\n#elif defined(B)\nint b;\n#else\nint c;\n#endif\n",
			configuration: "B",
			wantContains:  []string{"int b;"},
			wantOmits:     []string{"int a;", "int c;"},
		},
		{
			name:          "nested conditionals",
			source:        "#ifdef OUTER\n#ifdef INNER\nint both;\n#endif\nint outer;\n#endif\n",
			configuration: "OUTER",
			wantContains:  []string{"int outer;"},
			wantOmits:     []string{"int both;"},
		},
		{
			name:         "define enables later ifdef",
			source:       "#define LOCAL\n#ifdef LOCAL\nint x;\n#endif\n",
			wantContains: []string{"int x;"},
		},
		{
			name:      "undef disables later ifdef",
			source:    "#define LOCAL\n#undef LOCAL\n#ifdef LOCAL\nint x;\n#endif\n",
			wantOmits: []string{"int x;"},
		},
		{
			name:      "define inside inactive branch is ignored",
			source:    "#ifdef MISSING\n#define LOCAL\n#endif\n#ifdef LOCAL\nint x;\n#endif\n",
			wantOmits: []string{"int x;"},
		},
		{
			name:         "include lines are blanked",
			source:       "#include <stdio.h>\nint x;\n",
			wantContains: []string{"int x;"},
			wantOmits:    []string{"stdio.h"},
		},
		{
			name:          "negated conjunction",
			source:        "#if defined(A) && !defined(B)\nint ab;\n#endif\n",
			configuration: "A",
			wantContains:  []string{"int ab;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(nil, 12)
			got := string(p.Render([]byte(tt.source), tt.configuration))

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("rendered output should contain %q\ngot:\n%s", want, got)
				}
			}
			for _, omit := range tt.wantOmits {
				if strings.Contains(got, omit) {
					t.Errorf("rendered output should not contain %q\ngot:\n%s", omit, got)
				}
			}
		})
	}
}

func TestEvalCondition(t *testing.T) {
	defined := map[string]struct{}{"A": {}, "B": {}}

	tests := []struct {
		expr     string
		expected bool
	}{
		{"1", true},
		{"0", false},
		{"A", true},
		{"C", false},
		{"defined(A)", true},
		{"defined A", true},
		{"defined(C)", false},
		{"!defined(C)", true},
		{"defined(A) && defined(B)", true},
		{"defined(A) && defined(C)", false},
		{"defined(C) || defined(B)", true},
		{"(defined(A))", true},
		{"A > 2", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := evalCondition(tt.expr, defined); got != tt.expected {
				t.Errorf("evalCondition(%q) = %v, expected %v", tt.expr, got, tt.expected)
			}
		})
	}
}

func TestIncludeGuardDetection(t *testing.T) {
	p := New(nil, 12)

	t.Run("guarded header renders in default configuration", func(t *testing.T) {
		source := "#ifndef UTIL_H\n#define UTIL_H\nvoid util(void);\n#endif\n"
		got := string(p.Render([]byte(source), ""))
		if !strings.Contains(got, "void util(void);") {
			t.Error("guarded content should be visible in the default configuration")
		}
	})

	t.Run("comment before guard is tolerated", func(t *testing.T) {
		source := "// header\n#ifndef UTIL_H\n#define UTIL_H\n#endif\n"
		if guard := p.includeGuard([]byte(source)); guard != "UTIL_H" {
			t.Errorf("includeGuard() = %q, expected UTIL_H", guard)
		}
	})
}
