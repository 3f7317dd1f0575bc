package latex_test

import (
	"strings"
	"testing"

	"github.com/sealdoc/sealdoc/internal/latex"
	"github.com/stretchr/testify/assert"
)

func TestEscapeTable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ampersand", "a & b", `a \& b`},
		{"percent", "100%", `100\%`},
		{"dollar", "$5", `\$5`},
		{"hash", "#1", `\#1`},
		{"underscore", "file_name", `file\_name`},
		{"braces", "{x}", `\{x\}`},
		{"tilde", "~user", `\textasciitilde{}user`},
		{"caret", "x^2", `x\^{}2`},
		{"backslash", `a\b`, `a\textbackslash{}b`},
		{"angle brackets", "<ok>", `\textless{}ok\textgreater{}`},
		{"plain text untouched", "hello world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, latex.Escape(tt.in))
		})
	}
}

func TestEscapeMixedContent(t *testing.T) {
	assert.Equal(t, `100\% \& \textless{}ok\textgreater{}`, latex.Escape("100% & <ok>"))
}

// Replacement text must never be escaped a second time: an input backslash
// expands to \textbackslash{} whose braces stay as-is.
func TestEscapeSinglePass(t *testing.T) {
	got := latex.Escape(`\`)
	assert.Equal(t, `\textbackslash{}`, got)

	got = latex.Escape(`\%`)
	assert.Equal(t, `\textbackslash{}\%`, got)
}

// No character from the source set may survive unescaped, for any input.
func TestEscapeTotality(t *testing.T) {
	inputs := []string{
		"& % $ # _ { } ~ ^ \\ < >",
		"&&&&", "%%", "{{{}}}", "\\\\\\", "a<b>c&d%e",
	}
	for _, in := range inputs {
		out := latex.Escape(in)
		// Strip all escaped forms first, then check for leftovers.
		stripped := strings.NewReplacer(
			`\textasciitilde{}`, "", `\textbackslash{}`, "",
			`\textless{}`, "", `\textgreater{}`, "", `\^{}`, "",
			`\&`, "", `\%`, "", `\$`, "", `\#`, "", `\_`, "", `\{`, "", `\}`, "",
		).Replace(out)
		for _, ch := range []string{"&", "%", "$", "#", "_", "{", "}", "~", "^", "\\", "<", ">"} {
			assert.NotContains(t, stripped, ch, "input %q leaked %q", in, ch)
		}
	}
}
