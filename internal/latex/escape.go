// Package latex holds the escaping rules shared by every component that
// inserts untrusted text into composed LaTeX markup.
package latex

import "strings"

// escaper maps every active LaTeX character to its escaped form. A single
// strings.Replacer pass never rescans replacement text, so backslashes and
// braces produced by one substitution are not escaped again.
var escaper = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\^{}`,
	`\`, `\textbackslash{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
)

// Escape substitutes every active LaTeX character in text with its escaped
// form. It is total over the table: no source character survives unescaped.
func Escape(text string) string {
	return escaper.Replace(text)
}
