package compose

import "text/template"

// The base document template. Template actions use << >> delimiters so the
// LaTeX braces stay inert. Every substituted string is escaped before it
// reaches the template; the template itself performs no escaping.
const baseTemplate = `\documentclass[12pt]{article}
\usepackage[a4paper, margin=1in]{geometry}
\usepackage{graphicx}
\usepackage{pdfpages}

\begin{document}

\begin{center}
{\Large\bfseries <<.Title>>}

\vspace{0.5cm}
{\large <<.Abstract>>}
\end{center}

\vspace{1cm}

<<range .Sections>>\section*{<<.Title>>}
<<.Content>>

\textit{Last updated: <<.Updated>>}

<<end>><<range .Images>>\begin{figure}[h]
\centering
\includegraphics[width=0.8\textwidth]{<<.Path>>}
\caption{<<.Caption>>}
\end{figure}

<<end>><<range .Documents>>\section*{<<.Title>>}
\includepdf[pages=-]{<<.Path>>}

<<end>>\section*{Digital Signatures}
<<if .Signatures>>\begin{itemize}
<<range .Signatures>>\item <<.>>
<<end>>\end{itemize}

<<end>><<.GenerationBlock>>

\end{document}
`

var documentTemplate = template.Must(
	template.New("document").Delims("<<", ">>").Parse(baseTemplate))

type templateSection struct {
	Title   string
	Content string
	Updated string
}

type templateImage struct {
	Path    string
	Caption string
}

type templateDocument struct {
	Path  string
	Title string
}

// templateData carries pre-escaped fragments into the base template.
type templateData struct {
	Title           string
	Abstract        string
	Sections        []templateSection
	Images          []templateImage
	Documents       []templateDocument
	Signatures      []string
	GenerationBlock string
}
