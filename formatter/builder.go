package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"
	"github.com/gnolang/arbiter/internal"
	tt "github.com/gnolang/arbiter/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiCyan, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

const diagnosticTemplate = `{{header .Rule .Severity .MaxLineNumWidth .Filename .Line .Column}}` +
	`{{snippet .SnippetLines .Line .MaxLineNumWidth .CommonIndent .Padding}}` +
	`{{underlineAndMessage .Message .Padding .Line .Column .SnippetLines .CommonIndent}}` +
	`{{note .Note}}` + "\n"

var diagnosticTmpl = template.Must(template.New("diagnostic").Funcs(template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"note":                note,
}).Parse(diagnosticTemplate))

// GenerateFormattedDiagnostics renders diagnostics of a single file in a
// compiler-like layout, pointing at the offending statement.
func GenerateFormattedDiagnostics(diags []tt.Diagnostic, source *internal.SourceCode) string {
	var builder strings.Builder
	for _, d := range diags {
		builder.WriteString(buildDiagnostic(d, source))
	}
	return builder.String()
}

type DiagnosticData struct {
	Severity        string
	Rule            string
	Filename        string
	Padding         string
	Line            int
	Column          int
	MaxLineNumWidth int
	Message         string
	Note            string
	SnippetLines    []string
	CommonIndent    string
}

func buildDiagnostic(d tt.Diagnostic, source *internal.SourceCode) string {
	var lines []string
	if source != nil {
		lines = source.Lines
	}

	maxLineNumWidth := calculateMaxLineNumWidth(d.Line)
	commonIndent := ""
	if isValidLine(d.Line, lines) {
		commonIndent = findCommonIndent(lines[d.Line-1 : d.Line])
	}

	data := DiagnosticData{
		Severity:        d.Severity.String(),
		Rule:            d.Rule,
		Filename:        displayFilename(d.Filename),
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Line:            d.Line,
		Column:          d.Column,
		MaxLineNumWidth: maxLineNumWidth,
		Message:         d.Message,
		Note:            d.Note,
		SnippetLines:    lines,
		CommonIndent:    commonIndent,
	}

	var buf bytes.Buffer
	if err := diagnosticTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// utils functions used in the text template

func header(rule string, severity string, maxLineNumWidth int, filename string, line int, column int) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprint("error: ")
	case "WARNING":
		endString = warningStyle.Sprint("warning: ")
	case "INFO":
		endString = infoStyle.Sprint("info: ")
	}

	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d\n", filename, line, column)

	return endString
}

func codeSnippet(snippetLines []string, line int, maxLineNumWidth int, commonIndent string, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	if !isValidLine(line, snippetLines) {
		return endString
	}

	text := strings.TrimPrefix(strings.TrimRight(snippetLines[line-1], " \t\r"), commonIndent)
	endString += lineStyle.Sprintf("%*d | ", maxLineNumWidth, line)
	endString += fmt.Sprintf("%s\n", text)
	return endString
}

func underlineAndMessage(message string, padding string, line int, column int, snippetLines []string, commonIndent string) string {
	if !isValidLine(line, snippetLines) {
		return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", message)
	}

	source := strings.TrimRight(snippetLines[line-1], " \t\r")
	commonIndentWidth := calculateVisualColumn(commonIndent, len(commonIndent)+1)

	underlineStart := calculateVisualColumn(source, column) - commonIndentWidth
	if underlineStart < 0 {
		underlineStart = 0
	}
	underlineEnd := calculateVisualColumn(source, len(source)+1) - commonIndentWidth
	underlineLength := underlineEnd - underlineStart
	if underlineLength < 1 {
		underlineLength = 1
	}

	endString := lineStyle.Sprintf("%s| ", padding)
	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)

	return endString
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return noteStyle.Sprint("Note: ") + lineStyle.Sprintf("%s\n", note)
}

func isValidLine(line int, snippetLines []string) bool {
	return line > 0 && line <= len(snippetLines)
}

func displayFilename(filename string) string {
	if filename == "" {
		return "<stdin>"
	}
	return filename
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	// find first non-empty line's indent
	firstIndent := make([]rune, 0)
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}

	if len(firstIndent) == 0 {
		return ""
	}

	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}

		currentIndent := []rune(line[:len(line)-len(trimmed)])
		firstIndent = commonPrefix(firstIndent, currentIndent)

		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
