package vbs

import (
	"regexp"
	"sort"
	"strings"

	"asp-intel/internal/asp"
	"asp-intel/internal/textpos"
)

// Recognizers. Leading whitespace is [ \t]* on declaration starts so a
// pattern never matches across a line break; end patterns for Function/Sub
// keep the looser \s* the language tolerates.
var (
	reFunction = regexp.MustCompile(`(?im)^[ \t]*(?:public[ \t]+|private[ \t]+)?[ \t]*function[ \t]+(\w+)[ \t]*\(([^)]*)\)`)
	reSub      = regexp.MustCompile(`(?im)^[ \t]*(?:public[ \t]+|private[ \t]+)?[ \t]*sub[ \t]+(\w+)[ \t]*\(([^)]*)\)`)
	reClass    = regexp.MustCompile(`(?im)^[ \t]*class[ \t]+(\w+)`)
	reProperty = regexp.MustCompile(`(?im)^[ \t]*(?:public[ \t]+|private[ \t]+)?[ \t]*property[ \t]+(get|let|set)[ \t]+(\w+)[ \t]*\(([^)]*)\)`)

	reEndFunction = regexp.MustCompile(`(?im)^\s*end\s+function`)
	reEndSub      = regexp.MustCompile(`(?im)^\s*end\s+sub`)
	reEndClass    = regexp.MustCompile(`(?im)^[ \t]*end[ \t]+class`)
	reEndProperty = regexp.MustCompile(`(?im)^[ \t]*end[ \t]+property`)
)

// ParseDocument extracts symbols from a document, dispatching on the file
// kind: .asp goes through the embedded-block extractor, everything else
// (.vbs, .inc) is treated as pure VBScript.
func ParseDocument(content, uri string) []Symbol {
	if strings.HasSuffix(strings.ToLower(uri), ".asp") {
		return parseASP(content)
	}
	return Parse(content, 0)
}

// Parse extracts symbols from pure VBScript source. lineOffset shifts all
// reported lines, so embedded blocks report positions in the host document.
func Parse(content string, lineOffset int) []Symbol {
	classes := extractClasses(content, lineOffset)

	spans := make([][2]int, len(classes))
	for i, cls := range classes {
		spans[i] = [2]int{cls.Range.Start.Line, cls.Range.End.Line}
	}

	symbols := classes
	symbols = append(symbols, filterTopLevel(extractCallables(content, lineOffset, reFunction, reEndFunction), spans)...)
	symbols = append(symbols, filterTopLevel(extractCallables(content, lineOffset, reSub, reEndSub), spans)...)
	symbols = append(symbols, filterTopLevel(extractProperties(content, lineOffset), spans)...)

	sortSymbols(symbols)
	return symbols
}

func parseASP(content string) []Symbol {
	var symbols []Symbol
	for _, block := range asp.ExtractBlocks(content) {
		// Inline expressions cannot contain definitions.
		if block.IsInline {
			continue
		}
		symbols = append(symbols, Parse(block.Content, block.StartLine)...)
	}
	sortSymbols(symbols)
	return symbols
}

func sortSymbols(symbols []Symbol) {
	sort.SliceStable(symbols, func(i, j int) bool {
		a, b := symbols[i].Range.Start, symbols[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
}

// filterTopLevel drops symbols whose declaration line falls inside any
// class span; those already appear as class children.
func filterTopLevel(symbols []Symbol, classSpans [][2]int) []Symbol {
	var out []Symbol
	for _, sym := range symbols {
		line := sym.Range.Start.Line
		inside := false
		for _, span := range classSpans {
			if span[0] <= line && line <= span[1] {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, sym)
		}
	}
	return out
}

// --- recognizer mechanics ---

func extractCallables(content string, lineOffset int, start, end *regexp.Regexp) []Symbol {
	var symbols []Symbol
	lines := strings.Split(content, "\n")

	for _, m := range start.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		startLine := strings.Count(content[:m[0]], "\n") + lineOffset
		lineStart := strings.LastIndex(content[:m[0]], "\n") + 1
		nameCol := m[2] - lineStart

		endLine := findEndLine(content, m[1], end, lineOffset)
		if endLine < 0 {
			endLine = startLine
		}

		symbols = append(symbols, Symbol{
			Name: name,
			Kind: KindFunction,
			Range: textpos.Range{
				Start: textpos.Position{Line: startLine, Character: m[0] - lineStart},
				End:   textpos.Position{Line: endLine, Character: lineLength(lines, endLine-lineOffset)},
			},
			SelectionRange: nameRange(startLine, nameCol, name),
		})
	}
	return symbols
}

func extractProperties(content string, lineOffset int) []Symbol {
	var symbols []Symbol
	lines := strings.Split(content, "\n")

	for _, m := range reProperty.FindAllStringSubmatchIndex(content, -1) {
		// Group 1 is the get/let/set qualifier, group 2 the property name.
		// The qualifier only discriminates accessors; the symbol is the name.
		name := content[m[4]:m[5]]
		startLine := strings.Count(content[:m[0]], "\n") + lineOffset
		lineStart := strings.LastIndex(content[:m[0]], "\n") + 1
		nameCol := m[4] - lineStart

		endLine := findEndLine(content, m[1], reEndProperty, lineOffset)
		if endLine < 0 {
			endLine = startLine
		}

		symbols = append(symbols, Symbol{
			Name: name,
			Kind: KindProperty,
			Range: textpos.Range{
				Start: textpos.Position{Line: startLine, Character: m[0] - lineStart},
				End:   textpos.Position{Line: endLine, Character: lineLength(lines, endLine-lineOffset)},
			},
			SelectionRange: nameRange(startLine, nameCol, name),
		})
	}
	return symbols
}

func extractClasses(content string, lineOffset int) []Symbol {
	var symbols []Symbol
	lines := strings.Split(content, "\n")

	for _, m := range reClass.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		startLine := strings.Count(content[:m[0]], "\n") + lineOffset
		lineStart := strings.LastIndex(content[:m[0]], "\n") + 1
		nameCol := m[2] - lineStart

		// The class body runs to the matching End Class, or to the end of
		// the content when it is missing; the range then collapses to the
		// declaration line.
		bodyEnd := len(content)
		endLine := startLine
		if loc := findFrom(content, m[1], reEndClass); loc != nil {
			bodyEnd = loc[0]
			endLine = strings.Count(content[:loc[0]], "\n") + lineOffset
		}

		body := content[m[1]:bodyEnd]
		bodyOffset := strings.Count(content[:m[1]], "\n") + lineOffset

		children := extractCallables(body, bodyOffset, reFunction, reEndFunction)
		children = append(children, extractCallables(body, bodyOffset, reSub, reEndSub)...)
		children = append(children, extractProperties(body, bodyOffset)...)
		sortSymbols(children)

		symbols = append(symbols, Symbol{
			Name: name,
			Kind: KindClass,
			Range: textpos.Range{
				Start: textpos.Position{Line: startLine, Character: m[0] - lineStart},
				End:   textpos.Position{Line: endLine, Character: lineLength(lines, endLine-lineOffset)},
			},
			SelectionRange: nameRange(startLine, nameCol, name),
			Children:       children,
		})
	}
	return symbols
}

// findFrom returns the first match of re at or after offset from, honoring
// ^ against the full content rather than the sliced substring.
func findFrom(content string, from int, re *regexp.Regexp) []int {
	for _, loc := range re.FindAllStringIndex(content, -1) {
		if loc[0] >= from {
			return loc
		}
	}
	return nil
}

func findEndLine(content string, from int, end *regexp.Regexp, lineOffset int) int {
	loc := findFrom(content, from, end)
	if loc == nil {
		return -1
	}
	return strings.Count(content[:loc[0]], "\n") + lineOffset
}

// lineLength gives the end column for a symbol range: the full length of
// the line holding the End keyword, or 0 when the line index falls outside
// the parsed content (offset blocks near the end of a host document).
func lineLength(lines []string, idx int) int {
	if idx >= 0 && idx < len(lines) {
		return len(lines[idx])
	}
	return 0
}

func nameRange(line, col int, name string) textpos.Range {
	return textpos.Range{
		Start: textpos.Position{Line: line, Character: col},
		End:   textpos.Position{Line: line, Character: col + len(name)},
	}
}
