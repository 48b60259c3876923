// Package asp understands the markup side of Classic ASP documents: the
// embedded VBScript blocks and the server-side include directives. It never
// interprets the VBScript itself.
//
// Design goals:
//   - Positions are zero-indexed (line, character) pairs in the host document
//   - Malformed markup degrades: an unterminated block ends the scan, a bad
//     directive is reported as invalid rather than dropped
//   - Deterministic output, sorted by position
package asp

import (
	"regexp"
	"sort"
	"strings"

	"asp-intel/internal/textpos"
)

// ScriptBlock is one region of server-side code found in a markup document.
// Content excludes the delimiters. IsInline marks <%= %> output expressions,
// which render a value and cannot contain definitions; callers skip them
// when looking for symbols.
type ScriptBlock struct {
	Content        string
	StartLine      int
	StartCharacter int
	EndLine        int
	EndCharacter   int
	IsInline       bool
}

// Script tags in any attribute order and case, e.g.
// <script language="vbscript" runat="server"> or <SCRIPT RUNAT='server'>.
var reScriptTag = regexp.MustCompile(`(?is)<script\s+[^>]*runat\s*=\s*["']server["'][^>]*>(.*?)</script>`)

// ExtractBlocks returns every server-side code region in content: <% %>
// blocks, <%= %> inline expressions and <script runat="server"> bodies,
// merged and sorted by start position.
func ExtractBlocks(content string) []ScriptBlock {
	blocks := findDelimitedBlocks(content)
	blocks = append(blocks, findScriptTags(content)...)
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].StartLine != blocks[j].StartLine {
			return blocks[i].StartLine < blocks[j].StartLine
		}
		return blocks[i].StartCharacter < blocks[j].StartCharacter
	})
	return blocks
}

// findDelimitedBlocks scans for <% %> pairs by hand: RE2 has no lookahead,
// so the <% vs <%= distinction cannot live in one pattern. An opener with
// no closer ends the scan; the dangling tail is not a block.
func findDelimitedBlocks(content string) []ScriptBlock {
	var blocks []ScriptBlock
	pos := 0
	for {
		open := strings.Index(content[pos:], "<%")
		if open < 0 {
			break
		}
		open += pos

		inline := open+2 < len(content) && content[open+2] == '='
		bodyStart := open + 2
		if inline {
			bodyStart = open + 3
		}

		close := strings.Index(content[bodyStart:], "%>")
		if close < 0 {
			break
		}
		bodyEnd := bodyStart + close
		after := bodyEnd + 2

		start := textpos.FromOffset(content, open)
		end := textpos.FromOffset(content, after)
		blocks = append(blocks, ScriptBlock{
			Content:        content[bodyStart:bodyEnd],
			StartLine:      start.Line,
			StartCharacter: start.Character,
			EndLine:        end.Line,
			EndCharacter:   end.Character,
			IsInline:       inline,
		})
		pos = after
	}
	return blocks
}

func findScriptTags(content string) []ScriptBlock {
	var blocks []ScriptBlock
	for _, m := range reScriptTag.FindAllStringSubmatchIndex(content, -1) {
		start := textpos.FromOffset(content, m[0])
		end := textpos.FromOffset(content, m[1])
		blocks = append(blocks, ScriptBlock{
			Content:        content[m[2]:m[3]],
			StartLine:      start.Line,
			StartCharacter: start.Character,
			EndLine:        end.Line,
			EndCharacter:   end.Character,
		})
	}
	return blocks
}
