package asp

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"asp-intel/internal/fileuri"
	"asp-intel/internal/textpos"
)

// IncludeType distinguishes the two server-side include forms: file paths
// resolve relative to the including document, virtual paths relative to the
// web root.
type IncludeType string

const (
	IncludeFile    IncludeType = "file"
	IncludeVirtual IncludeType = "virtual"
)

// IncludeDirective is one parsed <!--#include ...--> occurrence. Invalid
// directives keep their position and raw path so tooling can still show
// them; ResolvedURI is empty and ErrorMessage says why.
type IncludeDirective struct {
	Type         IncludeType
	RawPath      string
	ResolvedURI  string
	Range        textpos.Range
	Valid        bool
	ErrorMessage string
}

// The directive is an HTML comment, matched case-insensitively with
// tolerant whitespace. Only double-quoted paths exist in the dialect.
var reInclude = regexp.MustCompile(`(?i)<!--\s*#include\s+(file|virtual)\s*=\s*"([^"]*)"\s*-->`)

// IncludeParser resolves directive paths against a workspace root. An empty
// root means virtual includes cannot be resolved and come back invalid.
type IncludeParser struct {
	workspaceRoot string
}

func NewIncludeParser(workspaceRoot string) *IncludeParser {
	return &IncludeParser{workspaceRoot: workspaceRoot}
}

// ExtractIncludes parses every include directive in content. sourceURI
// anchors file-type resolution; it must be a file:// URI.
func (p *IncludeParser) ExtractIncludes(content, sourceURI string) []IncludeDirective {
	var directives []IncludeDirective
	lineIndex := textpos.NewLineIndex(content)

	for _, m := range reInclude.FindAllStringSubmatchIndex(content, -1) {
		includeType := IncludeType(strings.ToLower(content[m[2]:m[3]]))
		rawPath := content[m[4]:m[5]]

		d := IncludeDirective{
			Type:    includeType,
			RawPath: rawPath,
			Range: textpos.Range{
				Start: lineIndex.Position(m[0]),
				End:   lineIndex.Position(m[1]),
			},
		}
		d.ResolvedURI, d.Valid, d.ErrorMessage = p.resolve(includeType, rawPath, sourceURI)
		directives = append(directives, d)
	}
	return directives
}

func (p *IncludeParser) resolve(includeType IncludeType, rawPath, sourceURI string) (uri string, valid bool, errMsg string) {
	if rawPath == "" {
		return "", false, "empty path in include directive"
	}
	if includeType == IncludeFile {
		return p.resolveFile(rawPath, sourceURI)
	}
	return p.resolveVirtual(rawPath)
}

// resolveFile joins the path onto the source document's directory.
// Backslashes are normalized first; legacy codebases mix both separators.
func (p *IncludeParser) resolveFile(rawPath, sourceURI string) (string, bool, string) {
	sourcePath, err := fileuri.ToPath(sourceURI)
	if err != nil {
		return "", false, "invalid source uri: " + sourceURI
	}
	normalized := strings.ReplaceAll(rawPath, "\\", "/")
	resolved := path.Join(path.Dir(sourcePath), normalized)
	return fileuri.FromPath(resolved), true, ""
}

// resolveVirtual joins the path onto the workspace root, stripping the
// leading separator virtual paths carry.
func (p *IncludeParser) resolveVirtual(rawPath string) (string, bool, string) {
	if p.workspaceRoot == "" {
		return "", false, "cannot resolve virtual path: workspace root not configured"
	}
	normalized := strings.ReplaceAll(rawPath, "\\", "/")
	normalized = strings.TrimPrefix(normalized, "/")
	resolved := path.Join(filepath.ToSlash(p.workspaceRoot), normalized)
	return fileuri.FromPath(resolved), true, ""
}
