package asp

import "testing"

func TestExtractIncludesFileRelative(t *testing.T) {
	p := NewIncludeParser("/project")
	content := `<!--#include file="includes/utils.asp"-->`
	directives := p.ExtractIncludes(content, "file:///project/pages/main.asp")
	if len(directives) != 1 {
		t.Fatalf("directives = %d", len(directives))
	}
	d := directives[0]
	if d.Type != IncludeFile {
		t.Fatalf("type = %q", d.Type)
	}
	if !d.Valid {
		t.Fatalf("directive invalid: %s", d.ErrorMessage)
	}
	if d.ResolvedURI != "file:///project/pages/includes/utils.asp" {
		t.Fatalf("resolved = %q", d.ResolvedURI)
	}
	if d.Range.Start.Line != 0 || d.Range.Start.Character != 0 {
		t.Fatalf("start = %+v", d.Range.Start)
	}
	if d.Range.End.Character != len(content) {
		t.Fatalf("end = %+v", d.Range.End)
	}
}

func TestExtractIncludesParentTraversal(t *testing.T) {
	p := NewIncludeParser("/project")
	directives := p.ExtractIncludes(`<!--#include file="../shared/db.inc"-->`, "file:///project/pages/main.asp")
	if directives[0].ResolvedURI != "file:///project/shared/db.inc" {
		t.Fatalf("resolved = %q", directives[0].ResolvedURI)
	}
}

func TestExtractIncludesVirtual(t *testing.T) {
	p := NewIncludeParser("/var/www/site")
	directives := p.ExtractIncludes(`<!--#include virtual="/lib/header.asp"-->`, "file:///var/www/site/deep/page.asp")
	d := directives[0]
	if d.Type != IncludeVirtual || !d.Valid {
		t.Fatalf("directive = %+v", d)
	}
	if d.ResolvedURI != "file:///var/www/site/lib/header.asp" {
		t.Fatalf("resolved = %q", d.ResolvedURI)
	}
}

func TestExtractIncludesVirtualWithoutRoot(t *testing.T) {
	p := NewIncludeParser("")
	directives := p.ExtractIncludes(`<!--#include virtual="/lib/header.asp"-->`, "file:///x/page.asp")
	d := directives[0]
	if d.Valid || d.ResolvedURI != "" {
		t.Fatalf("directive = %+v", d)
	}
	if d.ErrorMessage == "" {
		t.Fatalf("missing error message")
	}
	if d.RawPath != "/lib/header.asp" {
		t.Fatalf("raw path = %q", d.RawPath)
	}
}

func TestExtractIncludesEmptyPath(t *testing.T) {
	p := NewIncludeParser("/project")
	directives := p.ExtractIncludes(`<!--#include file=""-->`, "file:///project/a.asp")
	if len(directives) != 1 {
		t.Fatalf("directives = %d", len(directives))
	}
	if directives[0].Valid {
		t.Fatalf("empty path accepted")
	}
}

func TestExtractIncludesBackslashNormalized(t *testing.T) {
	p := NewIncludeParser("/project")
	directives := p.ExtractIncludes(`<!--#include file="inc\legacy.inc"-->`, "file:///project/a.asp")
	if directives[0].ResolvedURI != "file:///project/inc/legacy.inc" {
		t.Fatalf("resolved = %q", directives[0].ResolvedURI)
	}
}

func TestExtractIncludesCaseAndWhitespace(t *testing.T) {
	p := NewIncludeParser("/project")
	content := "line0\n  <!-- #INCLUDE File = \"Utils.ASP\" -->\n"
	directives := p.ExtractIncludes(content, "file:///project/a.asp")
	if len(directives) != 1 {
		t.Fatalf("directives = %d", len(directives))
	}
	d := directives[0]
	if d.Type != IncludeFile {
		t.Fatalf("type = %q", d.Type)
	}
	if d.RawPath != "Utils.ASP" {
		t.Fatalf("raw path = %q", d.RawPath)
	}
	if d.Range.Start.Line != 1 || d.Range.Start.Character != 2 {
		t.Fatalf("start = %+v", d.Range.Start)
	}
}

func TestExtractIncludesSingleQuotesRejected(t *testing.T) {
	p := NewIncludeParser("/project")
	if directives := p.ExtractIncludes(`<!--#include file='utils.asp'-->`, "file:///project/a.asp"); len(directives) != 0 {
		t.Fatalf("single-quoted directive matched: %+v", directives)
	}
}
