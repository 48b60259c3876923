package asp

import "testing"

func TestExtractDelimitedBlock(t *testing.T) {
	content := "<%\nFunction GetName()\nEnd Function\n%>"
	blocks := ExtractBlocks(content)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	b := blocks[0]
	if b.Content != "\nFunction GetName()\nEnd Function\n" {
		t.Fatalf("content = %q", b.Content)
	}
	if b.StartLine != 0 || b.StartCharacter != 0 {
		t.Fatalf("start = %d:%d", b.StartLine, b.StartCharacter)
	}
	if b.EndLine != 3 || b.EndCharacter != 2 {
		t.Fatalf("end = %d:%d", b.EndLine, b.EndCharacter)
	}
	if b.IsInline {
		t.Fatalf("delimited block flagged inline")
	}
}

func TestExtractInlineExpression(t *testing.T) {
	content := `<html><%= Title %></html>`
	blocks := ExtractBlocks(content)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	if !blocks[0].IsInline {
		t.Fatalf("inline expression not flagged")
	}
	if blocks[0].Content != " Title " {
		t.Fatalf("content = %q", blocks[0].Content)
	}
}

func TestExtractScriptTag(t *testing.T) {
	content := "<SCRIPT Language=\"VBScript\" RUNAT=\"Server\">\nSub Init()\nEnd Sub\n</script>"
	blocks := ExtractBlocks(content)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	if blocks[0].Content != "\nSub Init()\nEnd Sub\n" {
		t.Fatalf("content = %q", blocks[0].Content)
	}
	if blocks[0].IsInline {
		t.Fatalf("script tag flagged inline")
	}
}

func TestExtractScriptTagWithoutRunatIgnored(t *testing.T) {
	content := `<script type="text/javascript">alert(1)</script>`
	if blocks := ExtractBlocks(content); len(blocks) != 0 {
		t.Fatalf("client script extracted: %+v", blocks)
	}
}

func TestExtractMixedSortedByPosition(t *testing.T) {
	content := "<% a %>\n<p><%= b %></p>\n<% c %>"
	blocks := ExtractBlocks(content)
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i-1].StartLine > blocks[i].StartLine {
			t.Fatalf("blocks out of order: %+v", blocks)
		}
	}
	if blocks[0].Content != " a " || !blocks[1].IsInline || blocks[2].Content != " c " {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}
}

func TestExtractUnterminatedBlock(t *testing.T) {
	content := "<% a %>\n<% dangling"
	blocks := ExtractBlocks(content)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d", len(blocks))
	}
	if blocks[0].Content != " a " {
		t.Fatalf("content = %q", blocks[0].Content)
	}
}

func TestExtractNoBlocks(t *testing.T) {
	if blocks := ExtractBlocks("<html><body>static</body></html>"); len(blocks) != 0 {
		t.Fatalf("blocks = %+v", blocks)
	}
}
