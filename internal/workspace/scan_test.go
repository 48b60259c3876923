package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"asp-intel/internal/config"
)

func writeFile(t *testing.T, root string, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func scanNames(files []File) map[string]Kind {
	out := make(map[string]Kind, len(files))
	for _, f := range files {
		out[filepath.Base(f.Path)] = f.Kind
	}
	return out
}

func TestKindForPath(t *testing.T) {
	cases := []struct {
		path string
		kind Kind
		ok   bool
	}{
		{"a.vbs", KindScript, true},
		{"A.ASP", KindMarkup, true},
		{"lib.Inc", KindInclude, true},
		{"x.html", 0, false},
		{"noext", 0, false},
	}
	for _, c := range cases {
		kind, ok := KindForPath(c.path)
		if kind != c.kind || ok != c.ok {
			t.Fatalf("KindForPath(%q) = %v, %v", c.path, kind, ok)
		}
	}
}

func TestScanDiscoversRecognizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.asp", "<% %>")
	writeFile(t, root, "lib/utils.vbs", "Dim x")
	writeFile(t, root, "lib/shared.inc", "Dim y")
	writeFile(t, root, "readme.md", "nope")

	files, err := NewScanner(root, config.Default()).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := scanNames(files)
	if len(got) != 3 {
		t.Fatalf("files = %v", got)
	}
	if got["main.asp"] != KindMarkup || got["utils.vbs"] != KindScript || got["shared.inc"] != KindInclude {
		t.Fatalf("kinds = %v", got)
	}
	// Paths sorted, so output order is stable.
	if filepath.Base(files[0].Path) != "utils.vbs" && filepath.Base(files[0].Path) != "main.asp" {
		t.Fatalf("unexpected first file %q", files[0].Path)
	}
	for _, f := range files {
		if f.URI == "" || f.Content == "" {
			t.Fatalf("incomplete file %+v", f)
		}
	}
}

func TestScanSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.asp", "<% %>")
	writeFile(t, root, "Backup/old.asp", "<% %>")
	writeFile(t, root, "node_modules/pkg/x.vbs", "Dim x")

	files, err := NewScanner(root, config.Default()).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := scanNames(files)
	if len(got) != 1 || got["keep.asp"] == 0 {
		t.Fatalf("files = %v", got)
	}
}

func TestScanHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n*.tmp.asp\n")
	writeFile(t, root, "page.asp", "<% %>")
	writeFile(t, root, "draft.tmp.asp", "<% %>")
	writeFile(t, root, "generated/out.asp", "<% %>")

	files, err := NewScanner(root, config.Default()).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := scanNames(files)
	if len(got) != 1 || got["page.asp"] == 0 {
		t.Fatalf("files = %v", got)
	}
}

func TestScanHonorsExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "page.asp", "<% %>")
	writeFile(t, root, "legacy/old.asp", "<% %>")

	cfg := config.Default()
	cfg.Exclude = []string{"legacy/**"}
	files, err := NewScanner(root, cfg).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := scanNames(files)
	if len(got) != 1 || got["page.asp"] == 0 {
		t.Fatalf("files = %v", got)
	}
}

func TestScanSkipsOversized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.asp", "<% %>")
	writeFile(t, root, "big.asp", string(make([]byte, 2048)))

	cfg := config.Default()
	cfg.MaxFileBytes = 1024
	files, err := NewScanner(root, cfg).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := scanNames(files)
	if len(got) != 1 || got["small.asp"] == 0 {
		t.Fatalf("files = %v", got)
	}
}

func TestScanReplacesInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "latin1.asp", "<% s = \"caf\xe9\" %>")

	files, err := NewScanner(root, config.Default()).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %d", len(files))
	}
	if !utf8.ValidString(files[0].Content) {
		t.Fatalf("content not valid UTF-8: %q", files[0].Content)
	}
}
