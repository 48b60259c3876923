package fileuri

import "testing"

func TestRoundTrip(t *testing.T) {
	uri := FromPath("/project/includes/utils.asp")
	if uri != "file:///project/includes/utils.asp" {
		t.Fatalf("uri = %q", uri)
	}
	path, err := ToPath(uri)
	if err != nil {
		t.Fatalf("ToPath: %v", err)
	}
	if path != "/project/includes/utils.asp" {
		t.Fatalf("path = %q", path)
	}
}

func TestToPathEscaped(t *testing.T) {
	path, err := ToPath("file:///project/My%20Site/page.asp")
	if err != nil {
		t.Fatalf("ToPath: %v", err)
	}
	if path != "/project/My Site/page.asp" {
		t.Fatalf("path = %q", path)
	}
}

func TestToPathRejectsScheme(t *testing.T) {
	if _, err := ToPath("https://example.com/x.asp"); err == nil {
		t.Fatalf("expected error for non-file scheme")
	}
}

func TestDir(t *testing.T) {
	if got := Dir("file:///project/pages/main.asp"); got != "file:///project/pages" {
		t.Fatalf("dir = %q", got)
	}
	if got := Dir("file:///top.asp"); got != "file:///" {
		t.Fatalf("root dir = %q", got)
	}
}
