package graph

import (
	"reflect"
	"testing"

	"asp-intel/internal/asp"
)

func directive(target string) asp.IncludeDirective {
	return asp.IncludeDirective{
		Type:        asp.IncludeFile,
		RawPath:     target,
		ResolvedURI: target,
		Valid:       true,
	}
}

func invalidDirective() asp.IncludeDirective {
	return asp.IncludeDirective{Type: asp.IncludeVirtual, RawPath: "/x", ErrorMessage: "unresolved"}
}

func TestUpdateReturnsAffected(t *testing.T) {
	g := New()
	affected := g.Update("a", []asp.IncludeDirective{directive("b"), directive("c")})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(affected, want) {
		t.Fatalf("affected = %v, want %v", affected, want)
	}
	if got := g.DirectIncludes("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("direct includes = %v", got)
	}
	if got := g.Includers("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("includers = %v", got)
	}
}

func TestUpdateReplacesEdges(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("b")})
	g.Update("a", []asp.IncludeDirective{directive("c")})
	if got := g.DirectIncludes("a"); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("direct includes = %v", got)
	}
	if got := g.Includers("b"); len(got) != 0 {
		t.Fatalf("stale reverse edge: %v", got)
	}
}

func TestUpdateKeepsInvalidDirectives(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("b"), invalidDirective()})
	if got := g.DirectIncludes("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("invalid directive produced an edge: %v", got)
	}
	if got := g.Directives("a"); len(got) != 2 {
		t.Fatalf("directives = %d", len(got))
	}
}

func TestRemove(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("b")})
	g.Update("c", []asp.IncludeDirective{directive("a")})

	affected := g.Remove("a")
	if !reflect.DeepEqual(affected, []string{"a", "b"}) {
		t.Fatalf("affected = %v", affected)
	}
	if got := g.DirectIncludes("a"); len(got) != 0 {
		t.Fatalf("edges survived remove: %v", got)
	}
	if got := g.Includers("b"); len(got) != 0 {
		t.Fatalf("reverse edge survived remove: %v", got)
	}
	// c still points at a; a's own reverse entry is gone but c's edge is
	// c's to clean up.
	if got := g.DirectIncludes("c"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("unrelated edges touched: %v", got)
	}
}

func TestRemoveUnknownURI(t *testing.T) {
	g := New()
	if affected := g.Remove("ghost"); len(affected) != 0 {
		t.Fatalf("affected = %v", affected)
	}
}

func TestTransitiveIncludesDiamond(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("b"), directive("c")})
	g.Update("b", []asp.IncludeDirective{directive("d")})
	g.Update("c", []asp.IncludeDirective{directive("d")})

	got := g.TransitiveIncludes("a")
	want := []string{"b", "d", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("closure = %v, want %v", got, want)
	}
}

func TestTransitiveIncludesCycle(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("b")})
	g.Update("b", []asp.IncludeDirective{directive("a")})

	got := g.TransitiveIncludes("a")
	if !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("closure = %v", got)
	}
	if !g.HasCycle("a") {
		t.Fatalf("cycle not detected")
	}
}

func TestTransitiveIncluders(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("shared")})
	g.Update("b", []asp.IncludeDirective{directive("a")})

	got := g.TransitiveIncluders("shared")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("includers closure = %v, want %v", got, want)
	}
}

func TestHasCycleAcyclic(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("b"), directive("c")})
	g.Update("b", []asp.IncludeDirective{directive("c")})
	if g.HasCycle("a") {
		t.Fatalf("false cycle on diamond")
	}
}

func TestClear(t *testing.T) {
	g := New()
	g.Update("a", []asp.IncludeDirective{directive("b")})
	g.Clear()
	if len(g.DirectIncludes("a")) != 0 || len(g.Directives("a")) != 0 || len(g.Includers("b")) != 0 {
		t.Fatalf("graph not empty after clear")
	}
}
