package gdlevel_test

import (
	"errors"
	"fmt"
	"testing"

	gdlevel "github.com/reoring/gdlevel"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := gdlevel.Issues{
		{Path: "/a", Code: gdlevel.CodeInvalidType},
		{Path: "/b", Code: gdlevel.CodeUnknownKey},
		{Path: "/c", Code: gdlevel.CodeMissingKey},
		{Path: "/d", Code: gdlevel.CodeNoMapping},
	}
	s := iss.Error()
	if s == "" {
		t.Fatalf("expected non-empty error summary")
	}
	if want := "invalid_type at /a; unknown_key at /b; missing_key at /c; ... (total 4)"; s != want {
		t.Fatalf("unexpected summary %q", s)
	}
}

func TestIssues_UnwrapReachesCauses(t *testing.T) {
	var err error = gdlevel.Issues{
		{Path: "/57", Code: gdlevel.CodeMissingKey, Cause: gdlevel.ErrMissingKey},
		{Path: "/9", Code: gdlevel.CodeUnknownKey, Cause: gdlevel.ErrUnknownKey},
	}
	err = fmt.Errorf("decode: %w", err)
	if !errors.Is(err, gdlevel.ErrMissingKey) || !errors.Is(err, gdlevel.ErrUnknownKey) {
		t.Fatalf("expected both causes reachable, got %v", err)
	}
	iss, ok := gdlevel.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("AsIssues failed: %v %v", iss, ok)
	}
}

func TestRebase(t *testing.T) {
	child := gdlevel.Issues{
		{Path: "/", Code: gdlevel.CodeInvalidType},
		{Path: "/2", Code: gdlevel.CodeInvalidType},
		{Path: "x", Code: gdlevel.CodeInvalidType},
	}
	got, _ := gdlevel.AsIssues(gdlevel.Rebase(child, "57"))
	want := []string{"/57", "/57/2", "/57/x"}
	for i, it := range got {
		if it.Path != want[i] {
			t.Fatalf("issue %d: got %q want %q", i, it.Path, want[i])
		}
	}

	plain := gdlevel.Rebase(errors.New("boom"), "a/b")
	iss, _ := gdlevel.AsIssues(plain)
	if len(iss) != 1 || iss[0].Path != "/a~1b" || iss[0].Code != gdlevel.CodeParseError {
		t.Fatalf("unexpected rebase of plain error: %+v", iss)
	}
	if gdlevel.Rebase(nil, "x") != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestPathRef(t *testing.T) {
	p := gdlevel.Root().Field("levels").Index(3).Field("k4")
	if p.Pointer() != "/levels/3/k4" {
		t.Fatalf("got %q", p.Pointer())
	}
	if gdlevel.At("/a/b").Field("c").Pointer() != "/a/b/c" {
		t.Fatalf("At did not parse")
	}
	if got := gdlevel.At("//a//b/").Pointer(); got != "/a/b" {
		t.Fatalf("At kept empty segments: %q", got)
	}
	if got := gdlevel.At("").Pointer(); got != "/" {
		t.Fatalf("empty path: %q", got)
	}
	it := p.Issue(gdlevel.CodeInvalidValue, gdlevel.ErrInvalidValue, "got", 7)
	if it.Params["got"] != 7 || it.Message == "" {
		t.Fatalf("unexpected issue %+v", it)
	}
}
