package dsl_test

import (
	"context"
	"testing"

	gdlevel "github.com/reoring/gdlevel"
	g "github.com/reoring/gdlevel/dsl"
)

type hsvBind struct {
	Hue        int
	Saturation float64
	Value      float64
	hidden     bool
}

type labelBind struct {
	Text    string `gd:"text"`
	Kerning int    `json:"kerning,omitempty"`
	Skip    string `json:"-"`
	Plain   bool
}

func TestToStruct_KeyResolution(t *testing.T) {
	ctx := context.Background()
	s := g.ToStruct[labelBind]()

	v, err := s.Analyze(ctx, map[string]any{"text": "hi", "kerning": 2, "Plain": true, "Skip": "x"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	got := v.(labelBind)
	if got.Text != "hi" || got.Kerning != 2 || !got.Plain || got.Skip != "" {
		t.Fatalf("unexpected value: %+v", got)
	}

	raw, err := s.Compile(ctx, &got, nil)
	if err != nil {
		t.Fatalf("compile pointer: %v", err)
	}
	if !gdlevel.Equal(raw, map[string]any{"text": "hi", "kerning": 2, "Plain": true}) {
		t.Fatalf("raw: %v", raw)
	}
}

func TestToStruct_TypeMismatch(t *testing.T) {
	ctx := context.Background()
	s := g.ToStruct[labelBind]()
	_, err := s.Analyze(ctx, map[string]any{"text": 5})
	iss, ok := gdlevel.AsIssues(err)
	if !ok || iss[0].Path != "/text" || iss[0].Code != gdlevel.CodeInvalidType {
		t.Fatalf("expected invalid_type at /text, got %v", err)
	}
	if _, err := s.Compile(ctx, "not a struct", nil); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestFromTuple(t *testing.T) {
	ctx := context.Background()
	s := g.FromTuple[hsvBind]()

	v, err := s.Analyze(ctx, []any{30, 0.5, 1.0})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if h := v.(hsvBind); h.Hue != 30 || h.Saturation != 0.5 || h.Value != 1 {
		t.Fatalf("value: %+v", h)
	}
	raw, err := s.Compile(ctx, hsvBind{Hue: 1, Saturation: 2, Value: 3}, nil)
	if err != nil || !gdlevel.Equal(raw, []any{1, 2.0, 3.0}) {
		t.Fatalf("compile: %v %v", raw, err)
	}
	if _, err := s.Analyze(ctx, []any{1, 2}); err == nil {
		t.Fatalf("arity mismatch must fail")
	}
}
