package id

import (
	"strings"
	"testing"
)

func TestGenerateSessionID(t *testing.T) {
	g := New()

	a := g.GenerateSessionID()
	b := g.GenerateSessionID()

	if !strings.HasPrefix(a, "sess_") {
		t.Errorf("expected sess_ prefix, got %q", a)
	}
	if len(a) != len("sess_")+21 {
		t.Errorf("expected 21-character suffix, got %q", a)
	}
	if a == b {
		t.Error("expected distinct IDs")
	}
}
