package diagnostic

import (
	"strings"
	"testing"

	"github.com/openbindings/schemac/symbol"
)

func TestNew_DefaultSeverityByCode(t *testing.T) {
	cases := []struct {
		code Code
		want Severity
	}{
		{CodeUnknownType, SeverityFatal},
		{CodeRedundantDefinition, SeverityWarning},
		{CodeFallbackApplied, SeverityInfo},
	}
	for _, c := range cases {
		d := NewAtPath(c.code, "x", "msg")
		if d.Severity != c.want {
			t.Fatalf("%s: expected severity %s, got %s", c.code, c.want, d.Severity)
		}
	}
}

func TestBag_ErrOnlyCombinesFatals(t *testing.T) {
	var b Bag
	b.Add(NewAtPath(CodeRedundantDefinition, "a", "warn one"))
	b.Add(NewAtPath(CodeEmptyEnum, "b", "warn two"))
	if err := b.Err(); err != nil {
		t.Fatalf("expected nil error with only warnings, got %v", err)
	}
	if b.HasFatal() {
		t.Fatalf("expected HasFatal false")
	}

	b.Add(NewAtPath(CodeUnknownType, "c", "boom"))
	if !b.HasFatal() {
		t.Fatalf("expected HasFatal true after adding a fatal diagnostic")
	}
	if err := b.Err(); err == nil {
		t.Fatalf("expected non-nil error once a fatal diagnostic is present")
	}
	if len(b.Fatals()) != 1 {
		t.Fatalf("expected exactly one fatal diagnostic, got %d", len(b.Fatals()))
	}
	if len(b.Items()) != 3 {
		t.Fatalf("expected all 3 diagnostics retained in Items, got %d", len(b.Items()))
	}
}

func TestDiagnostic_StringIncludesSymbolWhenPresent(t *testing.T) {
	id := symbol.New(symbol.KindStruct, "pkg::Foo", 0)
	d := NewAt(CodeAliasCycle, id, "cycle detected")
	s := d.String()
	if s == "" {
		t.Fatal("expected non-empty string")
	}
	want := "struct:pkg::Foo"
	if !strings.Contains(s, want) {
		t.Fatalf("expected %q to contain %q", s, want)
	}
}
