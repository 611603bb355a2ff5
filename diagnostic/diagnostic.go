// Package diagnostic defines the structured diagnostics the compiler
// returns instead of panicking or returning opaque errors (spec.md §7).
// Fatal diagnostics abort the pipeline; Warning and Info diagnostics are
// collected and returned alongside a successful result.
package diagnostic

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/openbindings/schemac/symbol"
)

// Severity classifies a Diagnostic per spec.md §7.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Code names one of the diagnostic kinds spec.md §7 enumerates.
type Code string

const (
	// Fatal codes.
	CodeUnknownType                Code = "UnknownType"
	CodeAliasCycle                 Code = "AliasCycle"
	CodeCircularDependency         Code = "CircularDependency"
	CodeUnresolvedGenericParameter Code = "UnresolvedGenericParameter"
	CodeInvalidFlatten             Code = "InvalidFlatten"
	CodeUnsupportedConstruct       Code = "UnsupportedConstruct"
	CodeNameCollisionUnsolvable    Code = "NameCollisionUnsolvable"
	CodeUnsupportedSchemaVersion   Code = "UnsupportedSchemaVersion"

	// Warning codes.
	CodeRedundantDefinition Code = "RedundantDefinition"
	CodeEmptyEnum           Code = "EmptyEnum"
	CodeUnusedType          Code = "UnusedType"

	// Info codes.
	CodeMonomorphizedInstantiation Code = "MonomorphizedInstantiation"
	CodeFallbackApplied            Code = "FallbackApplied"
)

// defaultSeverity is used by New when the caller doesn't pass one
// explicitly via NewFatal/NewWarning/NewInfo.
var defaultSeverity = map[Code]Severity{
	CodeUnknownType:                SeverityFatal,
	CodeAliasCycle:                 SeverityFatal,
	CodeCircularDependency:         SeverityFatal,
	CodeUnresolvedGenericParameter: SeverityFatal,
	CodeInvalidFlatten:             SeverityFatal,
	CodeUnsupportedConstruct:       SeverityFatal,
	CodeNameCollisionUnsolvable:    SeverityFatal,
	CodeUnsupportedSchemaVersion:   SeverityFatal,
	CodeRedundantDefinition:        SeverityWarning,
	CodeEmptyEnum:                  SeverityWarning,
	CodeUnusedType:                 SeverityWarning,
	CodeMonomorphizedInstantiation: SeverityInfo,
	CodeFallbackApplied:            SeverityInfo,
}

// Diagnostic carries a SymbolId (or a raw path, for diagnostics emitted
// before ID assignment) and a human-readable message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	SymbolID *symbol.ID // nil if Path is set instead
	Path     string     // used pre-ID-assignment; empty once SymbolID is set
	Message  string
}

// New builds a Diagnostic at the code's default severity.
func New(code Code, symID *symbol.ID, path, message string) Diagnostic {
	sev, ok := defaultSeverity[code]
	if !ok {
		sev = SeverityFatal
	}
	return Diagnostic{Severity: sev, Code: code, SymbolID: symID, Path: path, Message: message}
}

// NewAt builds a Diagnostic anchored on an already-minted SymbolId.
func NewAt(code Code, id symbol.ID, message string) Diagnostic {
	return New(code, &id, "", message)
}

// NewAtPath builds a Diagnostic anchored on a raw path (pre-ID-assignment).
func NewAtPath(code Code, path, message string) Diagnostic {
	return New(code, nil, path, message)
}

func (d Diagnostic) String() string {
	loc := d.Path
	if d.SymbolID != nil {
		loc = d.SymbolID.String()
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s at %s: %s", d.Severity, d.Code, loc, d.Message)
}

func (d Diagnostic) Error() string { return d.String() }

// IsFatal reports whether this diagnostic should abort the pipeline.
func (d Diagnostic) IsFatal() bool { return d.Severity == SeverityFatal }

// Bag collects diagnostics across one or more phases (spec.md §7: "the
// pipeline short-circuits after the first fatal diagnostic but may
// collect several non-fatal ones within a phase").
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Addf is a convenience wrapper building a Diagnostic inline.
func (b *Bag) Addf(code Code, id *symbol.ID, path, format string, args ...any) {
	b.Add(New(code, id, path, fmt.Sprintf(format, args...)))
}

// HasFatal reports whether any collected diagnostic is fatal.
func (b *Bag) HasFatal() bool {
	for _, d := range b.items {
		if d.IsFatal() {
			return true
		}
	}
	return false
}

// Items returns the collected diagnostics in insertion order.
func (b *Bag) Items() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Fatals returns only the fatal diagnostics, in insertion order.
func (b *Bag) Fatals() []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.IsFatal() {
			out = append(out, d)
		}
	}
	return out
}

// Err combines every fatal diagnostic into a single multierr error, or
// returns nil if none are fatal. Non-fatal diagnostics are available via
// Items even on success; they never surface through Err.
func (b *Bag) Err() error {
	var err error
	for _, d := range b.items {
		if d.IsFatal() {
			err = multierr.Append(err, d)
		}
	}
	return err
}

// Empty reports whether the bag has no diagnostics at all.
func (b *Bag) Empty() bool { return len(b.items) == 0 }
