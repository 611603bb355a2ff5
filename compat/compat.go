package compat

import (
	"fmt"

	"github.com/openbindings/schemac/semantic"
)

// Report is the result of comparing two compilations of the same
// function.
type Report struct {
	FunctionName     string
	InputCompatible  bool
	OutputCompatible bool
}

// CheckFunction reports whether newFn is a compatible evolution of oldFn.
// oldFn and newFn each belong to their own compilation (oldSchema and
// newSchema respectively, typically two successive reflections of an
// evolving interface) — they are never required to share a symbol table,
// since each type reference is projected to a JSON-Schema-shaped value
// before comparison (project.go).
func CheckFunction(oldSchema, newSchema *semantic.Schema, oldFn, newFn *semantic.Function) (*Report, error) {
	oldIn := projectFunctionIO(oldSchema, oldFn.InputType)
	newIn := projectFunctionIO(newSchema, newFn.InputType)
	oldOut := projectFunctionIO(oldSchema, oldFn.OutputType)
	newOut := projectFunctionIO(newSchema, newFn.OutputType)

	n := &Normalizer{}

	inOK, err := n.InputCompatible(oldIn, newIn)
	if err != nil {
		return nil, fmt.Errorf("compat: input check for %q: %w", newFn.Name, err)
	}
	outOK, err := n.OutputCompatible(oldOut, newOut)
	if err != nil {
		return nil, fmt.Errorf("compat: output check for %q: %w", newFn.Name, err)
	}

	return &Report{
		FunctionName:     newFn.Name,
		InputCompatible:  inOK,
		OutputCompatible: outOK,
	}, nil
}
