package normalize

import (
	"github.com/openbindings/schemac/canonicaljson"
	"github.com/openbindings/schemac/schemair"
)

// fingerprint reduces a TypeDef to its structural content — field names,
// types, representation, parameters — for the Typespace Consolidation
// phase's "structurally equivalent" test (spec.md §4.1 phase 2:
// "Equivalence is structural up to field names, types, representation,
// and description (description differences allowed)"). Ids and
// descriptions are zeroed throughout before canonicalization so that two
// declarations differing only in those respects still fingerprint equal.
func fingerprint(td schemair.TypeDef) (string, error) {
	stripped := stripForFingerprint(td)
	b, err := canonicaljson.Marshal(stripped)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func stripForFingerprint(td schemair.TypeDef) schemair.TypeDef {
	switch td.Kind {
	case schemair.TypeDefStruct:
		s := *td.Struct
		s.ID = ""
		s.Description = ""
		s.Fields.Items = stripFields(s.Fields.Items)
		return schemair.TypeDef{Kind: schemair.TypeDefStruct, Struct: &s}
	case schemair.TypeDefEnum:
		e := *td.Enum
		e.ID = ""
		e.Description = ""
		variants := make([]schemair.Variant, len(e.Variants))
		for i, v := range e.Variants {
			v.ID = ""
			v.Description = ""
			v.Fields.Items = stripFields(v.Fields.Items)
			variants[i] = v
		}
		e.Variants = variants
		return schemair.TypeDef{Kind: schemair.TypeDefEnum, Enum: &e}
	case schemair.TypeDefAlias:
		a := *td.Alias
		a.ID = ""
		return schemair.TypeDef{Kind: schemair.TypeDefAlias, Alias: &a}
	case schemair.TypeDefPrimitive:
		p := *td.Primitive
		p.ID = ""
		p.Description = ""
		return schemair.TypeDef{Kind: schemair.TypeDefPrimitive, Primitive: &p}
	default:
		return td
	}
}

func stripFields(items []schemair.Field) []schemair.Field {
	if items == nil {
		return nil
	}
	out := make([]schemair.Field, len(items))
	for i, f := range items {
		f.ID = ""
		f.Description = ""
		out[i] = f
	}
	return out
}
