package normalize

import (
	"fmt"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// validateSemantics implements phase 6 (spec.md §4.1 phase 6):
//   - Internal{tag} enums: every variant must be unit or named-field; a
//     tuple/unnamed variant is rejected.
//   - Adjacent{tag,content}: tag must differ from content.
//   - Untagged enums are always accepted.
//   - A flattened field must resolve to a struct, directly or through a
//     single Option wrapper.
//   - A transparent struct must declare exactly one field.
//   - A field with a transformCallback, or a flattened field of a struct
//     with serdeFlattenSupport=false, is rejected as unsupported.
func (n *normalizer) validateSemantics(fields map[symbol.ID]*fieldSet, variants map[symbol.ID][]semantic.Variant, _ map[symbol.ID]semantic.TypeRef) {
	optionID, hasOption := n.stdlibByName["option"]

	rawFieldChecks := func(id symbol.ID, items []schemair.Field, flattenSupported bool) {
		for _, f := range items {
			if f.TransformCallback != "" {
				n.bag.Add(diagnostic.NewAt(diagnostic.CodeUnsupportedConstruct, id, fmt.Sprintf("field %q declares transformCallback %q, which no supported target implements", f.Name, f.TransformCallback)))
			}
			if f.Flattened && !flattenSupported {
				n.bag.Add(diagnostic.NewAt(diagnostic.CodeUnsupportedConstruct, id, fmt.Sprintf("field %q is flattened but its struct declares serdeFlattenSupport=false", f.Name)))
			}
		}
	}

	for _, id := range n.typeIDs {
		dt := n.types[id]

		switch dt.def.Kind {
		case schemair.TypeDefEnum:
			e := dt.def.Enum
			for _, v := range e.Variants {
				rawFieldChecks(id, v.Fields.Items, true)
			}
			switch e.Representation.Kind {
			case schemair.RepresentationInternal:
				for _, v := range e.Variants {
					if v.Fields.Kind == schemair.FieldsUnnamed {
						n.bag.Add(diagnostic.NewAt(diagnostic.CodeUnsupportedConstruct, id,
							fmt.Sprintf("internally-tagged enum variant %q has unnamed (tuple) fields, which no supported target can represent", v.Name)))
					}
				}
			case schemair.RepresentationAdjacent:
				if e.Representation.Tag == e.Representation.Content {
					n.bag.Add(diagnostic.NewAt(diagnostic.CodeUnsupportedConstruct, id,
						fmt.Sprintf("adjacently-tagged enum has identical tag and content field name %q", e.Representation.Tag)))
				}
			}

			if len(e.Variants) == 0 {
				n.bag.Add(diagnostic.NewAt(diagnostic.CodeEmptyEnum, id, "enum declares no variants"))
			}

		case schemair.TypeDefStruct:
			s := dt.def.Struct
			rawFieldChecks(id, s.Fields.Items, s.SerdeFlattenSupport)
			if s.Transparent && len(s.Fields.Items) != 1 {
				n.bag.Add(diagnostic.NewAt(diagnostic.CodeUnsupportedConstruct, id,
					fmt.Sprintf("struct %q is marked transparent but declares %d fields (exactly 1 required)", dt.qualifiedName, len(s.Fields.Items))))
			}

			if fs, ok := fields[id]; ok {
				for _, name := range fs.order {
					f := fs.byKey[name]
					if !f.Flattened {
						continue
					}
					target := f.Type
					if hasOption && target.Symbol != nil && *target.Symbol == optionID && len(target.Arguments) == 1 {
						target = target.Arguments[0]
					}
					if target.Symbol == nil || !n.isStructSymbol(*target.Symbol) {
						n.bag.Add(diagnostic.NewAt(diagnostic.CodeInvalidFlatten, id,
							fmt.Sprintf("field %q is flattened but does not reference a struct or Option<struct>", name)))
					}
				}
			}
		}
	}

	for _, vs := range variants {
		for _, v := range vs {
			for _, name := range v.FieldOrder {
				_ = v.ResolvedType[name] // reachable validated fields; reserved for future per-field variant rules
			}
		}
	}
}

func (n *normalizer) isStructSymbol(id symbol.ID) bool {
	dt, ok := n.types[id]
	return ok && dt.def.Kind == schemair.TypeDefStruct
}
