package monomorphize

import (
	"testing"

	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

func buildSchema(t *testing.T) (*semantic.Schema, symbol.ID, symbol.ID, symbol.ID) {
	t.Helper()

	paginatedID := symbol.New(symbol.KindStruct, "Paginated", 0)
	petID := symbol.New(symbol.KindStruct, "Pet", 0)
	orderID := symbol.New(symbol.KindStruct, "Order", 0)

	table := symbol.NewTable()
	table.Declare(symbol.Info{ID: paginatedID, QualifiedName: "Paginated"})
	table.Declare(symbol.Info{ID: petID, QualifiedName: "Pet"})
	table.Declare(symbol.Info{ID: orderID, QualifiedName: "Order"})
	table.AddEdge(paginatedID, petID) // not realistic (generic params don't edge a concrete type) but exercises cloneTable

	types := map[symbol.ID]semantic.Type{
		paginatedID: {
			ID:   paginatedID,
			Kind: semantic.TypeKindStruct,
			Struct: &semantic.Struct{
				ID:         paginatedID,
				Name:       "Paginated",
				Parameters: []string{"T"},
				Fields: map[string]semantic.Field{
					"item": {Name: "item", Type: semantic.TypeRef{GenericParam: "T"}, Required: true},
				},
				FieldOrder: []string{"item"},
			},
		},
		petID: {
			ID:   petID,
			Kind: semantic.TypeKindStruct,
			Struct: &semantic.Struct{
				ID:         petID,
				Name:       "Pet",
				Fields:     map[string]semantic.Field{},
				FieldOrder: nil,
			},
		},
		orderID: {
			ID:   orderID,
			Kind: semantic.TypeKindStruct,
			Struct: &semantic.Struct{
				ID:         orderID,
				Name:       "Order",
				Fields:     map[string]semantic.Field{},
				FieldOrder: nil,
			},
		},
	}

	functions := map[symbol.ID]semantic.Function{}
	paginatedOfPet := func() *semantic.TypeRef {
		return &semantic.TypeRef{Symbol: &paginatedID, Arguments: []semantic.TypeRef{{Symbol: &petID}}}
	}
	for i, name := range []string{"ListPetsA", "ListPetsB", "ListPetsC"} {
		id := symbol.New(symbol.KindEndpoint, name, 0)
		table.Declare(symbol.Info{ID: id, QualifiedName: name})
		functions[id] = semantic.Function{ID: id, Name: name, OutputType: paginatedOfPet(), Path: name}
		_ = i
	}
	orderFnID := symbol.New(symbol.KindEndpoint, "ListOrders", 0)
	table.Declare(symbol.Info{ID: orderFnID, QualifiedName: "ListOrders"})
	functions[orderFnID] = semantic.Function{
		ID:         orderFnID,
		Name:       "ListOrders",
		Path:       "ListOrders",
		OutputType: &semantic.TypeRef{Symbol: &paginatedID, Arguments: []semantic.TypeRef{{Symbol: &orderID}}},
	}

	schema := &semantic.Schema{
		ID:        "test",
		Name:      "test",
		Types:     types,
		Functions: functions,
		Symbols:   table,
	}
	return schema, paginatedID, petID, orderID
}

func TestMonomorphize_ThresholdMetSynthesizesConcreteType(t *testing.T) {
	schema, paginatedID, petID, _ := buildSchema(t)

	result := Monomorphize(schema, Options{Threshold: 2})
	if result.Diagnostics.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", result.Diagnostics.Fatals())
	}

	var synthesized *semantic.Type
	for id, ty := range result.Schema.Types {
		if id == paginatedID || id == petID {
			continue
		}
		if ty.Kind == semantic.TypeKindStruct && ty.Struct.Name != "Pet" && ty.Struct.Name != "Order" {
			cp := ty
			synthesized = &cp
		}
	}
	if synthesized == nil {
		t.Fatal("expected a synthesized PaginatedForPet type, found none")
	}
	if len(synthesized.Struct.Parameters) != 0 {
		t.Fatalf("synthesized type must be fully concrete, got Parameters=%v", synthesized.Struct.Parameters)
	}
	item := synthesized.Struct.Fields["item"]
	if item.Type.IsGenericParam() || item.Type.Symbol == nil || *item.Type.Symbol != petID {
		t.Fatalf("expected item field substituted to Pet, got %#v", item.Type)
	}

	// The original generic definition must remain untouched.
	if _, ok := result.Schema.Types[paginatedID]; !ok {
		t.Fatal("expected original Paginated generic definition to remain")
	}
	if len(result.Schema.Types[paginatedID].Struct.Parameters) != 1 {
		t.Fatal("original Paginated must keep its type parameter")
	}

	for id, fn := range result.Schema.Functions {
		if fn.Path == "ListOrders" {
			if fn.OutputType.Symbol == nil || *fn.OutputType.Symbol != paginatedID {
				t.Fatalf("ListOrders occurs once (below threshold) and must still reference the generic Paginated, got %#v", fn.OutputType)
			}
			continue
		}
		if fn.OutputType.Symbol == nil || *fn.OutputType.Symbol == paginatedID {
			t.Fatalf("function %s (id=%s) expected repointed to the monomorphized type, still references the generic", fn.Name, id)
		}
	}
}

func TestMonomorphize_BelowThresholdLeavesGenericInPlace(t *testing.T) {
	schema, paginatedID, _, orderID := buildSchema(t)

	result := Monomorphize(schema, Options{Threshold: 2})

	for _, fn := range result.Schema.Functions {
		if fn.Path != "ListOrders" {
			continue
		}
		if fn.OutputType.Symbol == nil || *fn.OutputType.Symbol != paginatedID {
			t.Fatalf("expected ListOrders to keep referencing generic Paginated, got %#v", fn.OutputType)
		}
		if len(fn.OutputType.Arguments) != 1 || fn.OutputType.Arguments[0].Symbol == nil || *fn.OutputType.Arguments[0].Symbol != orderID {
			t.Fatalf("expected ListOrders' Arguments to still be [Order], got %#v", fn.OutputType.Arguments)
		}
	}
}

func TestMonomorphize_ZeroThresholdIsNoOp(t *testing.T) {
	schema, _, _, _ := buildSchema(t)
	result := Monomorphize(schema, Options{Threshold: 0})
	if result.Schema != schema {
		t.Fatal("expected Threshold<=0 to return the input schema unchanged")
	}
}

func TestMonomorphize_IsIdempotent(t *testing.T) {
	schema, _, _, _ := buildSchema(t)
	first := Monomorphize(schema, Options{Threshold: 2})
	second := Monomorphize(first.Schema, Options{Threshold: 2})

	if len(second.Schema.Types) != len(first.Schema.Types) {
		t.Fatalf("expected a second pass over already-monomorphized output to add no new types: first=%d second=%d",
			len(first.Schema.Types), len(second.Schema.Types))
	}
}
