package rust

import (
	"testing"

	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
	"github.com/openbindings/schemac/syntax"
)

func declare(table *symbol.Table, id symbol.ID, qualifiedName string) {
	table.Declare(symbol.Info{ID: id, QualifiedName: qualifiedName})
}

func ref(id symbol.ID) semantic.TypeRef { return semantic.TypeRef{Symbol: &id} }
func ptr(r semantic.TypeRef) *semantic.TypeRef { return &r }

func findItem(items []syntax.Item, kind syntax.ItemKind, name string) *syntax.Item {
	for i := range items {
		it := items[i]
		switch it.Kind {
		case syntax.ItemKindClass:
			if it.Class.Name == name {
				return &it
			}
		case syntax.ItemKindTypeAlias:
			if it.TypeAlias.Name == name {
				return &it
			}
		case syntax.ItemKindFunction:
			if it.Function.Name == name {
				return &it
			}
		}
	}
	return nil
}

func buildSchema(t *testing.T) *semantic.Schema {
	t.Helper()
	table := symbol.NewTable()

	userID := symbol.New(symbol.KindStruct, "User", 0)
	petID := symbol.New(symbol.KindEnum, "Pet", 0)
	accountID := symbol.New(symbol.KindEnum, "Account", 0)
	paginatedID := symbol.New(symbol.KindStruct, "Paginated", 0)

	for id, name := range map[symbol.ID]string{
		userID: "User", petID: "Pet", accountID: "Account", paginatedID: "Paginated",
	} {
		declare(table, id, name)
	}

	stringID := symbol.Stdlib("string")
	optionID := symbol.Stdlib("option")
	threeStateID := symbol.Stdlib("three_state")
	i32ID := symbol.Stdlib("i32")

	types := map[symbol.ID]semantic.Type{
		userID: {
			ID: userID, Kind: semantic.TypeKindStruct,
			Struct: &semantic.Struct{
				ID:   userID,
				Name: "User",
				Fields: map[string]semantic.Field{
					"id":       {Name: "id", Type: ref(stringID), Required: true},
					"nickname": {Name: "nickname", Type: semantic.TypeRef{Symbol: &optionID, Arguments: []semantic.TypeRef{ref(stringID)}}, Required: false},
					"bio":      {Name: "bio", Type: semantic.TypeRef{Symbol: &threeStateID, Arguments: []semantic.TypeRef{ref(stringID)}}, Required: false},
				},
				FieldOrder: []string{"id", "nickname", "bio"},
			},
		},
		petID: {
			ID: petID, Kind: semantic.TypeKindEnum,
			Enum: &semantic.Enum{
				ID:             petID,
				Name:           "Pet",
				Representation: schemair.Representation{Kind: schemair.RepresentationInternal, Tag: "type"},
				Variants: []semantic.Variant{
					{
						Name:         "Dog",
						Fields:       schemair.Fields{Kind: schemair.FieldsNamed},
						ResolvedType: map[string]semantic.Field{"name": {Name: "name", Type: ref(stringID), Required: true}},
						FieldOrder:   []string{"name"},
					},
				},
			},
		},
		accountID: {
			ID: accountID, Kind: semantic.TypeKindEnum,
			Enum: &semantic.Enum{
				ID:             accountID,
				Name:           "Account",
				Representation: schemair.Representation{Kind: schemair.RepresentationExternal},
				Variants: []semantic.Variant{
					{
						Name:         "Admin",
						Fields:       schemair.Fields{Kind: schemair.FieldsNamed},
						ResolvedType: map[string]semantic.Field{"level": {Name: "level", Type: ref(i32ID), Required: true}},
						FieldOrder:   []string{"level"},
					},
					{Name: "Guest", Fields: schemair.Fields{Kind: schemair.FieldsNone}},
				},
			},
		},
		paginatedID: {
			ID: paginatedID, Kind: semantic.TypeKindStruct,
			Struct: &semantic.Struct{
				ID:         paginatedID,
				Name:       "Paginated",
				Parameters: []string{"T"},
				Fields:     map[string]semantic.Field{"item": {Name: "item", Type: semantic.TypeRef{GenericParam: "T"}, Required: true}},
				FieldOrder: []string{"item"},
			},
		},
	}

	functions := map[symbol.ID]semantic.Function{}
	fnID := symbol.New(symbol.KindEndpoint, "GetUser", 0)
	declare(table, fnID, "GetUser")
	functions[fnID] = semantic.Function{ID: fnID, Name: "GetUser", InputType: ptr(ref(userID)), OutputType: ptr(ref(userID))}

	return &semantic.Schema{Types: types, Functions: functions, Symbols: table}
}

func TestLower_SimpleModelDerivesSerdeAndWrapsOptional(t *testing.T) {
	schema := buildSchema(t)
	result, err := Lower(schema, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	item := findItem(result.Module.Items, syntax.ItemKindClass, "User")
	if item == nil {
		t.Fatal("expected a User struct")
	}
	c := item.Class
	if len(c.Decorators) == 0 {
		t.Fatal("expected a derive(...) attribute")
	}
	if c.Fields[1].Annotation.Kind != syntax.TypeExprKindSubscript || c.Fields[1].Annotation.Base.Name != "Option" {
		t.Fatalf("expected Option<...> for optional field, got %#v", c.Fields[1].Annotation)
	}
}

func TestLower_ThreeStateFieldUsesDedicatedWrapper(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	item := findItem(result.Module.Items, syntax.ItemKindClass, "User")
	bio := item.Class.Fields[2]
	if bio.Annotation.Kind != syntax.TypeExprKindSubscript || bio.Annotation.Base.Name != "ThreeState" {
		t.Fatalf("expected ThreeState<...> wrapper, not Option<Option<...>>, got %#v", bio.Annotation)
	}
}

func TestLower_InternalTaggedEnumProducesNestedVariants(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	item := findItem(result.Module.Items, syntax.ItemKindClass, "Pet")
	if item == nil {
		t.Fatal("expected a Pet enum")
	}
	if len(item.Class.Nested) != 1 || item.Class.Nested[0].Class.Name != "Dog" {
		t.Fatalf("expected one nested Dog variant, got %#v", item.Class.Nested)
	}
	found := false
	for _, d := range item.Class.Decorators {
		if d == `serde(tag = "type")` {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected serde tag attribute, got %#v", item.Class.Decorators)
	}
}

func TestLower_ExternalEnumProducesUntaggedWrapper(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	if findItem(result.Module.Items, syntax.ItemKindClass, "AccountAdmin") == nil {
		t.Fatal("expected AccountAdmin payload struct")
	}
	wrapper := findItem(result.Module.Items, syntax.ItemKindClass, "Account")
	if wrapper == nil {
		t.Fatal("expected Account wrapper enum")
	}
	found := false
	for _, d := range wrapper.Class.Decorators {
		if d == "serde(untagged)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected serde(untagged) attribute, got %#v", wrapper.Class.Decorators)
	}
}

func TestLower_GenericStructBecomesRustGeneric(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	item := findItem(result.Module.Items, syntax.ItemKindClass, "Paginated")
	if item == nil || len(item.Class.TypeParams) != 1 || item.Class.TypeParams[0] != "T" {
		t.Fatalf("expected Paginated<T> generic struct, got %#v", item)
	}
}

func TestLower_ClientMethodReturnsResult(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	client := findItem(result.Module.Items, syntax.ItemKindClass, "Client")
	if client == nil || len(client.Class.Methods) != 1 {
		t.Fatalf("expected one Client method, got %#v", client)
	}
	m := client.Class.Methods[0]
	if m.Name != "get_user" || !m.Async {
		t.Fatalf("expected async get_user method, got %#v", m)
	}
	if m.ReturnType.Kind != syntax.TypeExprKindSubscript || m.ReturnType.Base.Name != "Result" {
		t.Fatalf("expected Result<...> return type, got %#v", m.ReturnType)
	}
}
