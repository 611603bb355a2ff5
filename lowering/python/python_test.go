package python

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

func buildSchema(t *testing.T) *semantic.Schema {
	t.Helper()
	table := symbol.NewTable()

	userID := symbol.New(symbol.KindStruct, "User", 0)
	petID := symbol.New(symbol.KindEnum, "Pet", 0)
	accountID := symbol.New(symbol.KindEnum, "Account", 0)
	paginatedID := symbol.New(symbol.KindStruct, "Paginated", 0)
	userIDAliasID := symbol.New(symbol.KindTypeAlias, "UserId", 0)

	for id, name := range map[symbol.ID]string{
		userID: "User", petID: "Pet", accountID: "Account",
		paginatedID: "Paginated", userIDAliasID: "UserId",
	} {
		declare(table, id, name)
	}

	stringID := symbol.Stdlib("string")
	optionID := symbol.Stdlib("option")
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
				},
				FieldOrder: []string{"id", "nickname"},
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
					{
						Name:         "Cat",
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
		userIDAliasID: {
			ID: userIDAliasID, Kind: semantic.TypeKindAlias,
			Alias: &semantic.Alias{ID: userIDAliasID, Name: "UserId", Target: ref(stringID)},
		},
	}

	functions := map[symbol.ID]semantic.Function{}
	fnID := symbol.New(symbol.KindEndpoint, "GetUser", 0)
	declare(table, fnID, "GetUser")
	functions[fnID] = semantic.Function{ID: fnID, Name: "GetUser", InputType: ptr(ref(userIDAliasID)), OutputType: ptr(ref(userID))}

	return &semantic.Schema{Types: types, Functions: functions, Symbols: table}
}

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

func TestLower_SimpleModelHasSnakeCaseFieldsAndOptionalDefault(t *testing.T) {
	schema := buildSchema(t)
	result, err := Lower(schema, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	item := findItem(result.Module.Items, syntax.ItemKindClass, "User")
	if item == nil {
		t.Fatal("expected a User class")
	}
	c := item.Class
	if len(c.Fields) != 2 || c.Fields[0].Name != "id" || c.Fields[1].Name != "nickname" {
		t.Fatalf("unexpected fields: %#v", c.Fields)
	}
	if c.Fields[0].Default != nil {
		t.Fatal("required field must not carry a default")
	}
	if c.Fields[1].Default == nil || *c.Fields[1].Default != "None" {
		t.Fatalf("optional field expected default None, got %#v", c.Fields[1].Default)
	}
	if c.Fields[1].Annotation.Kind != syntax.TypeExprKindOptional {
		t.Fatalf("expected Optional annotation pre-3.10, got %#v", c.Fields[1].Annotation)
	}
}

func TestLower_Python310UsesUnionSyntax(t *testing.T) {
	schema := buildSchema(t)
	result, err := Lower(schema, Options{Version: "3.10"})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	item := findItem(result.Module.Items, syntax.ItemKindClass, "User")
	c := item.Class
	if c.Fields[1].Annotation.Kind != syntax.TypeExprKindUnion {
		t.Fatalf("expected X | None union form at 3.10+, got %#v", c.Fields[1].Annotation)
	}
}

func TestLower_InternalTaggedEnumProducesVariantClassesAndUnion(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	if findItem(result.Module.Items, syntax.ItemKindClass, "PetDog") == nil {
		t.Fatal("expected PetDog variant class")
	}
	if findItem(result.Module.Items, syntax.ItemKindClass, "PetCat") == nil {
		t.Fatal("expected PetCat variant class")
	}
	alias := findItem(result.Module.Items, syntax.ItemKindTypeAlias, "Pet")
	if alias == nil || len(alias.TypeAlias.Target.Args) != 2 {
		t.Fatalf("expected Pet union alias of 2 variants, got %#v", alias)
	}
	dog := findItem(result.Module.Items, syntax.ItemKindClass, "PetDog")
	if len(dog.Class.Fields) != 2 || dog.Class.Fields[0].Name != "type" {
		t.Fatalf("expected discriminant field 'type' first, got %#v", dog.Class.Fields)
	}
}

func TestLower_ExternalEnumProducesFactoryFunction(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	if findItem(result.Module.Items, syntax.ItemKindClass, "AccountAdmin") == nil {
		t.Fatal("expected AccountAdmin variant class")
	}
	factory := findItem(result.Module.Items, syntax.ItemKindFunction, "parse_account")
	if factory == nil {
		t.Fatal("expected parse_account factory function")
	}
	if len(factory.Function.Body) == 0 {
		t.Fatal("expected factory dispatch body")
	}
}

func TestLower_GenericStructBecomesTypeParamClass(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	item := findItem(result.Module.Items, syntax.ItemKindClass, "Paginated")
	if item == nil {
		t.Fatal("expected Paginated generic class in the runtime module")
	}
	if len(item.Class.TypeParams) != 1 || item.Class.TypeParams[0] != "T" {
		t.Fatalf("expected TypeParams=[T], got %#v", item.Class.TypeParams)
	}
	if item.Class.Fields[0].Annotation.Kind != syntax.TypeExprKindName || item.Class.Fields[0].Annotation.Name != "T" {
		t.Fatalf("expected field annotated with bare generic param T, got %#v", item.Class.Fields[0].Annotation)
	}
}

func TestLower_SplitStubsMovesGenericClassToStubModule(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{SplitStubs: true})
	if findItem(result.Module.Items, syntax.ItemKindClass, "Paginated") != nil {
		t.Fatal("expected Paginated excluded from the runtime module when SplitStubs is set")
	}
	if result.StubModule == nil || findItem(result.StubModule.Items, syntax.ItemKindClass, "Paginated") == nil {
		t.Fatal("expected Paginated present in the stub module")
	}
}

func TestLower_AliasAndClientMethod(t *testing.T) {
	schema := buildSchema(t)
	result, _ := Lower(schema, Options{})
	if findItem(result.Module.Items, syntax.ItemKindTypeAlias, "UserId") == nil {
		t.Fatal("expected UserId alias")
	}
	client := findItem(result.Module.Items, syntax.ItemKindClass, "Client")
	if client == nil {
		t.Fatal("expected a Client class for declared functions")
	}
	if len(client.Class.Methods) != 1 || client.Class.Methods[0].Name != "get_user" {
		t.Fatalf("expected one get_user method, got %#v", client.Class.Methods)
	}
}
