package python

import (
	"strings"
	"testing"

	"github.com/openbindings/schemac/syntax"
)

func TestRender_ImportsGroupedAlphabeticalAndDeduped(t *testing.T) {
	mod := &syntax.Module{
		Imports: syntax.Imports{
			Stdlib:     []syntax.Import{{Module: "typing", Names: []string{"Optional"}}, {Module: "dataclasses", Names: []string{"dataclass"}}},
			ThirdParty: []syntax.Import{{Module: "pydantic", Names: []string{"BaseModel"}}, {Module: "pydantic", Names: []string{"BaseModel"}}},
		},
	}
	out := Render(mod)
	stdlibIdx := strings.Index(out, "from dataclasses import dataclass")
	thirdPartyIdx := strings.Index(out, "from pydantic import BaseModel")
	if stdlibIdx == -1 || thirdPartyIdx == -1 || stdlibIdx > thirdPartyIdx {
		t.Fatalf("expected stdlib group before third-party group, got:\n%s", out)
	}
	if strings.Count(out, "from pydantic import BaseModel") != 1 {
		t.Fatalf("expected deduplicated import, got:\n%s", out)
	}
}

func TestRender_ClassWithFieldsAndDefault(t *testing.T) {
	def := "None"
	mod := &syntax.Module{Items: []syntax.Item{syntax.ClassItem(&syntax.Class{
		Name: "User",
		Fields: []syntax.Field{
			{Name: "id", Annotation: syntax.Name("str")},
			{Name: "nickname", Annotation: syntax.Optional(syntax.Name("str")), Default: &def},
		},
	})}}
	out := Render(mod)
	if !strings.Contains(out, "class User:") {
		t.Fatalf("expected class header, got:\n%s", out)
	}
	if !strings.Contains(out, "id: str") {
		t.Fatalf("expected id field, got:\n%s", out)
	}
	if !strings.Contains(out, "nickname: Optional[str] = None") {
		t.Fatalf("expected nickname field with default, got:\n%s", out)
	}
}

func TestRender_FunctionWithoutBodyRaisesNotImplemented(t *testing.T) {
	mod := &syntax.Module{Items: []syntax.Item{syntax.FunctionItem(&syntax.Function{Name: "get_user", Async: true})}}
	out := Render(mod)
	if !strings.Contains(out, "async def get_user():") {
		t.Fatalf("expected async def signature, got:\n%s", out)
	}
	if !strings.Contains(out, "raise NotImplementedError") {
		t.Fatalf("expected stub body, got:\n%s", out)
	}
}

func TestRender_UnionTypeExpr(t *testing.T) {
	mod := &syntax.Module{Items: []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{
		Name:   "Pet",
		Target: syntax.Union(syntax.Name("Dog"), syntax.Name("Cat")),
	})}}
	out := Render(mod)
	if !strings.Contains(out, "type Pet = Dog | Cat") {
		t.Fatalf("expected union type alias, got:\n%s", out)
	}
}

func TestRender_LiteralFieldAnnotation(t *testing.T) {
	mod := &syntax.Module{Items: []syntax.Item{syntax.ClassItem(&syntax.Class{
		Name: "Pet",
		Fields: []syntax.Field{
			{Name: "type", Annotation: syntax.Literal(`"dog"`)},
		},
	})}}
	out := Render(mod)
	if !strings.Contains(out, `type: Literal["dog"]`) {
		t.Fatalf("expected literal field annotation, got:\n%s", out)
	}
}
