package typescript

import (
	"strings"
	"testing"

	"github.com/openbindings/schemac/syntax"
)

func TestRender_InterfaceWithFields(t *testing.T) {
	mod := &syntax.Module{Items: []syntax.Item{syntax.ClassItem(&syntax.Class{
		Name: "User",
		Fields: []syntax.Field{
			{Name: "id", Annotation: syntax.Name("string")},
			{Name: "nickName", Annotation: syntax.Union(syntax.Name("string"), syntax.Name("undefined"))},
		},
	})}}
	out := Render(mod)
	if !strings.Contains(out, "export interface User {") {
		t.Fatalf("expected interface header, got:\n%s", out)
	}
	if !strings.Contains(out, "id: string;") || !strings.Contains(out, "nickName: string | undefined;") {
		t.Fatalf("expected fields, got:\n%s", out)
	}
}

func TestRender_ClassWithMethodOmitsFunctionKeyword(t *testing.T) {
	ret := syntax.Subscript(syntax.Name("Promise"), syntax.Name("User"))
	mod := &syntax.Module{Items: []syntax.Item{syntax.ClassItem(&syntax.Class{
		Name: "Client",
		Methods: []syntax.Function{
			{Name: "getUser", Async: true, ReturnType: &ret},
		},
	})}}
	out := Render(mod)
	if !strings.Contains(out, "export class Client {") {
		t.Fatalf("expected class header, got:\n%s", out)
	}
	if !strings.Contains(out, "async getUser(): Promise<User> {") {
		t.Fatalf("expected method without 'function' keyword, got:\n%s", out)
	}
	if strings.Contains(out, "function getUser") {
		t.Fatalf("class method must not use 'function' keyword, got:\n%s", out)
	}
}

func TestRender_TopLevelFunctionUsesExportFunctionKeyword(t *testing.T) {
	mod := &syntax.Module{Items: []syntax.Item{syntax.FunctionItem(&syntax.Function{
		Name: "parseAccount",
		Body: []string{"throw new Error(\"no match\");"},
	})}}
	out := Render(mod)
	if !strings.Contains(out, "export function parseAccount() {") {
		t.Fatalf("expected top-level exported function, got:\n%s", out)
	}
}

func TestRender_TypeAliasUnion(t *testing.T) {
	mod := &syntax.Module{Items: []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{
		Name:   "Pet",
		Target: syntax.Union(syntax.Name("PetDog"), syntax.Name("PetCat")),
	})}}
	out := Render(mod)
	if !strings.Contains(out, "export type Pet = PetDog | PetCat;") {
		t.Fatalf("expected union type alias, got:\n%s", out)
	}
}

func TestRender_ImportsGrouped(t *testing.T) {
	mod := &syntax.Module{Imports: syntax.Imports{
		ThirdParty: []syntax.Import{{Module: "zod", Names: []string{"z"}}},
	}}
	out := Render(mod)
	if !strings.Contains(out, `import { z } from "zod";`) {
		t.Fatalf("expected grouped import, got:\n%s", out)
	}
}
