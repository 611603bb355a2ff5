// Package typescript implements the Renderer stage (spec.md §4.6) for
// the TypeScript target: it prints a *syntax.Module to source text —
// interfaces, type aliases, factory functions, and a Client class. No
// business logic: names and types come verbatim from the Syntax IR
// produced by lowering/typescript.
package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openbindings/schemac/syntax"
)

const indentUnit = "  "

// Render prints mod as a single TypeScript source file.
func Render(mod *syntax.Module) string {
	var b strings.Builder

	for _, line := range mod.HeaderImports {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(mod.HeaderImports) > 0 {
		b.WriteByte('\n')
	}

	if mod.Docstring != "" {
		fmt.Fprintf(&b, "/**\n * %s\n */\n", strings.ReplaceAll(mod.Docstring, "\n", "\n * "))
	}

	if importBlock := renderImports(mod.Imports); importBlock != "" {
		b.WriteString(importBlock)
		b.WriteByte('\n')
	}

	for i, item := range mod.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		renderItem(&b, item, 0)
	}

	if mod.Exports != nil {
		b.WriteByte('\n')
		for _, name := range mod.Exports {
			fmt.Fprintf(&b, "export { %s };\n", name)
		}
	}
	return b.String()
}

func renderImports(imports syntax.Imports) string {
	groups := [][]syntax.Import{imports.Stdlib, imports.ThirdParty, imports.Local}
	var blocks []string
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		blocks = append(blocks, strings.Join(importLines(g), "\n"))
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func importLines(group []syntax.Import) []string {
	seen := map[string]bool{}
	var lines []string
	for _, imp := range group {
		var line string
		if len(imp.Names) == 0 {
			line = fmt.Sprintf("import * as %s from %q;", imp.Alias, imp.Module)
		} else {
			names := append([]string(nil), imp.Names...)
			sort.Strings(names)
			line = fmt.Sprintf("import { %s } from %q;", strings.Join(names, ", "), imp.Module)
		}
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}
	sort.Strings(lines)
	return lines
}

func renderItem(b *strings.Builder, item syntax.Item, depth int) {
	switch item.Kind {
	case syntax.ItemKindClass:
		renderClass(b, item.Class, depth)
	case syntax.ItemKindFunction:
		renderFunction(b, item.Function, depth, true)
	case syntax.ItemKindTypeAlias:
		renderTypeAlias(b, item.TypeAlias, depth)
	case syntax.ItemKindConstant:
		renderConstant(b, item.Constant, depth)
	case syntax.ItemKindAssignment:
		fmt.Fprintf(b, "%sconst %s = %s;\n", indent(depth), item.Assignment.Target, item.Assignment.Value)
	}
}

func indent(depth int) string { return strings.Repeat(indentUnit, depth) }

func typeParamSuffix(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

// renderClass prints a Class as either an `interface` (plain data shape,
// the common case: structs and discriminated-union variants) or a
// `class` (only when it carries Methods, i.e. the Client).
func renderClass(b *strings.Builder, c *syntax.Class, depth int) {
	ind := indent(depth)
	if c.Docstring != "" {
		fmt.Fprintf(b, "%s/** %s */\n", ind, c.Docstring)
	}

	kind := "interface"
	if len(c.Methods) > 0 {
		kind = "class"
	}
	fmt.Fprintf(b, "%sexport %s %s%s {\n", ind, kind, c.Name, typeParamSuffix(c.TypeParams))
	bodyInd := indent(depth + 1)
	for _, f := range c.Fields {
		fmt.Fprintf(b, "%s%s: %s;\n", bodyInd, f.Name, renderTypeExpr(f.Annotation))
	}
	for i, m := range c.Methods {
		if i > 0 {
			b.WriteByte('\n')
		}
		renderFunction(b, &m, depth+1, false)
	}
	fmt.Fprintf(b, "%s}\n", ind)
}

func renderFunction(b *strings.Builder, f *syntax.Function, depth int, topLevel bool) {
	ind := indent(depth)
	if f.Docstring != "" {
		fmt.Fprintf(b, "%s/** %s */\n", ind, f.Docstring)
	}
	var params []string
	for _, p := range f.Params {
		s := p.Name
		if p.Annotation != nil {
			s += ": " + renderTypeExpr(*p.Annotation)
		}
		params = append(params, s)
	}
	ret := ""
	if f.ReturnType != nil {
		ret = ": " + renderTypeExpr(*f.ReturnType)
	}
	async := ""
	if f.Async {
		async = "async "
	}
	var header string
	if topLevel {
		header = fmt.Sprintf("export %sfunction %s(%s)%s", async, f.Name, strings.Join(params, ", "), ret)
	} else {
		// A class method: no `function` keyword, no `export`.
		header = fmt.Sprintf("%s%s(%s)%s", async, f.Name, strings.Join(params, ", "), ret)
	}
	fmt.Fprintf(b, "%s%s {\n", ind, header)
	bodyInd := indent(depth + 1)
	if len(f.Body) == 0 {
		fmt.Fprintf(b, "%sthrow new Error(\"not implemented\");\n", bodyInd)
	} else {
		for _, line := range f.Body {
			fmt.Fprintf(b, "%s%s\n", bodyInd, line)
		}
	}
	fmt.Fprintf(b, "%s}\n", ind)
}

func renderTypeAlias(b *strings.Builder, a *syntax.TypeAliasDecl, depth int) {
	fmt.Fprintf(b, "%sexport type %s%s = %s;\n", indent(depth), a.Name, typeParamSuffix(a.TypeParams), renderTypeExpr(a.Target))
}

func renderConstant(b *strings.Builder, c *syntax.Constant, depth int) {
	ind := indent(depth)
	if c.Annotation != nil {
		fmt.Fprintf(b, "%sexport const %s: %s = %s;\n", ind, c.Name, renderTypeExpr(*c.Annotation), c.Value)
		return
	}
	fmt.Fprintf(b, "%sexport const %s = %s;\n", ind, c.Name, c.Value)
}

func renderTypeExpr(t syntax.TypeExpr) string {
	switch t.Kind {
	case syntax.TypeExprKindName:
		return t.Name
	case syntax.TypeExprKindLiteral:
		return t.Name
	case syntax.TypeExprKindSubscript:
		var args []string
		for _, a := range t.Args {
			args = append(args, renderTypeExpr(a))
		}
		return fmt.Sprintf("%s<%s>", renderTypeExpr(*t.Base), strings.Join(args, ", "))
	case syntax.TypeExprKindUnion:
		var parts []string
		for _, a := range t.Args {
			parts = append(parts, renderTypeExpr(a))
		}
		return strings.Join(parts, " | ")
	case syntax.TypeExprKindOptional:
		return renderTypeExpr(*t.Base) + " | undefined"
	case syntax.TypeExprKindAnnotated:
		return renderTypeExpr(*t.Base)
	case syntax.TypeExprKindTuple:
		var items []string
		for _, a := range t.Args {
			items = append(items, renderTypeExpr(a))
		}
		return fmt.Sprintf("[%s]", strings.Join(items, ", "))
	case syntax.TypeExprKindCallable:
		var params []string
		for i, p := range t.CallableParams {
			params = append(params, fmt.Sprintf("arg%d: %s", i, renderTypeExpr(p)))
		}
		ret := "void"
		if t.CallableReturn != nil {
			ret = renderTypeExpr(*t.CallableReturn)
		}
		return fmt.Sprintf("(%s) => %s", strings.Join(params, ", "), ret)
	default:
		return "unknown"
	}
}
