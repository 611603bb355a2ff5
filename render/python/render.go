// Package python implements the Renderer stage (spec.md §4.6) for the
// Python target: it prints a *syntax.Module to source text. No business
// logic lives here — every name, type, and decision was already made by
// lowering/python; this package only knows indentation, import grouping,
// and Python's own literal syntax.
package python

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openbindings/schemac/syntax"
)

const indentUnit = "    "

// Render prints mod as a single Python source file.
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
		fmt.Fprintf(&b, "\"\"\"%s\"\"\"\n\n", mod.Docstring)
	}

	if importBlock := renderImports(mod.Imports); importBlock != "" {
		b.WriteString(importBlock)
		b.WriteByte('\n')
	}

	if mod.Exports != nil {
		fmt.Fprintf(&b, "__all__ = [%s]\n\n", quoteJoin(mod.Exports))
	}

	for i, item := range mod.Items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		renderItem(&b, item, 0)
	}
	b.WriteByte('\n')
	return b.String()
}

// renderImports prints stdlib, third-party, and local groups in that
// order, each alphabetical and deduplicated, blank-line separated
// (spec.md §4.6).
func renderImports(imports syntax.Imports) string {
	groups := [][]syntax.Import{imports.Stdlib, imports.ThirdParty, imports.Local}
	var blocks []string
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		lines := importLines(g)
		blocks = append(blocks, strings.Join(lines, "\n"))
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
			line = "import " + imp.Module
			if imp.Alias != "" {
				line += " as " + imp.Alias
			}
		} else {
			names := append([]string(nil), imp.Names...)
			sort.Strings(names)
			line = fmt.Sprintf("from %s import %s", imp.Module, strings.Join(names, ", "))
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
		renderFunction(b, item.Function, depth)
	case syntax.ItemKindTypeAlias:
		renderTypeAlias(b, item.TypeAlias, depth)
	case syntax.ItemKindConstant:
		renderConstant(b, item.Constant, depth)
	case syntax.ItemKindAssignment:
		renderAssignment(b, item.Assignment, depth)
	}
}

func indent(depth int) string { return strings.Repeat(indentUnit, depth) }

func renderClass(b *strings.Builder, c *syntax.Class, depth int) {
	ind := indent(depth)
	for _, dec := range c.Decorators {
		fmt.Fprintf(b, "%s@%s\n", ind, dec)
	}
	header := c.Name
	if len(c.TypeParams) > 0 {
		header += "[" + strings.Join(c.TypeParams, ", ") + "]"
	}
	var bases []string
	for _, base := range c.Bases {
		bases = append(bases, renderTypeExpr(base))
	}
	if len(bases) > 0 {
		header += "(" + strings.Join(bases, ", ") + ")"
	}
	fmt.Fprintf(b, "%sclass %s:\n", ind, header)

	body := depth + 1
	bodyInd := indent(body)
	wrote := false
	if c.Docstring != "" {
		fmt.Fprintf(b, "%s\"\"\"%s\"\"\"\n", bodyInd, c.Docstring)
		wrote = true
	}
	for _, f := range c.Fields {
		renderField(b, f, body)
		wrote = true
	}
	for i, m := range c.Methods {
		if wrote {
			b.WriteByte('\n')
		}
		renderFunction(b, &m, body)
		wrote = true
		_ = i
	}
	for _, nested := range c.Nested {
		if wrote {
			b.WriteByte('\n')
		}
		renderItem(b, nested, body)
		wrote = true
	}
	if !wrote {
		fmt.Fprintf(b, "%spass\n", bodyInd)
	}
}

func renderField(b *strings.Builder, f syntax.Field, depth int) {
	ind := indent(depth)
	line := fmt.Sprintf("%s: %s", f.Name, renderTypeExpr(f.Annotation))
	if f.Default != nil {
		line += " = " + *f.Default
	}
	fmt.Fprintf(b, "%s%s\n", ind, line)
}

func renderFunction(b *strings.Builder, f *syntax.Function, depth int) {
	ind := indent(depth)
	for _, dec := range f.Decorators {
		fmt.Fprintf(b, "%s@%s\n", ind, dec)
	}
	var params []string
	for _, p := range f.Params {
		s := p.Name
		if p.Annotation != nil {
			s += ": " + renderTypeExpr(*p.Annotation)
		}
		if p.Default != nil {
			s += " = " + *p.Default
		}
		params = append(params, s)
	}
	ret := ""
	if f.ReturnType != nil {
		ret = " -> " + renderTypeExpr(*f.ReturnType)
	}
	def := "def"
	if f.Async {
		def = "async def"
	}
	fmt.Fprintf(b, "%s%s %s(%s)%s:\n", ind, def, f.Name, strings.Join(params, ", "), ret)

	bodyInd := indent(depth + 1)
	if f.Docstring != "" {
		fmt.Fprintf(b, "%s\"\"\"%s\"\"\"\n", bodyInd, f.Docstring)
	}
	if len(f.Body) == 0 {
		fmt.Fprintf(b, "%sraise NotImplementedError\n", bodyInd)
		return
	}
	for _, line := range f.Body {
		fmt.Fprintf(b, "%s%s\n", bodyInd, line)
	}
}

func renderTypeAlias(b *strings.Builder, a *syntax.TypeAliasDecl, depth int) {
	ind := indent(depth)
	name := a.Name
	if len(a.TypeParams) > 0 {
		name += "[" + strings.Join(a.TypeParams, ", ") + "]"
	}
	fmt.Fprintf(b, "%stype %s = %s\n", ind, name, renderTypeExpr(a.Target))
}

func renderConstant(b *strings.Builder, c *syntax.Constant, depth int) {
	ind := indent(depth)
	if c.Annotation != nil {
		fmt.Fprintf(b, "%s%s: %s = %s\n", ind, c.Name, renderTypeExpr(*c.Annotation), c.Value)
		return
	}
	fmt.Fprintf(b, "%s%s = %s\n", ind, c.Name, c.Value)
}

func renderAssignment(b *strings.Builder, a *syntax.Assignment, depth int) {
	fmt.Fprintf(b, "%s%s = %s\n", indent(depth), a.Target, a.Value)
}

func renderTypeExpr(t syntax.TypeExpr) string {
	switch t.Kind {
	case syntax.TypeExprKindName:
		return t.Name
	case syntax.TypeExprKindLiteral:
		return fmt.Sprintf("Literal[%s]", t.Name)
	case syntax.TypeExprKindSubscript:
		var args []string
		for _, a := range t.Args {
			args = append(args, renderTypeExpr(a))
		}
		return fmt.Sprintf("%s[%s]", renderTypeExpr(*t.Base), strings.Join(args, ", "))
	case syntax.TypeExprKindUnion:
		var parts []string
		for _, a := range t.Args {
			parts = append(parts, renderTypeExpr(a))
		}
		return strings.Join(parts, " | ")
	case syntax.TypeExprKindOptional:
		return fmt.Sprintf("Optional[%s]", renderTypeExpr(*t.Base))
	case syntax.TypeExprKindAnnotated:
		parts := append([]string{renderTypeExpr(*t.Base)}, t.Metadata...)
		return fmt.Sprintf("Annotated[%s]", strings.Join(parts, ", "))
	case syntax.TypeExprKindTuple:
		var items []string
		for _, a := range t.Args {
			items = append(items, renderTypeExpr(a))
		}
		return fmt.Sprintf("tuple[%s]", strings.Join(items, ", "))
	case syntax.TypeExprKindCallable:
		var params []string
		for _, p := range t.CallableParams {
			params = append(params, renderTypeExpr(p))
		}
		ret := "None"
		if t.CallableReturn != nil {
			ret = renderTypeExpr(*t.CallableReturn)
		}
		return fmt.Sprintf("Callable[[%s], %s]", strings.Join(params, ", "), ret)
	default:
		return "object"
	}
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
