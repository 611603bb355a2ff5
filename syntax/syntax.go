// Package syntax defines the Syntax IR (spec.md §4.4): one shared
// abstract syntax shape used by every target's Lowering stage to build a
// Module, and by every target's Renderer to print one. The shape is
// deliberately generic (Module/Item/TypeExpr) rather than three
// per-language ASTs; target-specific meaning lives in how each lowering
// package populates it and how each renderer interprets it, not in
// additional Go types.
package syntax

// Module is one emitted source file's syntax tree before rendering.
type Module struct {
	Name         string
	Docstring    string
	HeaderImports []string // raw lines emitted verbatim before the import groups, e.g. "from __future__ import annotations"
	Imports      Imports
	Items        []Item
	Exports      []string // explicit __all__ / export list; nil means "export everything"
}

// Imports groups a module's imports the way every renderer prints them:
// stdlib first, then third-party, then local, alphabetical and deduped
// within each group (spec.md §4.6).
type Imports struct {
	Stdlib     []Import
	ThirdParty []Import
	Local      []Import
}

// Import is one import statement. Names is empty for a whole-module
// import; Alias is empty unless the import is renamed.
type Import struct {
	Module string
	Names  []string
	Alias  string
}

// ItemKind discriminates the Item sum (spec.md §4.4).
type ItemKind string

const (
	ItemKindClass      ItemKind = "class"
	ItemKindFunction   ItemKind = "function"
	ItemKindTypeAlias  ItemKind = "type_alias"
	ItemKindConstant   ItemKind = "constant"
	ItemKindAssignment ItemKind = "assignment"
)

// Item is a top-level (or nested) declaration.
type Item struct {
	Kind       ItemKind
	Class      *Class
	Function   *Function
	TypeAlias  *TypeAliasDecl
	Constant   *Constant
	Assignment *Assignment
}

func ClassItem(c *Class) Item           { return Item{Kind: ItemKindClass, Class: c} }
func FunctionItem(f *Function) Item     { return Item{Kind: ItemKindFunction, Function: f} }
func TypeAliasItem(a *TypeAliasDecl) Item { return Item{Kind: ItemKindTypeAlias, TypeAlias: a} }
func ConstantItem(c *Constant) Item      { return Item{Kind: ItemKindConstant, Constant: c} }
func AssignmentItem(a *Assignment) Item { return Item{Kind: ItemKindAssignment, Assignment: a} }

// Class is a class/interface/struct/enum declaration — the node every
// target's model lowering (SimpleModel, DiscriminatedUnion variant,
// RootModelWrapper, GenericRootModel) eventually produces one or more of.
type Class struct {
	Name       string
	TypeParams []string
	Bases      []TypeExpr
	Decorators []string
	Docstring  string
	Fields     []Field
	Methods    []Function
	Nested     []Item

	// IsEnum marks a Class standing in for a sum type rather than a
	// product type: its Fields are variant names (payload carried either
	// inline via Field.Annotation for a newtype variant, or via Nested for
	// a struct-shaped variant) rather than struct fields. Renderers that
	// distinguish `struct`/`enum`/`interface` keywords (Rust) read this;
	// renderers that don't (Python classes, TypeScript interfaces/unions)
	// ignore it.
	IsEnum bool
}

// Field is a struct/class field or enum variant payload field.
type Field struct {
	Name       string
	Annotation TypeExpr
	Default    *string // raw rendered literal, or nil for "no default"
	Config     map[string]string
}

// Function is a top-level function, a client method, or a class method.
type Function struct {
	Name       string
	Params     []Param
	ReturnType *TypeExpr
	Decorators []string
	Docstring  string
	Async      bool
	// Body holds the function body as already-rendered statement lines.
	// The Syntax IR does not model a full Statement/Expr grammar for
	// function bodies (spec.md's Statement/Expr nodes exist for the
	// declarations this compiler actually needs to synthesize —
	// constructors, factories, discriminator dispatch — not for
	// arbitrary user logic, since the compiler never receives any); each
	// lowering package renders its own bodies directly into this field
	// in the target's own syntax, one statement per entry.
	Body []string
}

// Param is one function parameter.
type Param struct {
	Name       string
	Annotation *TypeExpr
	Default    *string
}

// TypeAliasDecl is a `type Name = Target` declaration.
type TypeAliasDecl struct {
	Name       string
	TypeParams []string
	Target     TypeExpr
}

// Constant is a `NAME: Type = value` module-level constant.
type Constant struct {
	Name       string
	Annotation *TypeExpr
	Value      string
}

// Assignment is a bare `target = value` statement (used for e.g. Python's
// runtime/stub split runtime-side factory table assignments).
type Assignment struct {
	Target string
	Value  string
}

// TypeExprKind discriminates the TypeExpr sum (spec.md §4.4).
type TypeExprKind string

const (
	TypeExprKindName      TypeExprKind = "name"
	TypeExprKindSubscript TypeExprKind = "subscript"
	TypeExprKindUnion     TypeExprKind = "union"
	TypeExprKindOptional  TypeExprKind = "optional"
	TypeExprKindAnnotated TypeExprKind = "annotated"
	TypeExprKindLiteral   TypeExprKind = "literal"
	TypeExprKindTuple     TypeExprKind = "tuple"
	TypeExprKindCallable  TypeExprKind = "callable"
)

// TypeExpr is a type-position expression in the target's syntax.
type TypeExpr struct {
	Kind TypeExprKind

	// Name: a bare identifier (TypeExprKindName) or an already-escaped
	// literal token (TypeExprKindLiteral, e.g. `"dog"` for a Python
	// Literal["dog"] or a Rust string discriminant).
	Name string

	// Base: Subscript's generic base, Optional's inner type, Annotated's
	// base type.
	Base *TypeExpr

	// Args: Subscript's type arguments, Union's variants, Tuple's items.
	Args []TypeExpr

	// Metadata: Annotated's trailing metadata expressions, already
	// rendered as literal tokens.
	Metadata []string

	CallableParams []TypeExpr
	CallableReturn *TypeExpr
}

func Name(name string) TypeExpr { return TypeExpr{Kind: TypeExprKindName, Name: name} }

func Literal(token string) TypeExpr { return TypeExpr{Kind: TypeExprKindLiteral, Name: token} }

func Subscript(base TypeExpr, args ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeExprKindSubscript, Base: &base, Args: args}
}

func Union(variants ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeExprKindUnion, Args: variants}
}

func Optional(inner TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeExprKindOptional, Base: &inner}
}

func Annotated(base TypeExpr, metadata ...string) TypeExpr {
	return TypeExpr{Kind: TypeExprKindAnnotated, Base: &base, Metadata: metadata}
}

func Tuple(items ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeExprKindTuple, Args: items}
}

func Callable(params []TypeExpr, ret TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeExprKindCallable, CallableParams: params, CallableReturn: &ret}
}
