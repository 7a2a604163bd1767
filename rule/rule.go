// Package rule defines the AST node variants the parser produces and the
// evaluator consumes. Rule is a closed sum type: the unexported
// marker method keeps every variant confined to this package, the same
// idiom simon-lentz-yammm's schema/expr.Expression uses for its own closed
// node hierarchy. Rule carries no behaviour of its own — evaluation lives
// in package eval, which type-switches over the concrete variants.
package rule

import "github.com/Tangerg/exprflow/value"

// Rule is an AST node of the parsed expression tree.
type Rule interface {
	rule()
}

// Constant is a literal fold of true, false, an integer, or a (possibly
// signed) decimal.
type Constant struct {
	Val value.Value
}

func (Constant) rule() {}

// StringLiteral is a single-quoted literal, already unescaped ('' -> ').
type StringLiteral struct {
	Val value.Value
}

func (StringLiteral) rule() {}

// Call is a named function invocation; Args are all evaluated (possibly
// concurrently, with results kept in source order) before the handler is
// invoked.
type Call struct {
	Name string
	Args []Rule
}

func (Call) rule() {}

// Index is a bracket or dot accessor applied to the current contextual
// value. Nullable corresponds to a leading '?'.
type Index struct {
	Inner    Rule
	Nullable bool
}

func (Index) rule() {}

// AccessValue composes a base rule with an accessor rule: Base is
// evaluated first, then Accessor is evaluated with the result bound as the
// accessor's contextual value.
type AccessValue struct {
	Base     Rule
	Accessor Rule
}

func (AccessValue) rule() {}

// Segment is one piece of a joined_string input: either literal text
// (IsExpr false) or an enclosed expression (@{...}) whose evaluated,
// stringified result is spliced in (IsExpr true).
type Segment struct {
	Literal string
	IsExpr  bool
	Expr    Rule
}

// Program is the top-level parse result: either a bare expression (Bare
// true, Expr set) or a joined string built from Segments.
type Program struct {
	Bare     bool
	Expr     Rule
	Segments []Segment
}
