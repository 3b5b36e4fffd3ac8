// Package reconcile decides whether a documented type agrees with the type
// declared in a signature.
package reconcile

import (
	"strings"

	"github.com/phobologic/phpdoccheck/internal/typeexpr"
)

// UnionReturnVersion is the first PHP major version that can declare union
// return types natively.
const UnionReturnVersion = 8

// Position says whether a parameter or a return type is being compared.
type Position int

const (
	Param Position = iota
	Return
)

// Kind is the outcome of a reconciliation.
type Kind int

const (
	Agree Kind = iota
	MissingInDoc
	Mismatch
)

func (k Kind) String() string {
	switch k {
	case Agree:
		return "agree"
	case MissingInDoc:
		return "missing-in-doc"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Doc is the documentation side of a comparison: the type of a @param or
// @return tag. A nil *Doc means the tag itself is absent.
type Doc struct {
	Type typeexpr.Expr
}

// Verdict is the result of Reconcile. Signature and Doc are set for
// Mismatch only, in written order.
type Verdict struct {
	Kind      Kind
	Signature string
	Doc       string
}

// Reconcile compares a documented type against a declared one. phpMajor is
// the PHP major version the code targets.
func Reconcile(pos Position, doc *Doc, sig typeexpr.Expr, phpMajor int) Verdict {
	if sig.IsNone() {
		return Verdict{Kind: Agree}
	}
	if doc == nil {
		return Verdict{Kind: MissingInDoc}
	}
	if doc.Type.IsNone() {
		// An undocumented union is left to the caller.
		if sig.IsUnion() {
			return Verdict{Kind: Agree}
		}
		return Verdict{Kind: MissingInDoc}
	}
	if sig.Equal(doc.Type) || lenient(pos, doc.Type, sig, phpMajor) {
		return Verdict{Kind: Agree}
	}
	return Verdict{
		Kind:      Mismatch,
		Signature: sig.String(),
		Doc:       doc.Type.String(),
	}
}

func lenient(pos Position, doc, sig typeexpr.Expr, phpMajor int) bool {
	if !sig.IsUnion() && sig.Has(typeexpr.Array) && hasArrayShorthand(doc) {
		return true
	}
	if !doc.IsUnion() && doc.Has(typeexpr.Mixed) {
		return true
	}
	return pos == Return && doc.IsUnion() && phpMajor < UnionReturnVersion
}

// hasArrayShorthand reports whether any member is written as T[].
func hasArrayShorthand(e typeexpr.Expr) bool {
	for _, m := range e.Members() {
		if strings.HasSuffix(m, "[]") {
			return true
		}
	}
	return false
}
