// Package typeexpr normalizes PHP type expressions from signatures and from
// docblocks into one comparable form.
package typeexpr

import (
	"slices"
	"strings"

	"github.com/phobologic/phpdoccheck/internal/model"
)

// Well-known member names.
const (
	Null  = "null"
	Mixed = "mixed"
	Array = "array"

	// Any stands for an untyped parameter whose default is null.
	Any = "<any>"
)

// Expr is a normalized union type. The zero value means "no type declared",
// which is distinct from Any and from Mixed.
//
// Members keep the order in which they were written so that reports show
// types the way the author wrote them; comparison uses Key.
type Expr struct {
	members []string
}

// None is the expression of an undeclared type.
var None = Expr{}

// Of builds an expression from already-normalized members.
func Of(members ...string) Expr {
	var e Expr
	for _, m := range members {
		e = e.with(m)
	}
	return e
}

func (e Expr) with(member string) Expr {
	if member == "" {
		return e
	}
	for _, m := range e.members {
		if strings.EqualFold(m, member) {
			return e
		}
	}
	out := make([]string, len(e.members), len(e.members)+1)
	copy(out, e.members)
	return Expr{members: append(out, member)}
}

// IsNone reports whether no type was declared.
func (e Expr) IsNone() bool {
	return len(e.members) == 0
}

// IsUnion reports whether the expression has more than one member.
func (e Expr) IsUnion() bool {
	return len(e.members) > 1
}

// Nullable reports whether null is one of the members.
func (e Expr) Nullable() bool {
	return e.Has(Null)
}

// Has reports whether member is part of the expression, ignoring case.
func (e Expr) Has(member string) bool {
	for _, m := range e.members {
		if strings.EqualFold(m, member) {
			return true
		}
	}
	return false
}

// Members returns a copy of the members in written order.
func (e Expr) Members() []string {
	return slices.Clone(e.members)
}

// String joins the members with | in written order.
func (e Expr) String() string {
	return strings.Join(e.members, "|")
}

// Key is the order-independent comparison form: lower-cased members, sorted.
func (e Expr) Key() string {
	keys := make([]string, len(e.members))
	for i, m := range e.members {
		keys[i] = strings.ToLower(m)
	}
	slices.Sort(keys)
	return strings.Join(keys, "|")
}

// Equal reports set equality with other.
func (e Expr) Equal(other Expr) bool {
	return e.Key() == other.Key()
}

// Aliases maps import aliases to fully qualified names.
type Aliases map[string]string

// Resolve substitutes an import alias (whole name or leading segment of a
// qualified name) and strips one leading namespace separator.
func (a Aliases) Resolve(name string) string {
	if fq, ok := a[name]; ok {
		name = fq
	} else if head, tail, found := strings.Cut(name, `\`); found && head != "" {
		if fq, ok := a[head]; ok {
			name = fq + `\` + tail
		}
	}
	return strings.TrimPrefix(name, `\`)
}

// Parse normalizes a documentation type such as "?Foo", "int|null" or
// "\Bar\Baz[]".
func Parse(raw string, aliases Aliases) Expr {
	var e Expr
	for _, part := range strings.Split(raw, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if inner, ok := strings.CutPrefix(part, "?"); ok {
			e = e.with(aliases.Resolve(strings.TrimSpace(inner))).with(Null)
			continue
		}
		e = e.with(aliases.Resolve(part))
	}
	return e
}

// FromSignature normalizes a declared type. defaultNull is set when the
// parameter's default value is null, which makes the type implicitly
// nullable; an undeclared type with a null default becomes <any>|null.
func FromSignature(ref *model.TypeRef, defaultNull bool, aliases Aliases) Expr {
	var e Expr
	if ref != nil {
		for _, m := range ref.Members {
			if m = strings.TrimSpace(m); m != "" {
				e = e.with(aliases.Resolve(m))
			}
		}
		if ref.Nullable {
			e = e.with(Null)
		}
	}
	if defaultNull {
		if e.IsNone() {
			e = e.with(Any)
		}
		e = e.with(Null)
	}
	return e
}
