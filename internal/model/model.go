// Package model defines core data structures for phpdoccheck.
package model

// TypeRef is a type as declared in a signature. Members are kept in
// declaration order; Nullable is set by the ?T form.
type TypeRef struct {
	Members  []string
	Nullable bool
}

// Param is one declared method parameter.
type Param struct {
	Name        string // Including the leading $
	Type        *TypeRef
	DefaultNull bool
	Variadic    bool
}

// Method is a class method together with its raw docblock, if any.
type Method struct {
	Name   string
	Line   int
	Doc    *string
	Params []Param
	Return *TypeRef
}

// Class is a namespace-qualified class declaration. Aliases holds the import
// table (alias -> fully qualified name) in effect at the declaration.
type Class struct {
	Name    string
	Line    int
	Doc     *string
	Aliases map[string]string
	Methods []Method
}

// File holds the signatures extracted from a single source file.
type File struct {
	Path    string
	Classes []Class
}

// FindingKind identifies the problem a Finding reports.
type FindingKind string

const (
	KindClass          FindingKind = "class"
	KindMethod         FindingKind = "method"
	KindParamMissing   FindingKind = "param-missing"
	KindParamMismatch  FindingKind = "param-mismatch"
	KindReturnMissing  FindingKind = "return-missing"
	KindReturnMismatch FindingKind = "return-mismatch"
)

// Severity of a finding kind.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Severity reports whether findings of this kind are errors or warnings.
func (k FindingKind) Severity() Severity {
	switch k {
	case KindClass, KindMethod:
		return SeverityError
	default:
		return SeverityWarning
	}
}

// Finding is a single reported problem. Findings are never mutated after
// they are appended to a Result.
type Finding struct {
	Kind          FindingKind
	File          string
	Class         string
	Method        string
	Line          int
	Param         string
	SignatureType string
	DocType       string
}

// Subject returns "Class" or "Class::method".
func (f Finding) Subject() string {
	if f.Method == "" {
		return f.Class
	}
	return f.Class + "::" + f.Method
}

// Result is the outcome of checking one file. Errors hold missing-docblock
// findings, Warnings hold signature findings.
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

// Add appends f to Errors or Warnings according to its severity.
func (r *Result) Add(f Finding) {
	if f.Kind.Severity() == SeverityError {
		r.Errors = append(r.Errors, f)
		return
	}
	r.Warnings = append(r.Warnings, f)
}

// Merge appends other's findings to r.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
