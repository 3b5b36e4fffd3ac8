// Package check walks the classes and methods of a file and reports missing
// docblocks and docblock types that disagree with the declared signatures.
package check

import (
	"log/slog"
	"strings"

	"github.com/phobologic/phpdoccheck/internal/docblock"
	"github.com/phobologic/phpdoccheck/internal/model"
	"github.com/phobologic/phpdoccheck/internal/reconcile"
	"github.com/phobologic/phpdoccheck/internal/typeexpr"
)

// constructor never needs a documented return type.
const constructor = "__construct"

// Options select which checks run.
type Options struct {
	SkipClasses    bool
	SkipMethods    bool
	SkipSignatures bool

	// PHPVersion is the PHP major version the checked code targets.
	PHPVersion int
}

// Checker produces findings for parsed files. It holds no per-file state and
// is safe for concurrent use.
type Checker struct {
	opts Options
	log  *slog.Logger
}

// New returns a Checker. A nil logger discards output.
func New(opts Options, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Checker{opts: opts, log: log}
}

// CheckFile returns the findings for f in traversal order: class, then each
// of its methods, then parameters and return type of each method.
func (c *Checker) CheckFile(f *model.File) model.Result {
	var res model.Result

	for i := range f.Classes {
		cls := &f.Classes[i]
		if cls.Doc == nil && !c.opts.SkipClasses {
			res.Add(model.Finding{
				Kind:  model.KindClass,
				File:  f.Path,
				Class: cls.Name,
				Line:  cls.Line,
			})
		}

		aliases := typeexpr.Aliases(cls.Aliases)
		for j := range cls.Methods {
			c.checkMethod(&res, f.Path, cls.Name, &cls.Methods[j], aliases)
		}
	}

	c.log.Debug("checked file",
		"file", f.Path,
		"classes", len(f.Classes),
		"errors", len(res.Errors),
		"warnings", len(res.Warnings))
	return res
}

func (c *Checker) checkMethod(res *model.Result, path, class string, m *model.Method, aliases typeexpr.Aliases) {
	finding := func(kind model.FindingKind) model.Finding {
		return model.Finding{Kind: kind, File: path, Class: class, Method: m.Name, Line: m.Line}
	}

	if m.Doc == nil && !c.opts.SkipMethods {
		res.Add(finding(model.KindMethod))
	}
	if c.opts.SkipSignatures {
		return
	}

	doc := docblock.Parse("")
	if m.Doc != nil {
		doc = docblock.Parse(*m.Doc)
	}

	params := bindParams(doc.Params(), m.Params)
	for i, p := range m.Params {
		occ := params[i]
		typ, ok := "", false
		if occ != nil {
			typ, ok = occ.Field(docblock.FieldType)
		}
		if !ok || typ == "" {
			f := finding(model.KindParamMissing)
			f.Param = p.Name
			res.Add(f)
			continue
		}

		sig := typeexpr.FromSignature(p.Type, p.DefaultNull, aliases)
		v := reconcile.Reconcile(reconcile.Param, &reconcile.Doc{Type: typeexpr.Parse(typ, aliases)}, sig, c.opts.PHPVersion)
		switch v.Kind {
		case reconcile.MissingInDoc:
			f := finding(model.KindParamMissing)
			f.Param = p.Name
			res.Add(f)
		case reconcile.Mismatch:
			f := finding(model.KindParamMismatch)
			f.Param = p.Name
			f.SignatureType = v.Signature
			f.DocType = v.Doc
			res.Add(f)
		}
	}

	if m.Return == nil || strings.EqualFold(m.Name, constructor) {
		return
	}

	sig := typeexpr.FromSignature(m.Return, false, aliases)
	var rdoc *reconcile.Doc
	if occ, ok := doc.Return(); ok {
		if typ, ok := occ.Field(docblock.FieldType); ok && typ != "" {
			rdoc = &reconcile.Doc{Type: typeexpr.Parse(typ, aliases)}
		}
	}

	v := reconcile.Reconcile(reconcile.Return, rdoc, sig, c.opts.PHPVersion)
	switch v.Kind {
	case reconcile.MissingInDoc:
		res.Add(finding(model.KindReturnMissing))
	case reconcile.Mismatch:
		f := finding(model.KindReturnMismatch)
		f.SignatureType = v.Signature
		f.DocType = v.Doc
		res.Add(f)
	}
}

// bindParams pairs each declared parameter with its @param occurrence. Tags
// are matched by variable name, the last one winning; a tag without a
// variable name binds to the parameter at the same position.
func bindParams(occs []docblock.Occurrence, params []model.Param) []*docblock.Occurrence {
	byName := make(map[string]*docblock.Occurrence, len(occs))
	for i := range occs {
		if name, ok := occs[i].Field(docblock.FieldVar); ok {
			byName[name] = &occs[i]
		}
	}

	bound := make([]*docblock.Occurrence, len(params))
	for i, p := range params {
		if occ, ok := byName[p.Name]; ok {
			bound[i] = occ
			continue
		}
		if i < len(occs) && positional(occs[i]) {
			bound[i] = &occs[i]
		}
	}
	return bound
}

// positional reports whether a @param tag names no variable and so may be
// bound by position. "@param $x" puts the variable in the type slot and is
// not positional.
func positional(occ docblock.Occurrence) bool {
	if _, ok := occ.Field(docblock.FieldVar); ok {
		return false
	}
	typ, ok := occ.Field(docblock.FieldType)
	return ok && !strings.HasPrefix(typ, "$")
}
