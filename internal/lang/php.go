package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/phobologic/phpdoccheck/internal/model"
)

func init() {
	Languages["php"] = &Language{
		Name:       "php",
		Extensions: []string{".php"},
		lang:       php.GetLanguage(),
		DocComment: phpDocComment,
		TypeRef:    phpTypeRef,
		Params:     phpParams,
		Imports:    phpImports,
	}
}

// phpDocComment returns the earliest /** comment among the comments directly
// preceding node.
func phpDocComment(node *sitter.Node, source []byte) *string {
	var doc *string
	for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		text := NodeText(prev, source)
		if isDocComment(text) {
			doc = &text
		}
	}
	return doc
}

// isDocComment matches "/**" followed by whitespace; "/**/" is a plain comment.
func isDocComment(text string) bool {
	if len(text) < 5 || !strings.HasPrefix(text, "/**") {
		return false
	}
	switch text[3] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// leafTypes are type nodes whose text is a single member.
var leafTypes = map[string]bool{
	"named_type":        true,
	"primitive_type":    true,
	"bottom_type":       true,
	"name":              true,
	"qualified_name":    true,
	"intersection_type": true,
}

func phpTypeRef(node *sitter.Node, source []byte) *model.TypeRef {
	if node == nil {
		return nil
	}
	ref := &model.TypeRef{}
	phpCollectType(node, source, ref)
	if len(ref.Members) == 0 {
		return nil
	}
	return ref
}

func phpCollectType(node *sitter.Node, source []byte, ref *model.TypeRef) {
	t := node.Type()
	switch {
	case t == "comment":
		return
	case t == "optional_type":
		ref.Nullable = true
		phpCollectChildren(node, source, ref)
	case t == "union_type" || t == "disjunctive_normal_form_type":
		phpCollectChildren(node, source, ref)
	case !leafTypes[t] && node.NamedChildCount() == 1:
		phpCollectType(node.NamedChild(0), source, ref)
	default:
		if text := CollapseWhitespace(NodeText(node, source)); text != "" {
			ref.Members = append(ref.Members, strings.Trim(text, "()"))
		}
	}
}

func phpCollectChildren(node *sitter.Node, source []byte, ref *model.TypeRef) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		phpCollectType(node.NamedChild(i), source, ref)
	}
}

var phpParamTypes = map[string]bool{
	"simple_parameter":             true,
	"variadic_parameter":           true,
	"property_promotion_parameter": true,
}

// phpParams extracts the parameters of a method_declaration in order.
func phpParams(node *sitter.Node, source []byte) []model.Param {
	list := node.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}

	var params []model.Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		pn := list.NamedChild(i)
		if !phpParamTypes[pn.Type()] {
			continue
		}

		p := model.Param{
			Name:     phpParamName(pn, source),
			Type:     phpTypeRef(pn.ChildByFieldName("type"), source),
			Variadic: pn.Type() == "variadic_parameter",
		}
		if def := pn.ChildByFieldName("default_value"); def != nil {
			p.DefaultNull = strings.EqualFold(strings.TrimPrefix(NodeText(def, source), `\`), "null")
		}
		params = append(params, p)
	}
	return params
}

func phpParamName(pn *sitter.Node, source []byte) string {
	name := pn.ChildByFieldName("name")
	if name == nil {
		for i := 0; i < int(pn.NamedChildCount()); i++ {
			if c := pn.NamedChild(i); c.Type() == "variable_name" {
				name = c
				break
			}
		}
	}
	if name == nil {
		return ""
	}
	return strings.TrimLeft(CollapseWhitespace(NodeText(name, source)), "&")
}

// phpImports handles `use A\B;`, `use A\B as C;` and `use A\{B, C as D};`.
// Function and constant imports are ignored.
func phpImports(node *sitter.Node, source []byte) map[string]string {
	out := map[string]string{}
	prefix := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "function", "const":
			return nil
		case "namespace_name", "qualified_name", "name":
			prefix = strings.Trim(NodeText(c, source), `\`)
		case "namespace_use_clause":
			phpUseClause(c, source, "", out)
		case "namespace_use_group":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if gc := c.NamedChild(j); gc.Type() == "namespace_use_clause" || gc.Type() == "namespace_use_group_clause" {
					phpUseClause(gc, source, prefix, out)
				}
			}
		}
	}
	return out
}

func phpUseClause(clause *sitter.Node, source []byte, prefix string, out map[string]string) {
	var path, alias string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "name", "qualified_name", "namespace_name":
			if path == "" {
				path = NodeText(c, source)
			} else {
				alias = NodeText(c, source)
			}
		case "namespace_aliasing_clause":
			if n := int(c.NamedChildCount()); n > 0 {
				alias = NodeText(c.NamedChild(n-1), source)
			}
		}
	}
	if a := clause.ChildByFieldName("alias"); a != nil {
		alias = NodeText(a, source)
	}

	path = strings.Trim(path, `\`)
	if path == "" {
		return
	}
	if prefix != "" {
		path = prefix + `\` + path
	}
	if alias == "" {
		alias = path[strings.LastIndex(path, `\`)+1:]
	}
	out[alias] = path
}
