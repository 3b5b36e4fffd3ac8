// Package parse extracts class and method signatures from source files using
// tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/phpdoccheck/internal/lang"
	"github.com/phobologic/phpdoccheck/internal/model"
)

// ErrSyntax is returned for sources that do not parse cleanly.
var ErrSyntax = errors.New("syntax error")

type capture struct {
	name string
	node *sitter.Node
}

// scope is the namespace and import table in effect for a range of bytes.
type scope struct {
	prefix  string
	aliases map[string]string
	end     uint32
}

func globalScope() scope {
	return scope{aliases: map[string]string{}, end: math.MaxUint32}
}

// ExtractFile parses a source file and returns its classes and methods in
// document order. The parser must be created for the correct language.
// filePath is used only for File.Path and should be the repo-relative path.
func ExtractFile(ctx context.Context, l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) (*model.File, error) {
	file := &model.File{Path: filePath}
	if len(source) == 0 {
		return file, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parsing %s: %w", filePath, ErrSyntax)
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var captures []capture
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range match.Captures {
			captures = append(captures, capture{name: query.CaptureNameForId(c.Index), node: c.Node})
		}
	}
	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].node.StartByte() < captures[j].node.StartByte()
	})

	cur := globalScope()
	classIndex := make(map[uint32]int) // class node start byte -> index in file.Classes
	byName := make(map[string]int)

	for _, c := range captures {
		node := c.node
		if node.StartByte() >= cur.end {
			cur = globalScope()
		}

		switch c.name {
		case "namespace":
			cur = namespaceScope(node, source)

		case "import":
			maps.Copy(cur.aliases, l.Imports(node, source))

		case "definition.class":
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			name := lang.NodeText(nameNode, source)
			if cur.prefix != "" {
				name = cur.prefix + `\` + name
			}
			cls := model.Class{
				Name:    name,
				Line:    int(node.StartPoint().Row) + 1,
				Doc:     l.DocComment(node, source),
				Aliases: maps.Clone(cur.aliases),
			}
			// A redeclared class replaces the earlier one in place.
			if idx, ok := byName[name]; ok {
				file.Classes[idx] = cls
				classIndex[node.StartByte()] = idx
				continue
			}
			byName[name] = len(file.Classes)
			classIndex[node.StartByte()] = len(file.Classes)
			file.Classes = append(file.Classes, cls)

		case "definition.method":
			classNode := findEnclosingClass(node)
			if classNode == nil {
				continue
			}
			idx, ok := classIndex[classNode.StartByte()]
			if !ok {
				continue
			}
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			addMethod(&file.Classes[idx], model.Method{
				Name:   lang.NodeText(nameNode, source),
				Line:   int(node.StartPoint().Row) + 1,
				Doc:    l.DocComment(node, source),
				Params: l.Params(node, source),
				Return: l.TypeRef(node.ChildByFieldName("return_type"), source),
			})
		}
	}

	return file, nil
}

// namespaceScope opens the scope of a namespace definition. A braced
// namespace ends with its body; `namespace X;` lasts until the next one.
func namespaceScope(node *sitter.Node, source []byte) scope {
	s := globalScope()
	if name := node.ChildByFieldName("name"); name != nil {
		s.prefix = lang.NodeText(name, source)
	}
	if node.ChildByFieldName("body") != nil {
		s.end = node.EndByte()
	}
	return s
}

// addMethod appends m, replacing an earlier method of the same name in place.
func addMethod(cls *model.Class, m model.Method) {
	for i := range cls.Methods {
		if cls.Methods[i].Name == m.Name {
			cls.Methods[i] = m
			return
		}
	}
	cls.Methods = append(cls.Methods, m)
}

// findEnclosingClass returns the class_declaration whose body directly holds
// the method. Methods of interfaces, traits, enums and anonymous classes
// yield nil.
func findEnclosingClass(methodNode *sitter.Node) *sitter.Node {
	parent := methodNode.Parent()
	if parent == nil || parent.Type() != "declaration_list" {
		return nil
	}
	if gp := parent.Parent(); gp != nil && gp.Type() == "class_declaration" {
		return gp
	}
	return nil
}
