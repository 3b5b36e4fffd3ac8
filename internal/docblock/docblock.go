// Package docblock parses PHP documentation comments into a description and
// an ordered set of @tags.
//
// Parsing never fails. Truncated or malformed comments degrade to an empty
// description and no tags.
package docblock

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is one named slot of a vector tag. Valid is false when the tag body
// ran out before the field was reached.
type Field struct {
	Name  string
	Value string
	Valid bool
}

// Occurrence is a single appearance of a tag. Tags listed in Schema carry
// Fields; all other tags carry Text.
type Occurrence struct {
	Text   string
	Fields []Field
}

// IsVector reports whether the occurrence was split into fields.
func (o Occurrence) IsVector() bool {
	return o.Fields != nil
}

// Field returns the value of the named field.
func (o Occurrence) Field(name string) (string, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, f.Valid
		}
	}
	return "", false
}

// String renders the occurrence body as it would appear after the tag name.
func (o Occurrence) String() string {
	if !o.IsVector() {
		return o.Text
	}
	var parts []string
	for _, f := range o.Fields {
		if f.Valid {
			parts = append(parts, f.Value)
		}
	}
	return strings.Join(parts, " ")
}

// Doc is a parsed docblock.
type Doc struct {
	Description string
	tags        *orderedmap.OrderedMap[string, []Occurrence]
}

// Parse parses a complete docblock, including its /** and */ delimiters.
func Parse(comment string) *Doc {
	d := &Doc{tags: orderedmap.New[string, []Occurrence]()}

	for i, block := range groupBlocks(lexLines(comment)) {
		body := strings.Trim(strings.Join(block, "\n"), phpSpace)

		name, tagged := tagName(body)
		if !tagged {
			if i == 0 {
				d.Description = body
			}
			continue
		}

		// Drop the tag token and the separator that follows it.
		rest := ""
		if cut := len(name) + 2; cut <= len(body) {
			rest = strings.TrimLeft(body[cut:], phpSpace)
		}

		var occ Occurrence
		if fields, ok := Schema[name]; ok {
			occ.Fields = vector(fields, rest)
		} else {
			occ.Text = rest
		}
		d.add(name, occ)
	}
	return d
}

func (d *Doc) add(name string, occ Occurrence) {
	existing, _ := d.tags.Get(name)
	d.tags.Set(name, append(existing, occ))
}

// Names returns the tag names in order of first appearance.
func (d *Doc) Names() []string {
	names := make([]string, 0, d.tags.Len())
	for pair := d.tags.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// HasTag reports whether the docblock contains at least one @tag.
func (d *Doc) HasTag(tag string) bool {
	_, ok := d.tags.Get(tag)
	return ok
}

// Tag returns the occurrences of tag in appearance order, or nil.
func (d *Doc) Tag(tag string) []Occurrence {
	occs, _ := d.tags.Get(tag)
	return occs
}

// TagImplode joins the bodies of all occurrences of tag with sep. The second
// result is false when the tag is absent.
func (d *Doc) TagImplode(tag, sep string) (string, bool) {
	occs, ok := d.tags.Get(tag)
	if !ok {
		return "", false
	}
	bodies := make([]string, len(occs))
	for i, o := range occs {
		bodies[i] = o.String()
	}
	return strings.Join(bodies, sep), true
}

// Params returns the @param occurrences in appearance order.
func (d *Doc) Params() []Occurrence {
	return d.Tag("param")
}

// Return returns the first @return occurrence.
func (d *Doc) Return() (Occurrence, bool) {
	occs := d.Tag("return")
	if len(occs) == 0 {
		return Occurrence{}, false
	}
	return occs[0], true
}

// String serializes the docblock. Parsing the result yields an equal Doc.
func (d *Doc) String() string {
	var lines []string
	if d.Description != "" {
		lines = append(lines, strings.Split(d.Description, "\n")...)
	}
	if d.tags.Len() > 0 && len(lines) > 0 {
		lines = append(lines, "")
	}
	for pair := d.tags.Oldest(); pair != nil; pair = pair.Next() {
		for _, occ := range pair.Value {
			line := "@" + pair.Key
			if body := occ.String(); body != "" {
				line += " " + body
			}
			lines = append(lines, strings.Split(line, "\n")...)
		}
	}

	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range lines {
		if line == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * " + line + "\n")
	}
	b.WriteString(" */")
	return b.String()
}
