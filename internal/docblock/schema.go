package docblock

import (
	"regexp"
	"strings"
)

// Field names used by the vector tag schema.
const (
	FieldType = "type"
	FieldVar  = "var"
	FieldDesc = "desc"
)

// Schema lists the tags whose bodies are whitespace-delimited vectors and the
// names of their fields. The last field absorbs the rest of the body.
var Schema = map[string][]string{
	"param":  {FieldType, FieldVar, FieldDesc},
	"return": {FieldType, FieldDesc},
	"var":    {FieldType, FieldVar, FieldDesc},
	"throws": {FieldType, FieldDesc},
}

// phpSpace is the set of characters stripped by trimming.
const phpSpace = " \t\n\r\x00\x0B"

var (
	lineBreakRe = regexp.MustCompile(`\r?\n\r?`)
	tagRe       = regexp.MustCompile(`^@([A-Za-z][A-Za-z0-9_]*)`)
	fieldSepRe  = regexp.MustCompile(`\s+`)
)

// lexLines strips the comment delimiters and returns the content lines with
// their leading "*" padding and trailing whitespace removed.
func lexLines(comment string) []string {
	if len(comment) < 5 {
		return []string{""}
	}
	body := comment[3 : len(comment)-2]

	lines := lineBreakRe.Split(body, -1)
	for i, line := range lines {
		line = strings.TrimRight(line, phpSpace)
		lines[i] = strings.TrimLeft(line, "*"+phpSpace)
	}
	return lines
}

// tagName returns the tag name (without @) a line or block starts with.
func tagName(s string) (string, bool) {
	m := tagRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isTagged reports whether s starts with a tag token.
func isTagged(s string) bool {
	_, ok := tagName(s)
	return ok
}

// groupBlocks groups lines so that every tag line starts a new block. Lines
// before the first tag line form block 0.
func groupBlocks(lines []string) [][]string {
	var blocks [][]string
	for _, line := range lines {
		if isTagged(line) || len(blocks) == 0 {
			blocks = append(blocks, nil)
		}
		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], line)
	}
	return blocks
}

// splitFields splits body on runs of whitespace into at most n tokens. The
// final token keeps the remainder of body verbatim.
func splitFields(body string, n int) []string {
	if body == "" || n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{body}
	}

	seps := fieldSepRe.FindAllStringIndex(body, n-1)
	parts := make([]string, 0, len(seps)+1)
	start := 0
	for _, s := range seps {
		parts = append(parts, body[start:s[0]])
		start = s[1]
	}
	return append(parts, body[start:])
}

// vector maps a tag body onto the named fields; fields past the end of the
// body stay unset.
func vector(fields []string, body string) []Field {
	parts := splitFields(body, len(fields))
	out := make([]Field, len(fields))
	for i, name := range fields {
		out[i].Name = name
		if i < len(parts) {
			out[i].Value = parts[i]
			out[i].Valid = true
		}
	}
	for i := range out {
		if out[i].Name == FieldVar && out[i].Valid {
			out[i].Value = strings.TrimPrefix(out[i].Value, "...")
		}
	}
	return out
}
