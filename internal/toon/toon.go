// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// check results.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/phpdoccheck/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts the findings of a run into TOON format.
func Encode(res model.Result, checked, passed int) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("checked: %d", checked))
	parts = append(parts, fmt.Sprintf("passed: %d", passed))

	var errorRows [][]string
	for i := range res.Errors {
		f := &res.Errors[i]
		errorRows = append(errorRows, []string{
			string(f.Kind),
			f.File,
			fmt.Sprintf("%d", f.Line),
			f.Class,
			f.Method,
		})
	}
	parts = append(parts, formatTabular("errors", []string{"type", "file", "line", "class", "method"}, errorRows))

	var warningRows [][]string
	for i := range res.Warnings {
		f := &res.Warnings[i]
		warningRows = append(warningRows, []string{
			string(f.Kind),
			f.File,
			fmt.Sprintf("%d", f.Line),
			f.Class,
			f.Method,
			f.Param,
			f.SignatureType,
			f.DocType,
		})
	}
	parts = append(parts, formatTabular("warnings",
		[]string{"type", "file", "line", "class", "method", "param", "signature", "doc"}, warningRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
