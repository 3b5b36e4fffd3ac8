// Package report renders check results as text, JSON or TOON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phobologic/phpdoccheck/internal/model"
	"github.com/phobologic/phpdoccheck/internal/toon"
)

// Summary is the outcome of a whole run.
type Summary struct {
	Checked int
	Passed  int
	Elapsed time.Duration
	Result  model.Result
}

// Failed reports whether the run should exit non-zero.
func (s Summary) Failed(failOnWarnings bool) bool {
	return len(s.Result.Errors) > 0 || (failOnWarnings && len(s.Result.Warnings) > 0)
}

// WriteText writes the summary line and, unless infoOnly, one line per
// finding.
func WriteText(w io.Writer, s Summary, infoOnly bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\nChecked %d files in %.2f seconds.\n", s.Checked, s.Elapsed.Seconds())
	fmt.Fprintf(&b, "%d Passed / %d Errors / %d Warnings\n", s.Passed, len(s.Result.Errors), len(s.Result.Warnings))

	if !infoOnly {
		if len(s.Result.Errors) > 0 {
			b.WriteString("\n")
		}
		for _, f := range s.Result.Errors {
			fmt.Fprintf(&b, "ERROR    %s:%d - %s\n", f.File, f.Line, describe(f))
		}
		if len(s.Result.Warnings) > 0 {
			b.WriteString("\n")
		}
		for _, f := range s.Result.Warnings {
			fmt.Fprintf(&b, "WARNING  %s:%d - %s\n", f.File, f.Line, describe(f))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func describe(f model.Finding) string {
	switch f.Kind {
	case model.KindClass:
		return fmt.Sprintf("Class %s is missing a docblock.", f.Class)
	case model.KindMethod:
		return fmt.Sprintf("Method %s is missing a docblock.", f.Subject())
	case model.KindParamMissing:
		return fmt.Sprintf("%s - @param %s missing.", f.Subject(), f.Param)
	case model.KindParamMismatch:
		return fmt.Sprintf("%s - @param %s (%s) does not match method signature (%s).",
			f.Subject(), f.Param, f.DocType, f.SignatureType)
	case model.KindReturnMissing:
		return fmt.Sprintf("%s - @return missing.", f.Subject())
	case model.KindReturnMismatch:
		return fmt.Sprintf("%s - @return %s does not match method signature (%s).",
			f.Subject(), f.DocType, f.SignatureType)
	default:
		return string(f.Kind)
	}
}

type jsonFinding struct {
	Type       model.FindingKind `json:"type"`
	File       string            `json:"file"`
	Class      string            `json:"class"`
	Method     string            `json:"method,omitempty"`
	Line       int               `json:"line"`
	Param      string            `json:"param,omitempty"`
	ParamType  string            `json:"param-type,omitempty"`
	ReturnType string            `json:"return-type,omitempty"`
	DocType    string            `json:"doc-type,omitempty"`
}

func toJSON(f model.Finding) jsonFinding {
	jf := jsonFinding{
		Type:    f.Kind,
		File:    f.File,
		Class:   f.Class,
		Method:  f.Method,
		Line:    f.Line,
		Param:   f.Param,
		DocType: f.DocType,
	}
	switch f.Kind {
	case model.KindParamMismatch:
		jf.ParamType = f.SignatureType
	case model.KindReturnMismatch:
		jf.ReturnType = f.SignatureType
	}
	return jf
}

// WriteJSON writes errors followed by warnings as one JSON array.
func WriteJSON(w io.Writer, res model.Result) error {
	out := make([]jsonFinding, 0, len(res.Errors)+len(res.Warnings))
	for _, f := range res.Errors {
		out = append(out, toJSON(f))
	}
	for _, f := range res.Warnings {
		out = append(out, toJSON(f))
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding findings: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteTOON writes the findings as TOON tables.
func WriteTOON(w io.Writer, s Summary) error {
	_, err := fmt.Fprintln(w, toon.Encode(s.Result, s.Checked, s.Passed))
	return err
}
