package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/phpdoccheck/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"newline", "a\nb", `"a\nb"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "A::b", `"A::b"`},
		{"namespace", `App\Model`, `"App\\Model"`},
		{"array shorthand", "int[]", `"int[]"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"union", "int|null", "int|null"},
		{"variable", "$param1", "$param1"},
		{"path", "src/Model.php", "src/Model.php"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	res := model.Result{
		Errors: []model.Finding{
			{Kind: model.KindClass, File: "A.php", Class: "A", Line: 3},
			{Kind: model.KindMethod, File: "A.php", Class: "A", Method: "run", Line: 5},
		},
		Warnings: []model.Finding{
			{Kind: model.KindParamMismatch, File: "A.php", Class: "A", Method: "run", Line: 5,
				Param: "$x", SignatureType: "int", DocType: "int|null"},
		},
	}

	got := Encode(res, 2, 1)
	want := strings.Join([]string{
		"checked: 2",
		"passed: 1",
		"errors[2]{type,file,line,class,method}:",
		`  class,A.php,3,A,""`,
		"  method,A.php,5,A,run",
		"warnings[1]{type,file,line,class,method,param,signature,doc}:",
		"  param-mismatch,A.php,5,A,run,$x,int,int|null",
	}, "\n")
	if got != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(model.Result{}, 0, 0)
	if !strings.Contains(got, "errors[0]{") || !strings.Contains(got, "warnings[0]{") {
		t.Errorf("empty tables missing:\n%s", got)
	}
}
