package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/phpdoccheck/internal/typeexpr"
)

func doc(raw string) *Doc {
	return &Doc{Type: typeexpr.Parse(raw, nil)}
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pos  Position
		doc  *Doc
		sig  typeexpr.Expr
		php  int
		want Verdict
	}{
		{"no declared type", Param, nil, typeexpr.None, 8, Verdict{Kind: Agree}},
		{"no declared type ignores doc", Return, doc("int"), typeexpr.None, 8, Verdict{Kind: Agree}},
		{"missing tag", Param, nil, typeexpr.Of("int"), 8, Verdict{Kind: MissingInDoc}},
		{"missing type", Param, &Doc{}, typeexpr.Of("int"), 8, Verdict{Kind: MissingInDoc}},
		{"missing type on union", Param, &Doc{}, typeexpr.Of("int", "float"), 8, Verdict{Kind: Agree}},
		{"equal", Param, doc("int"), typeexpr.Of("int"), 8, Verdict{Kind: Agree}},
		{"order independent", Param, doc("float|int"), typeexpr.Of("int", "float"), 8, Verdict{Kind: Agree}},
		{"nullable", Param, doc("null|int"), typeexpr.Of("int", "null"), 8, Verdict{Kind: Agree}},
		{"array shorthand", Param, doc("int[]"), typeexpr.Of("array"), 8, Verdict{Kind: Agree}},
		{"array shorthand union", Param, doc(`int[]|\Foo[]`), typeexpr.Of("array"), 8, Verdict{Kind: Agree}},
		{"array shorthand with null", Param, doc("int[]|null"), typeexpr.Of("array"), 8, Verdict{Kind: Agree}},
		{"array shorthand after null", Param, doc("null|int[]"), typeexpr.Of("array"), 8, Verdict{Kind: Agree}},
		{"array shorthand with scalar", Param, doc("string|int[]"), typeexpr.Of("array"), 8, Verdict{Kind: Agree}},
		{"array shorthand on return", Return, doc("int[]|null"), typeexpr.Of("array"), 8, Verdict{Kind: Agree}},
		{
			"array shorthand needs array signature", Param, doc("int[]|null"), typeexpr.Of("array", "null"), 8,
			Verdict{Kind: Mismatch, Signature: "array|null", Doc: "int[]|null"},
		},
		{
			"array vs scalar", Param, doc("int"), typeexpr.Of("array"), 8,
			Verdict{Kind: Mismatch, Signature: "array", Doc: "int"},
		},
		{"mixed", Param, doc("mixed"), typeexpr.Of("int", "null"), 8, Verdict{Kind: Agree}},
		{
			"param added null", Param, doc("int|null"), typeexpr.Of("int"), 8,
			Verdict{Kind: Mismatch, Signature: "int", Doc: "int|null"},
		},
		{
			"param union on old php", Param, doc("int|null"), typeexpr.Of("int"), 7,
			Verdict{Kind: Mismatch, Signature: "int", Doc: "int|null"},
		},
		{
			"return union on php 8", Return, doc("bool|int"), typeexpr.Of("bool"), 8,
			Verdict{Kind: Mismatch, Signature: "bool", Doc: "bool|int"},
		},
		{"return union on php 7", Return, doc("bool|int"), typeexpr.Of("bool"), 7, Verdict{Kind: Agree}},
		{
			"return nullable undocumented", Return, doc("bool"), typeexpr.Of("bool", "null"), 7,
			Verdict{Kind: Mismatch, Signature: "bool|null", Doc: "bool"},
		},
		{
			"written order kept", Param, doc("int"), typeexpr.Of("int", "float"), 8,
			Verdict{Kind: Mismatch, Signature: "int|float", Doc: "int"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Reconcile(tt.pos, tt.doc, tt.sig, tt.php)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Reconcile() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcileUntypedNullDefault(t *testing.T) {
	t.Parallel()

	sig := typeexpr.Of(typeexpr.Any, typeexpr.Null)
	if v := Reconcile(Param, doc("mixed"), sig, 8); v.Kind != Agree {
		t.Errorf("mixed vs <any>|null = %v, want agree", v.Kind)
	}
	if v := Reconcile(Param, doc("string|null"), sig, 8); v.Kind != Mismatch {
		t.Errorf("string|null vs <any>|null = %v, want mismatch", v.Kind)
	}
}
