package parse

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/phpdoccheck/internal/lang"
	"github.com/phobologic/phpdoccheck/internal/model"
)

func setup(t *testing.T) func(source string) (*model.File, error) {
	t.Helper()
	l := lang.Languages["php"]
	if l == nil {
		t.Fatal("language php not registered")
	}
	q, err := l.GetQuery()
	if err != nil {
		t.Fatalf("GetQuery: %v", err)
	}
	return func(source string) (*model.File, error) {
		p := l.NewParser()
		return ExtractFile(context.Background(), l, p, q, []byte(source), "test.php")
	}
}

func mustExtract(t *testing.T, source string) *model.File {
	t.Helper()
	f, err := setup(t)(source)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	return f
}

func TestExtractClassAndMethods(t *testing.T) {
	t.Parallel()

	f := mustExtract(t, `<?php

namespace Test\Example;

/**
 * A class.
 */
class TestClass
{
    public function test1($param1)
    {
    }

    // not a docblock
    /**
     * @param int $a
     */
    public function test2(int $a, ?string $b, int|float $c, $d = null, ...$rest): ?bool
    {
        return null;
    }
}
`)

	if len(f.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(f.Classes))
	}
	cls := f.Classes[0]
	if cls.Name != `Test\Example\TestClass` {
		t.Errorf("class name = %q", cls.Name)
	}
	if cls.Line != 8 {
		t.Errorf("class line = %d, want 8", cls.Line)
	}
	if cls.Doc == nil {
		t.Error("class docblock not found")
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(cls.Methods))
	}

	m1 := cls.Methods[0]
	if m1.Name != "test1" || m1.Line != 10 || m1.Doc != nil || m1.Return != nil {
		t.Errorf("test1 = %+v", m1)
	}
	want1 := []model.Param{{Name: "$param1"}}
	if diff := cmp.Diff(want1, m1.Params); diff != "" {
		t.Errorf("test1 params (-want +got):\n%s", diff)
	}

	m2 := cls.Methods[1]
	if m2.Doc == nil {
		t.Fatal("test2 docblock not found")
	}
	if *m2.Doc != "/**\n     * @param int $a\n     */" {
		t.Errorf("test2 doc = %q", *m2.Doc)
	}
	want2 := []model.Param{
		{Name: "$a", Type: &model.TypeRef{Members: []string{"int"}}},
		{Name: "$b", Type: &model.TypeRef{Members: []string{"string"}, Nullable: true}},
		{Name: "$c", Type: &model.TypeRef{Members: []string{"int", "float"}}},
		{Name: "$d", DefaultNull: true},
		{Name: "$rest", Variadic: true},
	}
	if diff := cmp.Diff(want2, m2.Params); diff != "" {
		t.Errorf("test2 params (-want +got):\n%s", diff)
	}
	wantRet := &model.TypeRef{Members: []string{"bool"}, Nullable: true}
	if diff := cmp.Diff(wantRet, m2.Return); diff != "" {
		t.Errorf("test2 return (-want +got):\n%s", diff)
	}
}

func TestExtractImports(t *testing.T) {
	t.Parallel()

	f := mustExtract(t, `<?php
namespace App;

use Foo\Bar;
use Foo\Baz as Qux;
use function Foo\helper;

class A {}
`)

	if len(f.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(f.Classes))
	}
	want := map[string]string{"Bar": `Foo\Bar`, "Qux": `Foo\Baz`}
	if diff := cmp.Diff(want, f.Classes[0].Aliases); diff != "" {
		t.Errorf("aliases (-want +got):\n%s", diff)
	}
	if f.Classes[0].Name != `App\A` {
		t.Errorf("class name = %q", f.Classes[0].Name)
	}
}

func TestExtractBracedNamespaces(t *testing.T) {
	t.Parallel()

	f := mustExtract(t, `<?php
namespace One {
    use X\Y;
    class A {}
}
namespace Two {
    class B {}
}
`)

	if len(f.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(f.Classes))
	}
	if f.Classes[0].Name != `One\A` || f.Classes[1].Name != `Two\B` {
		t.Errorf("names = %q, %q", f.Classes[0].Name, f.Classes[1].Name)
	}
	if len(f.Classes[1].Aliases) != 0 {
		t.Errorf("imports leaked into second namespace: %v", f.Classes[1].Aliases)
	}
}

func TestExtractSkipsNonClasses(t *testing.T) {
	t.Parallel()

	f := mustExtract(t, `<?php
interface I { public function a(): int; }
trait T { public function b() {} }
function free() {}
class C {
    public function c() { return new class { public function d() {} }; }
}
`)

	if len(f.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(f.Classes))
	}
	if f.Classes[0].Name != "C" {
		t.Errorf("class name = %q", f.Classes[0].Name)
	}
	if len(f.Classes[0].Methods) != 1 || f.Classes[0].Methods[0].Name != "c" {
		t.Errorf("methods = %+v", f.Classes[0].Methods)
	}
}

func TestExtractRedeclaredMethod(t *testing.T) {
	t.Parallel()

	f := mustExtract(t, `<?php
class C {
    public function a() {}
    public function b() {}
    /** @return int */
    public function a(): int { return 1; }
}
`)

	ms := f.Classes[0].Methods
	if len(ms) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(ms))
	}
	if ms[0].Name != "a" || ms[0].Line != 6 || ms[0].Doc == nil {
		t.Errorf("redeclared method not replaced in place: %+v", ms[0])
	}
}

func TestExtractEmptySource(t *testing.T) {
	t.Parallel()

	f := mustExtract(t, "")
	if len(f.Classes) != 0 {
		t.Errorf("expected no classes, got %d", len(f.Classes))
	}
}

func TestExtractSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := setup(t)("<?php class { function ( }")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}
