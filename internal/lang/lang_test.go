package lang

import (
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".php", "php"},
		{".PHP", "php"},
		{".py", ""},
		{".phtml", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	l, ok := Languages["php"]
	if !ok {
		t.Fatal("php language not registered")
	}
	if l.lang == nil {
		t.Error("php language is nil")
	}
	if l.DocComment == nil || l.TypeRef == nil || l.Params == nil || l.Imports == nil {
		t.Error("php hooks not set")
	}
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	p := Languages["php"].NewParser()
	if p == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestGetQuery(t *testing.T) {
	t.Parallel()

	q, err := Languages["php"].GetQuery()
	if err != nil {
		t.Fatalf("GetQuery: %v", err)
	}
	if q == nil {
		t.Fatal("query is nil")
	}
}

func TestIsDocComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"/** doc */", true},
		{"/**\n * doc\n */", true},
		{"/**/", false},
		{"/* plain */", false},
		{"// line", false},
		{"/***/", false},
	}
	for _, tt := range tests {
		if got := isDocComment(tt.text); got != tt.want {
			t.Errorf("isDocComment(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	if got := CollapseWhitespace("  A &\n B "); got != "A&B" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
