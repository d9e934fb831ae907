package structurer

import (
	"regexp"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "a  b\t c", "a b c"},
		{"joins hyphenated break", "docu-\nmentation", "documentation"},
		{"newline becomes space", "first line\nsecond line", "first line second line"},
		{"removes soft hyphens", "docu­mentation", "documentation"},
		{"trims", "  padded  ", "padded"},
		{"keeps real hyphens", "risk-weighted assets", "risk-weighted assets"},
		{"empty", "   \n  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in, nil)
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalize_HeaderPattern(t *testing.T) {
	headerRe := regexp.MustCompile(`Guide to internal models\s+\d+`)
	got := Normalize("policy text Guide to internal models 14 continues here", headerRe)
	want := "policy text continues here"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
