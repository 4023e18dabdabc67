package workbench

import (
	"errors"
	"strings"
	"testing"

	"github.com/pthm-cable/snow/inject"
)

// block has the shape inject.Generate produces: separator newline, then the
// marker-delimited module.
func block(body string) string {
	return "\n" + inject.StartMarker + "\n" + body + "\n" + inject.EndMarker
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no block", "var a = 1;\n", "var a = 1;\n"},
		{"single block", "var a = 1;\n" + block("snow()"), "var a = 1;\n"},
		{"no trailing newline", "x.js.map" + block("snow()"), "x.js.map"},
		{"block in middle", "a;\n" + block("x") + "\nb;\n", "a;\n\nb;\n"},
		{"two blocks", block("x") + "mid" + block("y"), "mid"},
		{"multiline body", "a;" + block("line1\nline2\n\tline3"), "a;"},
		{"block without separator", "a;" + inject.StartMarker + "x" + inject.EndMarker, "a;"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Strip(tc.in); got != tc.want {
				t.Errorf("Strip() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStripIsNonGreedy(t *testing.T) {
	in := block("one") + "\nKEEP\n" + block("two")
	if got := Strip(in); got != "\nKEEP\n" {
		t.Errorf("Strip() = %q, text between blocks must survive", got)
	}
}

func TestEnabled(t *testing.T) {
	if Enabled("var a;") {
		t.Error("plain content reported enabled")
	}
	if !Enabled("var a;" + block("x")) {
		t.Error("patched content reported disabled")
	}
}

func TestApplyAppendsBlockVerbatim(t *testing.T) {
	b := block("snow()")
	for _, content := range []string{
		"",
		"var a;",
		"var a;\n",
		"})();\n//# sourceMappingURL=workbench.desktop.main.js.map",
	} {
		got, err := Apply(content, b)
		if err != nil {
			t.Fatal(err)
		}
		if got != content+b {
			t.Errorf("Apply(%q) = %q, want content followed by the block", content, got)
		}
		if back := Strip(got); back != content {
			t.Errorf("Strip(Apply(%q)) = %q, want the original", content, back)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	for _, content := range []string{"", "var a;", "var a;\n", "x\n" + block("old")} {
		b := block("new")
		once, err := Apply(content, b)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Apply(once, b)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("Apply not idempotent for %q:\n once  %q\n twice %q", content, once, twice)
		}
		if strings.Count(twice, inject.StartMarker) != 1 {
			t.Errorf("expected exactly one block, got %d", strings.Count(twice, inject.StartMarker))
		}
	}
}

func TestApplyReplacesOldBlock(t *testing.T) {
	got, err := Apply("var a;\n"+block("old"), block("new"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "old") {
		t.Error("old block survived")
	}
	if !strings.HasSuffix(got, block("new")) {
		t.Error("new block not appended")
	}
}

func TestApplyDanglingMarker(t *testing.T) {
	_, err := Apply("var a;\n"+inject.StartMarker+"\nbroken", block("new"))
	if !errors.Is(err, ErrDanglingMarker) {
		t.Errorf("err = %v, want ErrDanglingMarker", err)
	}
}
